package smc

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"sync"
)

// Dealer is the trusted third party generating Beaver triplets. For each
// multiplication node it draws a, b uniform in Z_p, sets c = a*b, and
// shares all three additively over the registered parties. Triplets are
// memoized per node: the first request materializes the sharing, later
// requests by any party return that party's slice. The dealer is offline
// with respect to the computation parties.
type Dealer struct {
	mu sync.Mutex

	ctx     *Context
	parties []PartyID
	index   map[PartyID]int
	rng     io.Reader

	triplets map[NodeID]*tripletSharing
}

type tripletSharing struct {
	a, b, c []Share
}

// TripletShares is the per-party slice of one Beaver triplet.
type TripletShares struct {
	A, B, C Share
}

// NewDealer registers the party set for one protocol instance. A nil rng
// falls back to crypto/rand; injecting a seeded reader makes the dealer
// deterministic for tests.
func NewDealer(ctx *Context, parties []PartyID, rng io.Reader) *Dealer {
	if rng == nil {
		rng = rand.Reader
	}
	index := make(map[PartyID]int, len(parties))
	for i, id := range parties {
		index[id] = i
	}
	return &Dealer{
		ctx:      ctx,
		parties:  parties,
		index:    index,
		rng:      rng,
		triplets: make(map[NodeID]*tripletSharing),
	}
}

// Triplet returns the caller's shares of the triplet for a multiplication
// node, creating the triplet on first request.
func (d *Dealer) Triplet(party PartyID, id NodeID) (TripletShares, error) {
	idx, ok := d.index[party]
	if !ok {
		return TripletShares{}, fmt.Errorf("%w: %s", ErrUnknownParty, party)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	t, ok := d.triplets[id]
	if !ok {
		var err error
		t, err = d.deal()
		if err != nil {
			return TripletShares{}, err
		}
		d.triplets[id] = t
	}

	return TripletShares{A: t.a[idx], B: t.b[idx], C: t.c[idx]}, nil
}

func (d *Dealer) deal() (*tripletSharing, error) {
	a, err := rand.Int(d.rng, d.ctx.p)
	if err != nil {
		return nil, fmt.Errorf("smc: failed to sample triplet: %w", err)
	}
	b, err := rand.Int(d.rng, d.ctx.p)
	if err != nil {
		return nil, fmt.Errorf("smc: failed to sample triplet: %w", err)
	}
	c := d.ctx.reduce(new(big.Int).Mul(a, b))

	n := len(d.parties)
	aShares, err := d.ctx.Split(a, n, d.rng)
	if err != nil {
		return nil, err
	}
	bShares, err := d.ctx.Split(b, n, d.rng)
	if err != nil {
		return nil, err
	}
	cShares, err := d.ctx.Split(c, n, d.rng)
	if err != nil {
		return nil, err
	}
	return &tripletSharing{a: aShares, b: bShares, c: cShares}, nil
}
