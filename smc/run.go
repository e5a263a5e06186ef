package smc

import (
	"context"
	"io"
	"math/big"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Inputs assigns each party the values of the Secret nodes it owns.
type Inputs map[PartyID]map[NodeID]*big.Int

// RunLocal executes one protocol instance with every party as a goroutine
// over a fresh in-memory bus and dealer. It returns the per-party results,
// which are all equal when the run succeeds; the first party failure
// cancels the remaining ones.
func RunLocal(ctx context.Context, fieldCtx *Context, spec Spec, inputs Inputs, rng io.Reader) (map[PartyID]*big.Int, error) {
	// One seeded reader may feed every goroutine; serialize access to it.
	if rng != nil {
		rng = &lockedReader{r: rng}
	}
	bus := NewMemoryBus()
	dealer := NewDealer(fieldCtx, spec.Parties, rng)

	var mu sync.Mutex
	results := make(map[PartyID]*big.Int, len(spec.Parties))

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range spec.Parties {
		id := id
		party, err := NewParty(id, fieldCtx, spec, inputs[id], bus.Endpoint(id), dealer, rng)
		if err != nil {
			return nil, err
		}
		g.Go(func() error {
			out, err := party.Run(gctx)
			if err != nil {
				return err
			}
			mu.Lock()
			results[id] = out
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}
