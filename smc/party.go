package smc

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Spec fixes one protocol instance: the ordered party set and the circuit
// with its output node. Every party must construct an identical Spec.
type Spec struct {
	Parties []PartyID
	Circuit *Circuit
	Root    NodeID
}

// Party evaluates the circuit from one participant's point of view. The
// evaluator walks the DAG depth-first; Secret and interior results are
// memoized per node so shared subexpressions are computed, and secrets
// shared, exactly once.
type Party struct {
	id         PartyID
	ctx        *Context
	spec       Spec
	inputs     map[NodeID]*big.Int
	bus        Bus
	dealer     *Dealer
	rng        io.Reader
	designated bool

	cache map[NodeID]operand
}

// operand is the result of evaluating a node: either a share of a secret
// value, or a public scalar.
type operand struct {
	isShare bool
	share   Share
	scalar  *big.Int
}

// NewParty wires a participant. inputs maps the Secret nodes this party
// owns to their values; a nil rng falls back to crypto/rand.
func NewParty(id PartyID, ctx *Context, spec Spec, inputs map[NodeID]*big.Int, bus Bus, dealer *Dealer, rng io.Reader) (*Party, error) {
	found := false
	for _, p := range spec.Parties {
		if p == id {
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownParty, id)
	}
	if len(spec.Parties) < 2 {
		return nil, ErrTooFewParties
	}
	if rng == nil {
		rng = rand.Reader
	}
	return &Party{
		id:         id,
		ctx:        ctx,
		spec:       spec,
		inputs:     inputs,
		bus:        bus,
		dealer:     dealer,
		rng:        rng,
		designated: designated(spec.Parties) == id,
		cache:      make(map[NodeID]operand),
	}, nil
}

// Run evaluates the circuit, broadcasts this party's final share and
// reconstructs the joint result from all N final shares.
func (p *Party) Run(ctx context.Context) (*big.Int, error) {
	out, err := p.eval(ctx, p.spec.Root)
	if err != nil {
		return nil, err
	}

	// A public output still terminates with the broadcast round: the
	// designated party contributes the value, the others zero.
	final := out.share
	if !out.isShare {
		if p.designated {
			final = p.ctx.NewShare(out.scalar)
		} else {
			final = p.ctx.NewShare(new(big.Int))
		}
	}

	if err := p.bus.Publish(ctx, "final", final.Bytes(p.ctx)); err != nil {
		return nil, err
	}

	shares := make([]Share, 0, len(p.spec.Parties))
	for _, other := range p.spec.Parties {
		payload, err := p.bus.Fetch(ctx, other, "final")
		if err != nil {
			return nil, err
		}
		s, err := p.ctx.ShareFromBytes(payload)
		if err != nil {
			return nil, err
		}
		shares = append(shares, s)
	}
	return p.ctx.Reconstruct(shares), nil
}

func (p *Party) eval(ctx context.Context, id NodeID) (operand, error) {
	if cached, ok := p.cache[id]; ok {
		return cached, nil
	}

	n, err := p.spec.Circuit.at(id)
	if err != nil {
		return operand{}, err
	}

	var out operand
	switch n.op {
	case opScalar:
		out = operand{scalar: p.ctx.reduce(n.scalar)}
	case opSecret:
		out, err = p.evalSecret(ctx, id)
	case opAdd:
		out, err = p.evalAdd(ctx, n)
	case opMul:
		out, err = p.evalMul(ctx, id, n)
	default:
		err = fmt.Errorf("smc: unknown node kind %d", n.op)
	}
	if err != nil {
		return operand{}, err
	}

	p.cache[id] = out
	return out, nil
}

// evalSecret shares an owned input with all parties, or blocks for this
// party's slice of someone else's input. The node id labels the private
// channel, so concurrent sharings never collide.
func (p *Party) evalSecret(ctx context.Context, id NodeID) (operand, error) {
	label := fmt.Sprintf("share/%d", id)

	v, owned := p.inputs[id]
	if !owned {
		payload, err := p.bus.Recv(ctx, label)
		if err != nil {
			return operand{}, err
		}
		s, err := p.ctx.ShareFromBytes(payload)
		if err != nil {
			return operand{}, err
		}
		return operand{isShare: true, share: s}, nil
	}

	shares, err := p.ctx.Split(v, len(p.spec.Parties), p.rng)
	if err != nil {
		return operand{}, err
	}
	var own Share
	for i, other := range p.spec.Parties {
		if other == p.id {
			own = shares[i]
			continue
		}
		if err := p.bus.Send(ctx, other, label, shares[i].Bytes(p.ctx)); err != nil {
			return operand{}, err
		}
	}
	return operand{isShare: true, share: own}, nil
}

func (p *Party) evalAdd(ctx context.Context, n node) (operand, error) {
	l, err := p.eval(ctx, n.left)
	if err != nil {
		return operand{}, err
	}
	r, err := p.eval(ctx, n.right)
	if err != nil {
		return operand{}, err
	}

	switch {
	case l.isShare && r.isShare:
		return operand{isShare: true, share: l.share.Add(p.ctx, r.share)}, nil
	case l.isShare != r.isShare:
		share, scalar := l.share, r.scalar
		if r.isShare {
			share, scalar = r.share, l.scalar
		}
		// Only the designated party folds the public offset in, keeping
		// the share sum equal to x + scalar.
		if p.designated {
			share = share.AddScalar(p.ctx, scalar)
		}
		return operand{isShare: true, share: share}, nil
	default:
		return operand{scalar: p.ctx.reduce(new(big.Int).Add(l.scalar, r.scalar))}, nil
	}
}

func (p *Party) evalMul(ctx context.Context, id NodeID, n node) (operand, error) {
	l, err := p.eval(ctx, n.left)
	if err != nil {
		return operand{}, err
	}
	r, err := p.eval(ctx, n.right)
	if err != nil {
		return operand{}, err
	}

	switch {
	case l.isShare && r.isShare:
		share, err := p.beaverMul(ctx, id, l.share, r.share)
		if err != nil {
			return operand{}, err
		}
		return operand{isShare: true, share: share}, nil
	case l.isShare != r.isShare:
		share, scalar := l.share, r.scalar
		if r.isShare {
			share, scalar = r.share, l.scalar
		}
		return operand{isShare: true, share: share.MulScalar(p.ctx, scalar)}, nil
	default:
		return operand{scalar: p.ctx.reduce(new(big.Int).Mul(l.scalar, r.scalar))}, nil
	}
}

// beaverMul multiplies two sharings with the triplet assigned to this
// node: broadcast x-a and y-b, reconstruct D and E, then compose
// <z> = <c> + D*<y> + E*<x>, minus D*E at the designated party only.
func (p *Party) beaverMul(ctx context.Context, id NodeID, x, y Share) (Share, error) {
	triplet, err := p.dealer.Triplet(p.id, id)
	if err != nil {
		return Share{}, err
	}

	dLabel := fmt.Sprintf("d/%d", id)
	eLabel := fmt.Sprintf("e/%d", id)
	if err := p.bus.Publish(ctx, dLabel, x.Sub(p.ctx, triplet.A).Bytes(p.ctx)); err != nil {
		return Share{}, err
	}
	if err := p.bus.Publish(ctx, eLabel, y.Sub(p.ctx, triplet.B).Bytes(p.ctx)); err != nil {
		return Share{}, err
	}

	reconstructLabel := func(label string) (*big.Int, error) {
		parts := make([]Share, 0, len(p.spec.Parties))
		for _, other := range p.spec.Parties {
			payload, err := p.bus.Fetch(ctx, other, label)
			if err != nil {
				return nil, err
			}
			s, err := p.ctx.ShareFromBytes(payload)
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
		return p.ctx.Reconstruct(parts), nil
	}

	d, err := reconstructLabel(dLabel)
	if err != nil {
		return Share{}, err
	}
	e, err := reconstructLabel(eLabel)
	if err != nil {
		return Share{}, err
	}

	z := triplet.C.Add(p.ctx, y.MulScalar(p.ctx, d))
	z = z.Add(p.ctx, x.MulScalar(p.ctx, e))
	if p.designated {
		de := new(big.Int).Mul(d, e)
		z = z.Sub(p.ctx, p.ctx.NewShare(de))
	}
	return z, nil
}
