package smc

import (
	"errors"
	"math/big"
)

var (
	// ErrAborted is returned when a blocking bus read is cancelled, which
	// halts the evaluation of the current circuit.
	ErrAborted = errors.New("smc: evaluation aborted")

	// ErrSlotTaken is returned on a second write to a write-once slot.
	ErrSlotTaken = errors.New("smc: message slot already written")

	// ErrUnknownParty is returned when a party is not registered for the
	// protocol instance.
	ErrUnknownParty = errors.New("smc: unknown party")

	// ErrTooFewParties is returned when a sharing is requested for fewer
	// than two parties.
	ErrTooFewParties = errors.New("smc: at least two parties required")
)

// DefaultModulus is the production field prime, 2^512 - 569. The field
// must bound every intermediate circuit value.
var DefaultModulus = func() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 512)
	return p.Sub(p, big.NewInt(569))
}()

// PartyID identifies a computation party. IDs are totally ordered by
// their string value; the lowest ID is the designated party.
type PartyID string

// Context carries the field prime for one protocol instance. It replaces
// any process-wide modulus state: every Share constructor takes the
// Context it belongs to.
type Context struct {
	p     *big.Int
	width int
}

// NewContext creates a Context over the prime field Z_p.
func NewContext(p *big.Int) *Context {
	if p == nil || p.Sign() <= 0 {
		panic("smc: nil or non-positive modulus")
	}
	return &Context{
		p:     new(big.Int).Set(p),
		width: (p.BitLen() + 7) / 8,
	}
}

// Modulus returns the field prime.
func (c *Context) Modulus() *big.Int {
	return new(big.Int).Set(c.p)
}

// ShareWidth returns the fixed byte width of a serialized share.
func (c *Context) ShareWidth() int {
	return c.width
}

// reduce maps v into [0, p).
func (c *Context) reduce(v *big.Int) *big.Int {
	return new(big.Int).Mod(v, c.p)
}

// designated returns the lexicographically smallest party ID. Exactly one
// party applies scalar offsets and the Beaver -D*E correction.
func designated(parties []PartyID) PartyID {
	min := parties[0]
	for _, id := range parties[1:] {
		if id < min {
			min = id
		}
	}
	return min
}
