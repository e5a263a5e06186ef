package smc

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Share is one additive share of a Z_p element. Shares carry their field
// value only; the prime lives in the Context.
type Share struct {
	v *big.Int
}

// NewShare wraps a value as a share, reduced into the field.
func (c *Context) NewShare(v *big.Int) Share {
	return Share{v: c.reduce(v)}
}

// Value returns the share's field value.
func (s Share) Value() *big.Int {
	return new(big.Int).Set(s.v)
}

// Add returns the share sum <x> + <y>.
func (s Share) Add(c *Context, o Share) Share {
	return c.NewShare(new(big.Int).Add(s.v, o.v))
}

// Sub returns the share difference <x> - <y>.
func (s Share) Sub(c *Context, o Share) Share {
	return c.NewShare(new(big.Int).Sub(s.v, o.v))
}

// AddScalar offsets the share by a public scalar. Exactly one party per
// sharing may apply it, or the reconstructed value drifts.
func (s Share) AddScalar(c *Context, k *big.Int) Share {
	return c.NewShare(new(big.Int).Add(s.v, k))
}

// MulScalar scales the share by a public scalar. Applied by every party,
// it scales the underlying secret.
func (s Share) MulScalar(c *Context, k *big.Int) Share {
	return c.NewShare(new(big.Int).Mul(s.v, k))
}

// Bytes serializes the share as a fixed-width big-endian integer.
func (s Share) Bytes(c *Context) []byte {
	return s.v.FillBytes(make([]byte, c.width))
}

// ShareFromBytes deserializes a share written by Bytes.
func (c *Context) ShareFromBytes(data []byte) (Share, error) {
	if len(data) != c.width {
		return Share{}, fmt.Errorf("smc: share must be %d bytes, got %d", c.width, len(data))
	}
	return c.NewShare(new(big.Int).SetBytes(data)), nil
}

// Split produces an n-of-n additive sharing of v: n-1 uniform shares and
// one correction share so the sum reconstructs v.
func (c *Context) Split(v *big.Int, n int, rng io.Reader) ([]Share, error) {
	if n < 2 {
		return nil, ErrTooFewParties
	}
	if rng == nil {
		rng = rand.Reader
	}

	shares := make([]Share, n)
	sum := new(big.Int)
	for i := 0; i < n-1; i++ {
		r, err := rand.Int(rng, c.p)
		if err != nil {
			return nil, fmt.Errorf("smc: failed to sample share: %w", err)
		}
		shares[i] = Share{v: r}
		sum.Add(sum, r)
	}
	last := new(big.Int).Sub(v, sum)
	shares[n-1] = c.NewShare(last)
	return shares, nil
}

// Reconstruct sums a complete set of shares back into the secret.
func (c *Context) Reconstruct(shares []Share) *big.Int {
	sum := new(big.Int)
	for _, s := range shares {
		sum.Add(sum, s.v)
	}
	return c.reduce(sum)
}
