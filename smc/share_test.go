package smc

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitReconstruct(t *testing.T) {
	ctx := NewContext(DefaultModulus)

	for _, n := range []int{2, 3, 5, 10} {
		v, err := rand.Int(rand.Reader, ctx.Modulus())
		require.NoError(t, err)

		shares, err := ctx.Split(v, n, rand.Reader)
		require.NoError(t, err)
		require.Len(t, shares, n)
		require.Zero(t, ctx.Reconstruct(shares).Cmp(v))
	}
}

func TestSplitRejectsSingleParty(t *testing.T) {
	ctx := NewContext(DefaultModulus)
	_, err := ctx.Split(big.NewInt(7), 1, rand.Reader)
	require.ErrorIs(t, err, ErrTooFewParties)
}

func TestShareHomomorphism(t *testing.T) {
	ctx := NewContext(DefaultModulus)

	x := big.NewInt(1234)
	y := big.NewInt(5678)
	xs, err := ctx.Split(x, 3, rand.Reader)
	require.NoError(t, err)
	ys, err := ctx.Split(y, 3, rand.Reader)
	require.NoError(t, err)

	// <x> + <y> reconstructs to x + y.
	sum := make([]Share, 3)
	for i := range sum {
		sum[i] = xs[i].Add(ctx, ys[i])
	}
	require.Zero(t, ctx.Reconstruct(sum).Cmp(big.NewInt(6912)))

	// <x> - <y> reconstructs to x - y mod p.
	diff := make([]Share, 3)
	for i := range diff {
		diff[i] = xs[i].Sub(ctx, ys[i])
	}
	want := ctx.reduce(big.NewInt(1234 - 5678))
	require.Zero(t, ctx.Reconstruct(diff).Cmp(want))

	// k * <x> reconstructs to k*x; scalar offset applied by one party.
	k := big.NewInt(10)
	scaled := make([]Share, 3)
	for i := range scaled {
		scaled[i] = xs[i].MulScalar(ctx, k)
	}
	require.Zero(t, ctx.Reconstruct(scaled).Cmp(big.NewInt(12340)))

	offset := []Share{xs[0].AddScalar(ctx, k), xs[1], xs[2]}
	require.Zero(t, ctx.Reconstruct(offset).Cmp(big.NewInt(1244)))
}

func TestShareBytesRoundTrip(t *testing.T) {
	ctx := NewContext(DefaultModulus)

	s := ctx.NewShare(big.NewInt(424242))
	b := s.Bytes(ctx)
	require.Len(t, b, ctx.ShareWidth())

	back, err := ctx.ShareFromBytes(b)
	require.NoError(t, err)
	require.Zero(t, back.Value().Cmp(s.Value()))

	_, err = ctx.ShareFromBytes(b[1:])
	require.Error(t, err)
}
