package smc

import (
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDealerTripletInvariant(t *testing.T) {
	ctx := NewContext(DefaultModulus)
	parties := []PartyID{"alice", "bob", "charlie"}
	d := NewDealer(ctx, parties, nil)

	var aShares, bShares, cShares []Share
	for _, p := range parties {
		triplet, err := d.Triplet(p, 7)
		require.NoError(t, err)
		aShares = append(aShares, triplet.A)
		bShares = append(bShares, triplet.B)
		cShares = append(cShares, triplet.C)
	}

	a := ctx.Reconstruct(aShares)
	b := ctx.Reconstruct(bShares)
	c := ctx.Reconstruct(cShares)
	want := new(big.Int).Mul(a, b)
	want.Mod(want, ctx.Modulus())
	require.Zero(t, c.Cmp(want), "triplet must satisfy c = a*b")
}

func TestDealerMemoizesPerNode(t *testing.T) {
	ctx := NewContext(DefaultModulus)
	d := NewDealer(ctx, []PartyID{"alice", "bob"}, nil)

	first, err := d.Triplet("alice", 3)
	require.NoError(t, err)
	again, err := d.Triplet("alice", 3)
	require.NoError(t, err)
	require.Zero(t, first.A.Value().Cmp(again.A.Value()))

	other, err := d.Triplet("alice", 4)
	require.NoError(t, err)
	require.NotZero(t, first.A.Value().Cmp(other.A.Value()))
}

func TestDealerRejectsUnknownParty(t *testing.T) {
	ctx := NewContext(DefaultModulus)
	d := NewDealer(ctx, []PartyID{"alice", "bob"}, nil)

	_, err := d.Triplet("mallory", 1)
	require.ErrorIs(t, err, ErrUnknownParty)
}

func TestDealerConcurrentRequests(t *testing.T) {
	ctx := NewContext(DefaultModulus)
	parties := []PartyID{"alice", "bob", "charlie"}
	d := NewDealer(ctx, parties, nil)

	var wg sync.WaitGroup
	results := make([]TripletShares, len(parties))
	for i, p := range parties {
		i, p := i, p
		wg.Add(1)
		go func() {
			defer wg.Done()
			triplet, err := d.Triplet(p, 9)
			require.NoError(t, err)
			results[i] = triplet
		}()
	}
	wg.Wait()

	c := ctx.Reconstruct([]Share{results[0].C, results[1].C, results[2].C})
	a := ctx.Reconstruct([]Share{results[0].A, results[1].A, results[2].A})
	b := ctx.Reconstruct([]Share{results[0].B, results[1].B, results[2].B})
	want := new(big.Int).Mul(a, b)
	want.Mod(want, ctx.Modulus())
	require.Zero(t, c.Cmp(want))
}
