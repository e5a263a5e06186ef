package ps

import (
	"crypto/rand"
	"math/big"
	"testing"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/stretchr/testify/require"
)

func TestDisclosureRoundTrip(t *testing.T) {
	_, pk, cred := issueCredential(t)

	msg := []byte("test")
	proof, err := CreateDisclosureProof(pk, cred, []int{0}, msg, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, VerifyDisclosureProof(pk, proof, msg))
	require.Equal(t, []byte("A"), proof.Disclosed[0])
	require.Len(t, proof.SHidden, 5)
}

func TestDisclosureTamperMatrix(t *testing.T) {
	_, pk, cred := issueCredential(t)
	msg := []byte("test")

	fresh := func() *DisclosureProof {
		proof, err := CreateDisclosureProof(pk, cred, []int{0}, msg, rand.Reader)
		require.NoError(t, err)
		return proof
	}

	t.Run("neutral s1", func(t *testing.T) {
		proof := fresh()
		proof.S1 = bn254.G1Affine{}
		require.ErrorIs(t, VerifyDisclosureProof(pk, proof, msg), ErrInvalidProof)
	})

	t.Run("swapped s2", func(t *testing.T) {
		proof := fresh()
		proof.S2 = proof.S1
		require.ErrorIs(t, VerifyDisclosureProof(pk, proof, msg), ErrInvalidProof)
	})

	t.Run("mutated response scalar", func(t *testing.T) {
		proof := fresh()
		for i := range proof.SHidden {
			proof.SHidden[i] = new(big.Int).Add(proof.SHidden[i], big.NewInt(1))
			break
		}
		require.ErrorIs(t, VerifyDisclosureProof(pk, proof, msg), ErrInvalidProof)
	})

	t.Run("mutated T", func(t *testing.T) {
		proof := fresh()
		proof.T = new(big.Int).Add(proof.T, big.NewInt(1))
		require.ErrorIs(t, VerifyDisclosureProof(pk, proof, msg), ErrInvalidProof)
	})

	t.Run("mutated K", func(t *testing.T) {
		proof := fresh()
		proof.K.Mul(&proof.K, &proof.Alpha)
		require.ErrorIs(t, VerifyDisclosureProof(pk, proof, msg), ErrInvalidProof)
	})

	t.Run("mutated alpha", func(t *testing.T) {
		proof := fresh()
		proof.Alpha.Mul(&proof.Alpha, &proof.K)
		require.ErrorIs(t, VerifyDisclosureProof(pk, proof, msg), ErrInvalidProof)
	})

	t.Run("replaced disclosed attribute", func(t *testing.T) {
		proof := fresh()
		proof.Disclosed[0] = []byte("B")
		require.ErrorIs(t, VerifyDisclosureProof(pk, proof, msg), ErrInvalidProof)
	})

	t.Run("replayed under different message", func(t *testing.T) {
		proof := fresh()
		require.ErrorIs(t, VerifyDisclosureProof(pk, proof, []byte("other")), ErrInvalidProof)
	})
}

func TestDisclosureAllHidden(t *testing.T) {
	_, pk, cred := issueCredential(t)

	proof, err := CreateDisclosureProof(pk, cred, nil, []byte("m"), rand.Reader)
	require.NoError(t, err)
	require.Empty(t, proof.Disclosed)
	require.NoError(t, VerifyDisclosureProof(pk, proof, []byte("m")))
}

func TestDisclosureUnlinkable(t *testing.T) {
	_, pk, cred := issueCredential(t)

	p1, err := CreateDisclosureProof(pk, cred, []int{0}, []byte("m"), rand.Reader)
	require.NoError(t, err)
	p2, err := CreateDisclosureProof(pk, cred, []int{0}, []byte("m"), rand.Reader)
	require.NoError(t, err)

	// Fresh randomization per showing: the randomized signatures differ.
	require.False(t, p1.S1.Equal(&p2.S1))
	require.False(t, p1.S2.Equal(&p2.S2))
}
