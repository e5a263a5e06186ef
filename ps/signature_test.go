package ps

import (
	"crypto/rand"
	"testing"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	sk, pk, err := GenerateKey(3, rand.Reader)
	require.NoError(t, err)

	msgs := [][]byte{[]byte("1"), []byte("2"), []byte("3")}
	sig, err := Sign(sk, msgs)
	require.NoError(t, err)

	require.NoError(t, Verify(pk, sig, msgs))

	// Flipping any attribute must break the signature.
	bad := [][]byte{[]byte("1"), []byte("2"), []byte("4")}
	require.ErrorIs(t, Verify(pk, sig, bad), ErrInvalidSignature)
}

func TestSignArityMismatch(t *testing.T) {
	sk, pk, err := GenerateKey(3, rand.Reader)
	require.NoError(t, err)

	_, err = Sign(sk, [][]byte{[]byte("only-one")})
	require.ErrorIs(t, err, ErrInvalidMessageCount)

	sig, err := Sign(sk, [][]byte{[]byte("a"), []byte("b"), []byte("c")})
	require.NoError(t, err)
	require.ErrorIs(t, Verify(pk, sig, [][]byte{[]byte("a")}), ErrInvalidMessageCount)
}

func TestVerifyRejectsNeutralSigma1(t *testing.T) {
	sk, pk, err := GenerateKey(2, rand.Reader)
	require.NoError(t, err)

	msgs := [][]byte{[]byte("x"), []byte("y")}
	sig, err := Sign(sk, msgs)
	require.NoError(t, err)

	var neutral bn254.G1Affine
	sig.Sigma1 = neutral
	require.ErrorIs(t, Verify(pk, sig, msgs), ErrInvalidSignature)
}

func TestVerifyWrongKey(t *testing.T) {
	sk, _, err := GenerateKey(2, rand.Reader)
	require.NoError(t, err)
	_, otherPk, err := GenerateKey(2, rand.Reader)
	require.NoError(t, err)

	msgs := [][]byte{[]byte("x"), []byte("y")}
	sig, err := Sign(sk, msgs)
	require.NoError(t, err)
	require.ErrorIs(t, Verify(otherPk, sig, msgs), ErrInvalidSignature)
}

func TestHashToScalarDeterministic(t *testing.T) {
	for _, msg := range [][]byte{nil, {}, []byte("hello"), []byte("a longer attribute value 123456789")} {
		a := HashToScalar(msg)
		b := HashToScalar(msg)
		require.Zero(t, a.Cmp(b))
		require.Negative(t, a.Cmp(Order))
	}
}
