package ps

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// GenerateKey creates an issuer key pair covering attributeCount slots.
// A nil rng falls back to crypto/rand.
func GenerateKey(attributeCount int, rng io.Reader) (*SecretKey, *PublicKey, error) {
	if attributeCount < 1 {
		return nil, nil, ErrInvalidMessageCount
	}
	if rng == nil {
		rng = rand.Reader
	}

	_, _, g1, g2 := bn254.Generators()

	x, err := RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate secret exponent: %w", err)
	}

	sk := &SecretKey{
		X:  x,
		XG: g1JacToAffine(g1ScalarMul(&g1, x)),
		Y:  make([]*big.Int, attributeCount),
	}

	pk := &PublicKey{
		G:      g1,
		Y:      make([]bn254.G1Affine, attributeCount),
		GTilde: g2,
		XTilde: g2JacToAffine(g2ScalarMul(&g2, x)),
		YTilde: make([]bn254.G2Affine, attributeCount),
	}

	for i := 0; i < attributeCount; i++ {
		yi, err := RandomScalar(rng)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate slot exponent %d: %w", i, err)
		}
		sk.Y[i] = yi
		pk.Y[i] = g1JacToAffine(g1ScalarMul(&g1, yi))
		pk.YTilde[i] = g2JacToAffine(g2ScalarMul(&g2, yi))
	}

	return sk, pk, nil
}
