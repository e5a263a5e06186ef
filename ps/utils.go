package ps

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// HashToScalar maps an opaque attribute byte string to Z_p by SHA-256
// big-endian reduction. All attribute values enter the algebra through
// this map.
func HashToScalar(attribute []byte) *big.Int {
	h := sha256.Sum256(attribute)
	elem := new(big.Int).SetBytes(h[:])
	return elem.Mod(elem, Order)
}

// RandomScalar generates a uniform scalar in [0, Order-1].
func RandomScalar(rng io.Reader) (*big.Int, error) {
	// Rejection sampling over the minimal byte width, masking the top
	// byte to avoid modulo bias.
	byteLen := (Order.BitLen() + 7) / 8
	bits := Order.BitLen() % 8
	mask := byte(0xFF)
	if bits > 0 {
		mask = byte((1 << bits) - 1)
	}

	b := make([]byte, byteLen)
	result := new(big.Int)
	for {
		if _, err := io.ReadFull(rng, b); err != nil {
			return nil, fmt.Errorf("failed to generate random bytes: %w", err)
		}
		b[0] &= mask
		result.SetBytes(b)
		if result.Cmp(Order) < 0 {
			return result, nil
		}
	}
}

// g1JacToAffine converts a G1 Jacobian point to affine
func g1JacToAffine(p bn254.G1Jac) bn254.G1Affine {
	result := bn254.G1Affine{}
	result.FromJacobian(&p)
	return result
}

// g2JacToAffine converts a G2 Jacobian point to affine
func g2JacToAffine(p bn254.G2Jac) bn254.G2Affine {
	result := bn254.G2Affine{}
	result.FromJacobian(&p)
	return result
}

// g1ScalarMul computes base^k in G1.
func g1ScalarMul(base *bn254.G1Affine, k *big.Int) bn254.G1Jac {
	jac := bn254.G1Jac{}
	jac.FromAffine(base)
	jac.ScalarMultiplication(&jac, k)
	return jac
}

// g2ScalarMul computes base^k in G2.
func g2ScalarMul(base *bn254.G2Affine, k *big.Int) bn254.G2Jac {
	jac := bn254.G2Jac{}
	jac.FromAffine(base)
	jac.ScalarMultiplication(&jac, k)
	return jac
}

// MultiScalarMulG1 accumulates prod points[i]^scalars[i] in G1. The start
// point seeds the accumulator so callers can fold a leading fixed term.
func MultiScalarMulG1(start bn254.G1Jac, points []bn254.G1Affine, scalars []*big.Int) (bn254.G1Jac, error) {
	if len(points) != len(scalars) {
		return bn254.G1Jac{}, fmt.Errorf("mismatch between points and scalars length")
	}

	result := start
	tmp := getG1Jac()
	defer putG1Jac(tmp)
	for i := range points {
		if scalars[i].Sign() == 0 || points[i].IsInfinity() {
			continue
		}
		tmp.FromAffine(&points[i])
		tmp.ScalarMultiplication(tmp, scalars[i])
		result.AddAssign(tmp)
	}
	return result, nil
}

// pairOne computes the single pairing e(p, q).
func pairOne(p bn254.G1Affine, q bn254.G2Affine) (bn254.GT, error) {
	gt, err := bn254.Pair([]bn254.G1Affine{p}, []bn254.G2Affine{q})
	if err != nil {
		return bn254.GT{}, fmt.Errorf("pairing failed: %w", err)
	}
	return gt, nil
}

// gtBytes serializes a GT element coordinate-wise, big-endian, fixed width.
func gtBytes(e *bn254.GT) []byte {
	out := make([]byte, 0, 12*32)
	for _, c := range [][32]byte{
		e.C0.B0.A0.Bytes(), e.C0.B0.A1.Bytes(),
		e.C0.B1.A0.Bytes(), e.C0.B1.A1.Bytes(),
		e.C0.B2.A0.Bytes(), e.C0.B2.A1.Bytes(),
		e.C1.B0.A0.Bytes(), e.C1.B0.A1.Bytes(),
		e.C1.B1.A0.Bytes(), e.C1.B1.A1.Bytes(),
		e.C1.B2.A0.Bytes(), e.C1.B2.A1.Bytes(),
	} {
		out = append(out, c[:]...)
	}
	return out
}

// gtFromBytes deserializes a GT element written by gtBytes.
func gtFromBytes(data []byte) (bn254.GT, error) {
	var e bn254.GT
	if len(data) != 12*32 {
		return e, ErrInvalidWireData
	}
	chunk := func(i int) []byte { return data[i*32 : (i+1)*32] }
	e.C0.B0.A0.SetBytes(chunk(0))
	e.C0.B0.A1.SetBytes(chunk(1))
	e.C0.B1.A0.SetBytes(chunk(2))
	e.C0.B1.A1.SetBytes(chunk(3))
	e.C0.B2.A0.SetBytes(chunk(4))
	e.C0.B2.A1.SetBytes(chunk(5))
	e.C1.B0.A0.SetBytes(chunk(6))
	e.C1.B0.A1.SetBytes(chunk(7))
	e.C1.B1.A0.SetBytes(chunk(8))
	e.C1.B1.A1.SetBytes(chunk(9))
	e.C1.B2.A0.SetBytes(chunk(10))
	e.C1.B2.A1.SetBytes(chunk(11))
	return e, nil
}
