package ps

import (
	"fmt"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// Sign creates a PS signature on an ordered vector of attribute byte
// strings. The base h is fixed to the G1 generator: sigma1 carries no
// per-signature entropy, which matches the randomized-showing security
// argument where the user re-randomizes the signature before every show.
func Sign(sk *SecretKey, attributes [][]byte) (*Signature, error) {
	if len(attributes) != len(sk.Y) {
		return nil, ErrInvalidMessageCount
	}

	_, _, g1, _ := bn254.Generators()

	// exponent = x + sum y_i * h(m_i) mod p
	exponent := getBigInt().Set(sk.X)
	defer putBigInt(exponent)
	tmp := getBigInt()
	defer putBigInt(tmp)
	for i, attr := range attributes {
		tmp.Mul(sk.Y[i], HashToScalar(attr))
		exponent.Add(exponent, tmp)
	}
	exponent.Mod(exponent, Order)

	sig := &Signature{
		Sigma1: g1,
		Sigma2: g1JacToAffine(g1ScalarMul(&g1, exponent)),
	}
	return sig, nil
}

// Verify checks a PS signature against an ordered attribute vector.
// It returns nil on acceptance. A signature whose first component is the
// neutral element is a forgery and is rejected outright.
func Verify(pk *PublicKey, sig *Signature, attributes [][]byte) error {
	if len(attributes) != len(pk.Y) {
		return ErrInvalidMessageCount
	}
	if sig.Sigma1.IsInfinity() {
		return ErrInvalidSignature
	}

	// A = X~ * prod Y~_i^{h(m_i)}
	acc := bn254.G2Jac{}
	acc.FromAffine(&pk.XTilde)
	for i, attr := range attributes {
		term := g2ScalarMul(&pk.YTilde[i], HashToScalar(attr))
		acc.AddAssign(&term)
	}
	a := g2JacToAffine(acc)

	// e(sigma1, A) == e(sigma2, g~)  <=>  e(sigma1, A) * e(-sigma2, g~) == 1
	negSigma2 := bn254.G1Affine{}
	negSigma2.Neg(&sig.Sigma2)
	ok, err := bn254.PairingCheck(
		[]bn254.G1Affine{sig.Sigma1, negSigma2},
		[]bn254.G2Affine{a, pk.GTilde},
	)
	if err != nil {
		return fmt.Errorf("pairing failed: %w", err)
	}
	if !ok {
		return ErrInvalidSignature
	}
	return nil
}

// attributeVector flattens a full attribute map into the ordered vector
// the signature covers. The map must assign every slot in [0, L).
func attributeVector(attrs AttributeMap, count int) ([][]byte, error) {
	if len(attrs) != count {
		return nil, ErrAttributeGap
	}
	vec := make([][]byte, count)
	for i := 0; i < count; i++ {
		a, ok := attrs[i]
		if !ok {
			return nil, ErrAttributeGap
		}
		vec[i] = a
	}
	return vec, nil
}

// scalarOf is a convenience wrapper binding an attribute map entry to its
// scalar image.
func scalarOf(attrs AttributeMap, i int) *big.Int {
	return HashToScalar(attrs[i])
}
