package ps

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// CreateDisclosureProof shows a credential: it re-randomizes the
// signature, discloses the attributes at disclosedIndices and proves
// knowledge of the remaining ones, bound to message. Hidden and disclosed
// slots are addressed by index.
func CreateDisclosureProof(pk *PublicKey, cred *Credential, disclosedIndices []int, message []byte, rng io.Reader) (*DisclosureProof, error) {
	if rng == nil {
		rng = rand.Reader
	}

	for i := range cred.Attrs {
		if i < 0 || i >= pk.AttributeCount() {
			return nil, fmt.Errorf("credential index %d out of range: %w", i, ErrInvalidMessageCount)
		}
	}

	disclosed := make(AttributeMap, len(disclosedIndices))
	for _, i := range disclosedIndices {
		a, ok := cred.Attrs[i]
		if !ok {
			return nil, fmt.Errorf("disclosed index %d not in credential: %w", i, ErrInvalidMessageCount)
		}
		disclosed[i] = a
	}
	hidden := make(AttributeMap, len(cred.Attrs)-len(disclosed))
	for i, a := range cred.Attrs {
		if _, ok := disclosed[i]; !ok {
			hidden[i] = a
		}
	}

	r, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate randomizer: %w", err)
	}
	t, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate blinding exponent: %w", err)
	}

	// (s1, s2) = (sigma1^r, (sigma2 * sigma1^t)^r)
	s1 := g1JacToAffine(g1ScalarMul(&cred.Sig.Sigma1, r))
	inner := bn254.G1Jac{}
	inner.FromAffine(&cred.Sig.Sigma2)
	blind := g1ScalarMul(&cred.Sig.Sigma1, t)
	inner.AddAssign(&blind)
	innerAff := g1JacToAffine(inner)
	s2 := g1JacToAffine(g1ScalarMul(&innerAff, r))

	// Paired bases: e(s1, g~) and P_i = e(s1, Y~_i) for hidden i.
	eS1G, err := pairOne(s1, pk.GTilde)
	if err != nil {
		return nil, err
	}
	hiddenIdx := sortedIndices(hidden)
	pairedY := make(map[int]bn254.GT, len(hiddenIdx))
	for _, i := range hiddenIdx {
		p, err := pairOne(s1, pk.YTilde[i])
		if err != nil {
			return nil, err
		}
		pairedY[i] = p
	}

	// K = e(s1, g~)^t * prod P_i^{h(a_i)}
	var k bn254.GT
	k.Exp(eS1G, t)
	for _, i := range hiddenIdx {
		base := pairedY[i]
		var term bn254.GT
		term.Exp(base, scalarOf(hidden, i))
		k.Mul(&k, &term)
	}

	// alpha = e(s1, g~)^{z'} * prod P_i^{z_i}
	zPrime, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	z := make(map[int]*big.Int, len(hiddenIdx))
	var alpha bn254.GT
	alpha.Exp(eS1G, zPrime)
	for _, i := range hiddenIdx {
		zi, err := RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("failed to generate nonce: %w", err)
		}
		z[i] = zi
		base := pairedY[i]
		var term bn254.GT
		term.Exp(base, zi)
		alpha.Mul(&alpha, &term)
	}

	c := showingChallenge(pk, &s1, &s2, &k, message, &alpha)

	// Responses T = z' + c*t, s_i = z_i + c*h(a_i)
	bigT := new(big.Int).Mul(c, t)
	bigT.Add(bigT, zPrime)
	bigT.Mod(bigT, Order)
	s := make(map[int]*big.Int, len(hiddenIdx))
	for _, i := range hiddenIdx {
		si := new(big.Int).Mul(c, scalarOf(hidden, i))
		si.Add(si, z[i])
		si.Mod(si, Order)
		s[i] = si
	}

	proof := &DisclosureProof{
		S1:        s1,
		S2:        s2,
		K:         k,
		Alpha:     alpha,
		SHidden:   s,
		T:         bigT,
		Disclosed: disclosed,
	}
	return proof, nil
}

// VerifyDisclosureProof checks a showing against message. On acceptance
// the caller may read the disclosed attributes off the proof.
func VerifyDisclosureProof(pk *PublicKey, proof *DisclosureProof, message []byte) error {
	if proof.S1.IsInfinity() {
		return ErrInvalidProof
	}
	for i := range proof.SHidden {
		if i < 0 || i >= pk.AttributeCount() {
			return ErrInvalidProof
		}
		if _, both := proof.Disclosed[i]; both {
			return ErrInvalidProof
		}
	}
	for i := range proof.Disclosed {
		if i < 0 || i >= pk.AttributeCount() {
			return ErrInvalidProof
		}
	}
	if len(proof.SHidden)+len(proof.Disclosed) != pk.AttributeCount() {
		return ErrInvalidProof
	}

	c := showingChallenge(pk, &proof.S1, &proof.S2, &proof.K, message, &proof.Alpha)

	eS1G, err := pairOne(proof.S1, pk.GTilde)
	if err != nil {
		return err
	}

	// PoK identity: K^c * alpha == e(s1, g~)^T * prod e(s1, Y~_i)^{s_i}
	var lhs bn254.GT
	lhs.Exp(proof.K, c)
	lhs.Mul(&lhs, &proof.Alpha)

	var rhs bn254.GT
	rhs.Exp(eS1G, proof.T)
	for _, i := range sortedIndices(proof.SHidden) {
		p, err := pairOne(proof.S1, pk.YTilde[i])
		if err != nil {
			return err
		}
		var term bn254.GT
		term.Exp(p, proof.SHidden[i])
		rhs.Mul(&rhs, &term)
	}
	if !lhs.Equal(&rhs) {
		return ErrInvalidProof
	}

	// Consistency with the disclosed attributes:
	// e(s2, g~) * prod e(s1, Y~_i)^{-h(a_i)} == e(s1, X~) * K
	eS2G, err := pairOne(proof.S2, pk.GTilde)
	if err != nil {
		return err
	}
	lhs = eS2G
	for _, i := range sortedIndices(proof.Disclosed) {
		p, err := pairOne(proof.S1, pk.YTilde[i])
		if err != nil {
			return err
		}
		neg := new(big.Int).Neg(scalarOf(proof.Disclosed, i))
		neg.Mod(neg, Order)
		var term bn254.GT
		term.Exp(p, neg)
		lhs.Mul(&lhs, &term)
	}

	eS1X, err := pairOne(proof.S1, pk.XTilde)
	if err != nil {
		return err
	}
	rhs = eS1X
	rhs.Mul(&rhs, &proof.K)

	if !lhs.Equal(&rhs) {
		return ErrInvalidProof
	}
	return nil
}
