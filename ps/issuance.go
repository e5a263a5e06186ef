package ps

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// CreateIssueRequest runs the user-commitment step of the issuance
// protocol. It commits to the user attribute subset under a fresh
// blinding exponent t and attaches a Schnorr proof of knowledge of t and
// the committed attribute scalars. The returned UserState must be carried
// to ObtainCredential.
func CreateIssueRequest(pk *PublicKey, userAttrs AttributeMap, rng io.Reader) (*IssueRequest, *UserState, error) {
	if rng == nil {
		rng = rand.Reader
	}
	for i := range userAttrs {
		if i < 0 || i >= pk.AttributeCount() {
			return nil, nil, fmt.Errorf("attribute index %d out of range: %w", i, ErrInvalidMessageCount)
		}
	}

	t, err := RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate blinding exponent: %w", err)
	}

	// C = g^t * prod_{i in U} Y_i^{h(a_i)}
	indices := sortedIndices(userAttrs)
	points := make([]bn254.G1Affine, 0, len(indices))
	scalars := make([]*big.Int, 0, len(indices))
	for _, i := range indices {
		points = append(points, pk.Y[i])
		scalars = append(scalars, scalarOf(userAttrs, i))
	}
	cJac, err := MultiScalarMulG1(g1ScalarMul(&pk.G, t), points, scalars)
	if err != nil {
		return nil, nil, err
	}
	commitment := g1JacToAffine(cJac)

	// Schnorr commitment alpha = g^{z0} * prod Y_i^{z_i}
	z0, err := RandomScalar(rng)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	z := make(map[int]*big.Int, len(indices))
	zScalars := make([]*big.Int, 0, len(indices))
	for _, i := range indices {
		zi, err := RandomScalar(rng)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
		}
		z[i] = zi
		zScalars = append(zScalars, zi)
	}
	alphaJac, err := MultiScalarMulG1(g1ScalarMul(&pk.G, z0), points, zScalars)
	if err != nil {
		return nil, nil, err
	}
	alpha := g1JacToAffine(alphaJac)

	c := issuanceChallenge(pk, &commitment, &alpha)

	// Responses T = z0 + c*t, s_i = z_i + c*h(a_i)
	bigT := new(big.Int).Mul(c, t)
	bigT.Add(bigT, z0)
	bigT.Mod(bigT, Order)
	s := make(map[int]*big.Int, len(indices))
	for _, i := range indices {
		si := new(big.Int).Mul(c, scalarOf(userAttrs, i))
		si.Add(si, z[i])
		si.Mod(si, Order)
		s[i] = si
	}

	req := &IssueRequest{C: commitment, Alpha: alpha, S: s, T: bigT}
	state := &UserState{T: t, Attrs: userAttrs}
	return req, state, nil
}

// VerifyIssueRequest checks the Schnorr proof attached to an issuance
// request. The user index set is inferred from the response map.
func VerifyIssueRequest(pk *PublicKey, req *IssueRequest) error {
	indices := sortedIndices(req.S)
	for _, i := range indices {
		if i < 0 || i >= pk.AttributeCount() {
			return ErrInvalidRequest
		}
	}

	c := issuanceChallenge(pk, &req.C, &req.Alpha)

	// alpha * C^c == g^T * prod Y_i^{s_i}
	lhs := bn254.G1Jac{}
	lhs.FromAffine(&req.Alpha)
	cc := g1ScalarMul(&req.C, c)
	lhs.AddAssign(&cc)

	points := make([]bn254.G1Affine, 0, len(indices))
	scalars := make([]*big.Int, 0, len(indices))
	for _, i := range indices {
		points = append(points, pk.Y[i])
		scalars = append(scalars, req.S[i])
	}
	rhs, err := MultiScalarMulG1(g1ScalarMul(&pk.G, req.T), points, scalars)
	if err != nil {
		return err
	}

	lhsAff := g1JacToAffine(lhs)
	rhsAff := g1JacToAffine(rhs)
	if !lhsAff.Equal(&rhsAff) {
		return ErrInvalidRequest
	}
	return nil
}

// SignIssueRequest verifies a request and blindly signs the commitment
// together with the issuer-chosen attribute subset. The issuer indices
// must be disjoint from the user's and jointly cover every slot.
func SignIssueRequest(sk *SecretKey, pk *PublicKey, req *IssueRequest, issuerAttrs AttributeMap, rng io.Reader) (*BlindSignature, error) {
	if rng == nil {
		rng = rand.Reader
	}
	if err := VerifyIssueRequest(pk, req); err != nil {
		return nil, err
	}
	for i := range issuerAttrs {
		if i < 0 || i >= pk.AttributeCount() {
			return nil, ErrAttributeGap
		}
		if _, overlap := req.S[i]; overlap {
			return nil, ErrAttributeOverlap
		}
	}
	if len(issuerAttrs)+len(req.S) != pk.AttributeCount() {
		return nil, ErrAttributeGap
	}

	u, err := RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing exponent: %w", err)
	}

	// sigma2' = (X * C * prod_{i in I} Y_i^{h(a_i)})^u
	base := bn254.G1Jac{}
	base.FromAffine(&sk.XG)
	cJac := bn254.G1Jac{}
	cJac.FromAffine(&req.C)
	base.AddAssign(&cJac)
	indices := sortedIndices(issuerAttrs)
	points := make([]bn254.G1Affine, 0, len(indices))
	scalars := make([]*big.Int, 0, len(indices))
	for _, i := range indices {
		points = append(points, pk.Y[i])
		scalars = append(scalars, scalarOf(issuerAttrs, i))
	}
	base, err = MultiScalarMulG1(base, points, scalars)
	if err != nil {
		return nil, err
	}
	baseAff := g1JacToAffine(base)

	resp := &BlindSignature{
		Sigma1: g1JacToAffine(g1ScalarMul(&pk.G, u)),
		Sigma2: g1JacToAffine(g1ScalarMul(&baseAff, u)),
		Attrs:  issuerAttrs,
	}
	return resp, nil
}

// ObtainCredential unblinds the issuer's response, assembles the full
// attribute map and verifies the resulting signature. It fail-stops on an
// invalid signature.
func ObtainCredential(pk *PublicKey, resp *BlindSignature, state *UserState) (*Credential, error) {
	full := make(AttributeMap, len(resp.Attrs)+len(state.Attrs))
	for i, a := range resp.Attrs {
		full[i] = a
	}
	for i, a := range state.Attrs {
		if _, overlap := resp.Attrs[i]; overlap {
			return nil, ErrAttributeOverlap
		}
		full[i] = a
	}

	// sigma = (sigma1', sigma2' * sigma1'^{-t})
	negT := new(big.Int).Neg(state.T)
	negT.Mod(negT, Order)
	unblind := g1ScalarMul(&resp.Sigma1, negT)
	sigma2 := bn254.G1Jac{}
	sigma2.FromAffine(&resp.Sigma2)
	sigma2.AddAssign(&unblind)

	cred := &Credential{
		Sig: Signature{
			Sigma1: resp.Sigma1,
			Sigma2: g1JacToAffine(sigma2),
		},
		Attrs: full,
	}

	vec, err := attributeVector(full, pk.AttributeCount())
	if err != nil {
		return nil, err
	}
	if err := Verify(pk, &cred.Sig, vec); err != nil {
		return nil, err
	}
	return cred, nil
}
