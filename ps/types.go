package ps

import (
	"math/big"
	"sort"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// AttributeMap is a partial assignment of attribute slots to opaque byte
// strings, keyed by slot index.
type AttributeMap map[int][]byte

// SecretKey is the issuer secret key (x, X, y).
type SecretKey struct {
	X  *big.Int        // secret exponent x
	XG bn254.G1Affine  // X = g^x
	Y  []*big.Int      // slot exponents y_0 .. y_{L-1}
}

// PublicKey is the issuer public key (g, Y, g~, X~, Y~).
type PublicKey struct {
	G      bn254.G1Affine   // generator of G1
	Y      []bn254.G1Affine // Y_i = g^{y_i}
	GTilde bn254.G2Affine   // generator of G2
	XTilde bn254.G2Affine   // X~ = g~^x
	YTilde []bn254.G2Affine // Y~_i = g~^{y_i}
}

// AttributeCount returns L, the number of attribute slots the key covers.
func (pk *PublicKey) AttributeCount() int {
	return len(pk.Y)
}

// Signature is a PS signature (sigma1, sigma2) on an ordered attribute vector.
type Signature struct {
	Sigma1 bn254.G1Affine
	Sigma2 bn254.G1Affine
}

// IssueRequest is the user commitment C together with the Schnorr proof
// (alpha, {s_i}, T) of the committed exponents. The user index set U is
// implicit in the keys of S.
type IssueRequest struct {
	C     bn254.G1Affine
	Alpha bn254.G1Affine
	S     map[int]*big.Int
	T     *big.Int
}

// UserState carries the blinding exponent t and the user attribute subset
// between the two issuance round trips.
type UserState struct {
	T     *big.Int
	Attrs AttributeMap
}

// BlindSignature is the issuer's response: a signature on the blinded
// commitment plus the issuer-chosen attribute subset.
type BlindSignature struct {
	Sigma1 bn254.G1Affine
	Sigma2 bn254.G1Affine
	Attrs  AttributeMap
}

// Credential is an unblinded PS signature valid on the full attribute
// vector, sorted by slot index.
type Credential struct {
	Sig   Signature
	Attrs AttributeMap
}

// DisclosureProof is a showing: a randomized signature (s1, s2), the
// Fiat-Shamir proof (K, alpha, {s_i}_{i in H}, T) over the hidden slots,
// and the disclosed attribute subset.
type DisclosureProof struct {
	S1        bn254.G1Affine
	S2        bn254.G1Affine
	K         bn254.GT
	Alpha     bn254.GT
	SHidden   map[int]*big.Int
	T         *big.Int
	Disclosed AttributeMap
}

// sortedIndices returns the keys of m in increasing order.
func sortedIndices[V any](m map[int]V) []int {
	idx := make([]int, 0, len(m))
	for i := range m {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
