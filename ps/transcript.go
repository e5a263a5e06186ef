package ps

import (
	"crypto/sha256"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"

	"github.com/anonloc-labs/anonloc/internal/encoding"
)

// The Fiat-Shamir transcripts. Each challenge hashes a domain tag, the
// full public key, and the protocol-specific elements in a fixed order.
// The tag is written bare, counts as fixed-width uint32s, and every
// other field is length-prefixed. Binding the public key prevents cross-key
// replay of proofs; the tags keep the issuance and showing transcripts
// disjoint.

// writePublicKey appends the canonical encoding of pk to w.
func writePublicKey(w *encoding.Writer, pk *PublicKey) {
	w.WriteBytes(pk.G.Marshal())
	w.WriteUint32(uint32(len(pk.Y)))
	for i := range pk.Y {
		w.WriteBytes(pk.Y[i].Marshal())
	}
	w.WriteBytes(pk.GTilde.Marshal())
	w.WriteBytes(pk.XTilde.Marshal())
	w.WriteUint32(uint32(len(pk.YTilde)))
	for i := range pk.YTilde {
		w.WriteBytes(pk.YTilde[i].Marshal())
	}
}

// issuanceChallenge computes c = H(pk || C || alpha) reduced to Z_p.
func issuanceChallenge(pk *PublicKey, commitment, alpha *bn254.G1Affine) *big.Int {
	w := encoding.NewWriter()
	w.WriteTag(dstIssuance)
	writePublicKey(w, pk)
	w.WriteBytes(commitment.Marshal())
	w.WriteBytes(alpha.Marshal())
	return reduceDigest(w.Bytes())
}

// showingChallenge computes c = H(pk || (s1, s2) || K || m || alpha)
// reduced to Z_p.
func showingChallenge(pk *PublicKey, s1, s2 *bn254.G1Affine, k *bn254.GT, message []byte, alpha *bn254.GT) *big.Int {
	w := encoding.NewWriter()
	w.WriteTag(dstShowing)
	writePublicKey(w, pk)
	w.WriteBytes(s1.Marshal())
	w.WriteBytes(s2.Marshal())
	w.WriteBytes(gtBytes(k))
	w.WriteBytes(message)
	w.WriteBytes(gtBytes(alpha))
	return reduceDigest(w.Bytes())
}

// reduceDigest hashes the transcript and reduces the digest into Z_p.
func reduceDigest(transcript []byte) *big.Int {
	digest := sha256.Sum256(transcript)
	c := new(big.Int).SetBytes(digest[:])
	return c.Mod(c, Order)
}
