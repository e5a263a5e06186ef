package ps

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

var (
	// ErrInvalidSignature is returned when a signature fails the pairing check
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrInvalidMessageCount is returned when the number of attributes doesn't match the key parameters
	ErrInvalidMessageCount = errors.New("invalid attribute count")

	// ErrInvalidRequest is returned when an issuance request proof does not verify
	ErrInvalidRequest = errors.New("invalid issuance request")

	// ErrInvalidProof is returned when a disclosure proof does not verify
	ErrInvalidProof = errors.New("invalid disclosure proof")

	// ErrAttributeOverlap is returned when user and issuer attribute index sets overlap
	ErrAttributeOverlap = errors.New("user and issuer attribute indices overlap")

	// ErrAttributeGap is returned when the union of attribute index sets does not cover all slots
	ErrAttributeGap = errors.New("attribute indices do not cover all slots")

	// ErrInvalidKeyData is returned when key material cannot be deserialized
	ErrInvalidKeyData = errors.New("invalid key data")

	// ErrInvalidWireData is returned when a wire message cannot be deserialized
	ErrInvalidWireData = errors.New("invalid wire data")

	// Order is the prime order p of G1, G2 and GT (the BN254 scalar field)
	Order = fr.Modulus()
)

// FrBytes is the fixed width of a serialized Z_p scalar.
const FrBytes = fr.Bytes

// Domain separation tags for the Fiat-Shamir transcripts. The issuance
// and showing protocols hash disjoint transcripts.
const (
	dstIssuance = "PS_BN254_ISSUE_SHA-256_"
	dstShowing  = "PS_BN254_SHOW_SHA-256_"
)
