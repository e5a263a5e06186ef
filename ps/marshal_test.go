package ps

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// The disclosure proof is the one wire type carrying GT elements; its
// round trip exercises the coordinate-wise GT encoding end to end.
func TestDisclosureProofWireRoundTrip(t *testing.T) {
	_, pk, cred := issueCredential(t)

	msg := []byte("wire")
	proof, err := CreateDisclosureProof(pk, cred, []int{0, 3}, msg, rand.Reader)
	require.NoError(t, err)

	data, err := proof.MarshalBinary()
	require.NoError(t, err)

	var decoded DisclosureProof
	require.NoError(t, decoded.UnmarshalBinary(data))
	require.NoError(t, VerifyDisclosureProof(pk, &decoded, msg))

	// A truncated message must not decode.
	var truncated DisclosureProof
	require.Error(t, truncated.UnmarshalBinary(data[:len(data)-5]))
}

func TestPublicKeyWireRoundTrip(t *testing.T) {
	_, pk, err := GenerateKey(4, rand.Reader)
	require.NoError(t, err)

	data, err := pk.MarshalBinary()
	require.NoError(t, err)

	var decoded PublicKey
	require.NoError(t, decoded.UnmarshalBinary(data))
	require.Equal(t, pk.AttributeCount(), decoded.AttributeCount())
	require.True(t, pk.XTilde.Equal(&decoded.XTilde))

	// Decoded keys must keep verifying real requests.
	req, _, err := CreateIssueRequest(&decoded, AttributeMap{1: []byte("a")}, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, VerifyIssueRequest(pk, req))
}
