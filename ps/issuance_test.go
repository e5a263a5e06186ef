package ps

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// issueCredential runs the full issuance round trip for the standard
// L=6 test fixture: user slots {0,1,2}, issuer slots {3,4,5}.
func issueCredential(t *testing.T) (*SecretKey, *PublicKey, *Credential) {
	t.Helper()

	sk, pk, err := GenerateKey(6, rand.Reader)
	require.NoError(t, err)

	userAttrs := AttributeMap{0: []byte("A"), 1: []byte("B"), 2: []byte("C")}
	req, state, err := CreateIssueRequest(pk, userAttrs, rand.Reader)
	require.NoError(t, err)

	issuerAttrs := AttributeMap{3: {0x03}, 4: {0x04}, 5: {0x05}}
	resp, err := SignIssueRequest(sk, pk, req, issuerAttrs, rand.Reader)
	require.NoError(t, err)

	cred, err := ObtainCredential(pk, resp, state)
	require.NoError(t, err)
	return sk, pk, cred
}

func TestIssuanceRoundTrip(t *testing.T) {
	_, pk, cred := issueCredential(t)

	vec, err := attributeVector(cred.Attrs, pk.AttributeCount())
	require.NoError(t, err)
	require.NoError(t, Verify(pk, &cred.Sig, vec))

	// Tampering with any recorded attribute must break verification.
	cred.Attrs[0] = []byte("error")
	vec, err = attributeVector(cred.Attrs, pk.AttributeCount())
	require.NoError(t, err)
	require.ErrorIs(t, Verify(pk, &cred.Sig, vec), ErrInvalidSignature)
}

func TestVerifyIssueRequest(t *testing.T) {
	_, pk, err := GenerateKey(4, rand.Reader)
	require.NoError(t, err)

	userAttrs := AttributeMap{0: []byte("u"), 1: []byte("v")}
	req, _, err := CreateIssueRequest(pk, userAttrs, rand.Reader)
	require.NoError(t, err)
	require.NoError(t, VerifyIssueRequest(pk, req))

	// Mutating a response scalar invalidates the proof.
	tampered := *req
	tampered.T = new(big.Int).Add(req.T, big.NewInt(1))
	require.ErrorIs(t, VerifyIssueRequest(pk, &tampered), ErrInvalidRequest)

	tampered = *req
	tampered.S = map[int]*big.Int{0: new(big.Int).Add(req.S[0], big.NewInt(1)), 1: req.S[1]}
	require.ErrorIs(t, VerifyIssueRequest(pk, &tampered), ErrInvalidRequest)

	// A proof is bound to its public key.
	_, otherPk, err := GenerateKey(4, rand.Reader)
	require.NoError(t, err)
	require.ErrorIs(t, VerifyIssueRequest(otherPk, req), ErrInvalidRequest)
}

func TestSignIssueRequestRejectsBadSets(t *testing.T) {
	sk, pk, err := GenerateKey(3, rand.Reader)
	require.NoError(t, err)

	req, _, err := CreateIssueRequest(pk, AttributeMap{0: []byte("a"), 1: []byte("b")}, rand.Reader)
	require.NoError(t, err)

	// Overlapping index sets.
	_, err = SignIssueRequest(sk, pk, req, AttributeMap{1: []byte("x"), 2: []byte("y")}, rand.Reader)
	require.ErrorIs(t, err, ErrAttributeOverlap)

	// Union not covering every slot.
	_, err = SignIssueRequest(sk, pk, req, AttributeMap{}, rand.Reader)
	require.ErrorIs(t, err, ErrAttributeGap)
}

func TestObtainCredentialFailStop(t *testing.T) {
	sk, pk, err := GenerateKey(2, rand.Reader)
	require.NoError(t, err)

	req, state, err := CreateIssueRequest(pk, AttributeMap{0: []byte("a")}, rand.Reader)
	require.NoError(t, err)
	resp, err := SignIssueRequest(sk, pk, req, AttributeMap{1: []byte("b")}, rand.Reader)
	require.NoError(t, err)

	// Corrupt the blind signature before unblinding.
	resp.Sigma2 = resp.Sigma1
	_, err = ObtainCredential(pk, resp, state)
	require.ErrorIs(t, err, ErrInvalidSignature)
}
