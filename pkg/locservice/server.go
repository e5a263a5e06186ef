package locservice

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"

	"github.com/anonloc-labs/anonloc/ps"
)

// Server is the credential authority and verifier of the location
// service. Its only mutable state is the per-username record of
// issuer-chosen attributes, written once at registration.
type Server struct {
	mu          sync.Mutex
	issuerAttrs map[string]ps.AttributeMap
	rng         io.Reader
}

// NewServer creates a Server. A nil rng falls back to crypto/rand.
func NewServer(rng io.Reader) *Server {
	if rng == nil {
		rng = rand.Reader
	}
	return &Server{
		issuerAttrs: make(map[string]ps.AttributeMap),
		rng:         rng,
	}
}

// GenerateCA initializes the credential system for a list of subscription
// names. It appends the reserved username and password slots, generates
// an issuer key over all slots and returns the serialized secret key and
// the public bundle carrying the key and the subscription map.
func GenerateCA(subscriptions []string, rng io.Reader) (skBytes, bundleBytes []byte, err error) {
	m, err := subscriptionMap(subscriptions)
	if err != nil {
		return nil, nil, err
	}

	sk, pk, err := ps.GenerateKey(len(m), rng)
	if err != nil {
		return nil, nil, fmt.Errorf("locservice: key generation failed: %w", err)
	}

	skBytes, err = sk.MarshalBinary()
	if err != nil {
		return nil, nil, err
	}
	bundleBytes, err = encodeBundle(pk, m)
	if err != nil {
		return nil, nil, err
	}
	return skBytes, bundleBytes, nil
}

// ProcessRegistration verifies a registration request and blindly signs
// it. The request must commit to the username and password slots and to
// every subscription the user claims; the server fills each remaining
// slot with fresh random bytes and records them under the username.
func (s *Server) ProcessRegistration(skBytes, bundleBytes, requestBytes []byte, username string, subscriptions []string) ([]byte, error) {
	sk := new(ps.SecretKey)
	if err := sk.UnmarshalBinary(skBytes); err != nil {
		return nil, fmt.Errorf("%w: secret key: %v", errInvalidMessage, err)
	}
	pk, subMap, err := decodeBundle(bundleBytes)
	if err != nil {
		return nil, err
	}
	req := new(ps.IssueRequest)
	if err := req.UnmarshalBinary(requestBytes); err != nil {
		return nil, fmt.Errorf("%w: issue request: %v", errInvalidMessage, err)
	}

	// Reject forged requests before any per-user state is written.
	if err := ps.VerifyIssueRequest(pk, req); err != nil {
		return nil, err
	}

	// The commitment must cover the mandatory slots and the claimed
	// subscriptions, nothing else is policed: blind slots stay blind.
	userIdx := make(map[int]bool, len(req.S))
	for i := range req.S {
		userIdx[i] = true
	}
	for _, reserved := range []string{UsernameAttr, PasswordAttr} {
		idx, err := indexOf(subMap, reserved)
		if err != nil {
			return nil, err
		}
		if !userIdx[idx] {
			return nil, ErrMissingMandatorySlot
		}
	}
	for _, name := range subscriptions {
		idx, err := indexOf(subMap, name)
		if err != nil {
			return nil, err
		}
		if !userIdx[idx] {
			return nil, &PolicyError{Reason: fmt.Sprintf("request does not commit to subscription %q", name)}
		}
	}

	// Sample the issuer-owned complement.
	issuerAttrs := make(ps.AttributeMap)
	for i := 0; i < pk.AttributeCount(); i++ {
		if userIdx[i] {
			continue
		}
		val := make([]byte, 16)
		if _, err := io.ReadFull(s.rng, val); err != nil {
			return nil, fmt.Errorf("locservice: failed to sample issuer attribute: %w", err)
		}
		issuerAttrs[i] = val
	}

	s.mu.Lock()
	if _, taken := s.issuerAttrs[username]; taken {
		s.mu.Unlock()
		return nil, ErrDuplicateUser
	}
	s.issuerAttrs[username] = issuerAttrs
	s.mu.Unlock()

	resp, err := ps.SignIssueRequest(sk, pk, req, issuerAttrs, s.rng)
	if err != nil {
		return nil, err
	}
	return resp.MarshalBinary()
}

// IssuerAttributes returns the attributes the server chose for a
// registered username, or nil.
func (s *Server) IssuerAttributes(username string) ps.AttributeMap {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issuerAttrs[username]
}

// CheckRequestSignature verifies a disclosure signature over message and
// checks that the disclosed slots are exactly the expected subscription
// names. The second check binds disclosedNames to the proof, which the
// showing transcript alone does not.
func (s *Server) CheckRequestSignature(bundleBytes, message []byte, disclosedNames []string, signatureBytes []byte) error {
	pk, subMap, err := decodeBundle(bundleBytes)
	if err != nil {
		return err
	}
	proof := new(ps.DisclosureProof)
	if err := proof.UnmarshalBinary(signatureBytes); err != nil {
		return fmt.Errorf("%w: disclosure proof: %v", errInvalidMessage, err)
	}

	if err := ps.VerifyDisclosureProof(pk, proof, message); err != nil {
		return err
	}

	expected := make(map[int]bool, len(disclosedNames))
	for _, name := range disclosedNames {
		idx, err := indexOf(subMap, name)
		if err != nil {
			return err
		}
		expected[idx] = true
	}
	if len(expected) != len(proof.Disclosed) {
		return ErrDisclosedMismatch
	}
	for i := range proof.Disclosed {
		if !expected[i] {
			return ErrDisclosedMismatch
		}
	}
	return nil
}
