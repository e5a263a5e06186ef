package locservice

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/anonloc-labs/anonloc/ps"
)

// Client holds one user's registration state: the username, a locally
// generated password attribute that is never disclosed, and the blinding
// state carried between the two registration round trips.
type Client struct {
	username string
	password []byte
	rng      io.Reader
	state    *ps.UserState
}

// NewClient creates a client for username with a fresh random password
// attribute. A nil rng falls back to crypto/rand.
func NewClient(username string, rng io.Reader) (*Client, error) {
	if rng == nil {
		rng = rand.Reader
	}
	password := make([]byte, 32)
	if _, err := io.ReadFull(rng, password); err != nil {
		return nil, fmt.Errorf("locservice: failed to generate password: %w", err)
	}
	return &Client{username: username, password: password, rng: rng}, nil
}

// Username returns the client's username.
func (c *Client) Username() string {
	return c.username
}

// PrepareRegistration builds the user attribute map for the requested
// subscriptions plus the mandatory username and password slots, and
// commits to it in an issuance request.
func (c *Client) PrepareRegistration(bundleBytes []byte, subscriptions []string) ([]byte, error) {
	pk, subMap, err := decodeBundle(bundleBytes)
	if err != nil {
		return nil, err
	}

	userAttrs := make(ps.AttributeMap, len(subscriptions)+2)
	for _, name := range subscriptions {
		idx, err := indexOf(subMap, name)
		if err != nil {
			return nil, err
		}
		userAttrs[idx] = []byte(name)
	}
	usernameIdx, err := indexOf(subMap, UsernameAttr)
	if err != nil {
		return nil, err
	}
	passwordIdx, err := indexOf(subMap, PasswordAttr)
	if err != nil {
		return nil, err
	}
	userAttrs[usernameIdx] = []byte(c.username)
	userAttrs[passwordIdx] = c.password

	req, state, err := ps.CreateIssueRequest(pk, userAttrs, c.rng)
	if err != nil {
		return nil, err
	}
	c.state = state
	return req.MarshalBinary()
}

// ProcessRegistrationResponse unblinds the server's response into a
// credential, self-verifying it before returning the serialized form.
func (c *Client) ProcessRegistrationResponse(bundleBytes, responseBytes []byte) ([]byte, error) {
	if c.state == nil {
		return nil, fmt.Errorf("locservice: no registration in progress")
	}
	pk, _, err := decodeBundle(bundleBytes)
	if err != nil {
		return nil, err
	}
	resp := new(ps.BlindSignature)
	if err := resp.UnmarshalBinary(responseBytes); err != nil {
		return nil, fmt.Errorf("%w: blind signature: %v", errInvalidMessage, err)
	}

	cred, err := ps.ObtainCredential(pk, resp, c.state)
	if err != nil {
		return nil, err
	}
	c.state = nil
	return cred.MarshalBinary()
}

// SignRequest signs message with the credential, disclosing exactly the
// attributes named in disclosedNames and hiding the rest. Disclosing the
// password attribute is refused outright.
func (c *Client) SignRequest(bundleBytes, credentialBytes, message []byte, disclosedNames []string) ([]byte, error) {
	pk, subMap, err := decodeBundle(bundleBytes)
	if err != nil {
		return nil, err
	}
	cred := new(ps.Credential)
	if err := cred.UnmarshalBinary(credentialBytes); err != nil {
		return nil, fmt.Errorf("%w: credential: %v", errInvalidMessage, err)
	}

	disclosed := make([]int, 0, len(disclosedNames))
	for _, name := range disclosedNames {
		if name == PasswordAttr {
			return nil, ErrPasswordDisclosure
		}
		idx, err := indexOf(subMap, name)
		if err != nil {
			return nil, err
		}
		disclosed = append(disclosed, idx)
	}

	proof, err := ps.CreateDisclosureProof(pk, cred, disclosed, message, c.rng)
	if err != nil {
		return nil, err
	}
	return proof.MarshalBinary()
}
