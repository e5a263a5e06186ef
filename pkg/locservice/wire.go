// Package locservice glues the PS credential protocols into the
// subscription location service: a Server that acts as issuer and
// verifier, and a Client that registers for subscriptions and signs
// location requests by selective disclosure. All protocol messages cross
// the boundary as byte strings.
package locservice

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/anonloc-labs/anonloc/ps"
)

// Reserved attribute slots appended after the subscription slots.
const (
	UsernameAttr = "username"
	PasswordAttr = "password"
)

// PolicyError reports a request that is well-formed but violates the
// service policy. It is fatal to the current protocol instance.
type PolicyError struct {
	Reason string
}

func (e *PolicyError) Error() string {
	return "locservice: " + e.Reason
}

var (
	// ErrPasswordDisclosure is returned when a client is asked to reveal
	// its password attribute.
	ErrPasswordDisclosure = &PolicyError{Reason: "refusing to disclose the password attribute"}

	// ErrDuplicateUser is returned when a username registers twice.
	ErrDuplicateUser = &PolicyError{Reason: "username already registered"}

	// ErrUnknownSubscription is returned for a subscription name outside
	// the service's subscription map.
	ErrUnknownSubscription = &PolicyError{Reason: "unknown subscription"}

	// ErrMissingMandatorySlot is returned when a registration request
	// does not commit to the username and password slots.
	ErrMissingMandatorySlot = &PolicyError{Reason: "request must commit to username and password"}

	// ErrDisclosedMismatch is returned when the disclosed attribute set
	// of a signature does not match the expected subscription names.
	ErrDisclosedMismatch = &PolicyError{Reason: "disclosed attributes do not match expected names"}

	// ErrReservedSubscription rejects CA setups that reuse a reserved
	// slot name as a subscription.
	ErrReservedSubscription = &PolicyError{Reason: "subscription name is reserved"}
)

// pkBundle is the public material published by the server: the issuer
// public key and the stable subscription-name-to-slot map.
type pkBundle struct {
	PK            []byte         `cbor:"1,keyasint"`
	Subscriptions map[string]int `cbor:"2,keyasint"`
}

func encodeBundle(pk *ps.PublicKey, subscriptions map[string]int) ([]byte, error) {
	pkBytes, err := pk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(pkBundle{PK: pkBytes, Subscriptions: subscriptions})
}

func decodeBundle(data []byte) (*ps.PublicKey, map[string]int, error) {
	var bundle pkBundle
	if err := cbor.Unmarshal(data, &bundle); err != nil {
		return nil, nil, fmt.Errorf("locservice: invalid public key bundle: %w", err)
	}
	pk := new(ps.PublicKey)
	if err := pk.UnmarshalBinary(bundle.PK); err != nil {
		return nil, nil, fmt.Errorf("locservice: invalid public key bundle: %w", err)
	}
	for name, idx := range bundle.Subscriptions {
		if idx < 0 || idx >= pk.AttributeCount() {
			return nil, nil, fmt.Errorf("locservice: invalid public key bundle: slot %d for %q out of range", idx, name)
		}
	}
	return pk, bundle.Subscriptions, nil
}

// subscriptionMap lays out the attribute slots: the subscription names in
// sorted order, then the reserved username and password slots.
func subscriptionMap(subscriptions []string) (map[string]int, error) {
	names := append([]string(nil), subscriptions...)
	sort.Strings(names)

	m := make(map[string]int, len(names)+2)
	for _, name := range names {
		if name == UsernameAttr || name == PasswordAttr {
			return nil, ErrReservedSubscription
		}
		if _, dup := m[name]; dup {
			return nil, &PolicyError{Reason: fmt.Sprintf("duplicate subscription %q", name)}
		}
		m[name] = len(m)
	}
	m[UsernameAttr] = len(m)
	m[PasswordAttr] = len(m)
	return m, nil
}

// indexOf resolves a subscription or reserved slot name.
func indexOf(subscriptions map[string]int, name string) (int, error) {
	idx, ok := subscriptions[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSubscription, name)
	}
	return idx, nil
}

var errInvalidMessage = errors.New("locservice: invalid message")
