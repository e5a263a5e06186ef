/*
Package ps implements Pointcheval-Sanders multi-message signatures and the
attribute-based anonymous credential protocols built on them.

The scheme signs an ordered vector of attributes and supports:
 1. Blinded issuance: the user commits to a subset of the attributes and
    proves knowledge of the committed values; the issuer signs without
    seeing them and contributes the remaining attributes.
 2. Selective disclosure: the holder re-randomizes the signature and
    proves possession of the hidden attributes while revealing a chosen
    subset, bound to a caller message. Showings are unlinkable.

The implementation uses the BN254 pairing e: G1 x G2 -> GT of prime
order p. Attribute byte strings enter the algebra through SHA-256
big-endian reduction into Z_p, and all non-interactive proofs derive
their challenge from a domain-separated, length-prefixed SHA-256
transcript.

Usage example:

	// Generate an issuer key over 3 attribute slots
	sk, pk, _ := ps.GenerateKey(3, nil)

	// User commits to slots 0 and 1
	req, state, _ := ps.CreateIssueRequest(pk, ps.AttributeMap{
		0: []byte("first"), 1: []byte("second"),
	}, nil)

	// Issuer verifies the request and signs blindly, owning slot 2
	resp, _ := ps.SignIssueRequest(sk, pk, req, ps.AttributeMap{2: []byte("third")}, nil)

	// User unblinds into a credential and later shows slot 0 only
	cred, _ := ps.ObtainCredential(pk, resp, state)
	proof, _ := ps.CreateDisclosureProof(pk, cred, []int{0}, []byte("query"), nil)
	err := ps.VerifyDisclosureProof(pk, proof, []byte("query"))
*/
package ps
