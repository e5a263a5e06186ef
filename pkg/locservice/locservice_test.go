package locservice

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anonloc-labs/anonloc/ps"
)

func register(t *testing.T, subscriptions, requested []string, username string) (*Server, *Client, []byte, []byte) {
	t.Helper()

	skBytes, bundleBytes, err := GenerateCA(subscriptions, nil)
	require.NoError(t, err)

	server := NewServer(nil)
	client, err := NewClient(username, nil)
	require.NoError(t, err)

	reqBytes, err := client.PrepareRegistration(bundleBytes, requested)
	require.NoError(t, err)

	respBytes, err := server.ProcessRegistration(skBytes, bundleBytes, reqBytes, username, requested)
	require.NoError(t, err)

	credBytes, err := client.ProcessRegistrationResponse(bundleBytes, respBytes)
	require.NoError(t, err)
	return server, client, bundleBytes, credBytes
}

func TestRegistrationAndRequestSigning(t *testing.T) {
	subs := []string{"restaurant", "bar", "dojo"}
	server, client, bundle, cred := register(t, subs, []string{"restaurant", "bar"}, "walter")

	msg := []byte("46.52,6.57")
	sig, err := client.SignRequest(bundle, cred, msg, []string{"restaurant"})
	require.NoError(t, err)

	require.NoError(t, server.CheckRequestSignature(bundle, msg, []string{"restaurant"}, sig))

	// The signature is bound to its message.
	require.Error(t, server.CheckRequestSignature(bundle, []byte("46.52,6.58"), []string{"restaurant"}, sig))

	// The disclosed set must match the expected names exactly.
	require.ErrorIs(t, server.CheckRequestSignature(bundle, msg, []string{"bar"}, sig), ErrDisclosedMismatch)
	require.ErrorIs(t, server.CheckRequestSignature(bundle, msg, []string{"restaurant", "bar"}, sig), ErrDisclosedMismatch)
}

func TestPasswordDisclosureRefused(t *testing.T) {
	_, client, bundle, cred := register(t, []string{"gym"}, []string{"gym"}, "ada")

	_, err := client.SignRequest(bundle, cred, []byte("m"), []string{PasswordAttr})
	require.ErrorIs(t, err, ErrPasswordDisclosure)
}

func TestRegistrationPolicies(t *testing.T) {
	subs := []string{"cafe", "library"}
	skBytes, bundleBytes, err := GenerateCA(subs, nil)
	require.NoError(t, err)
	server := NewServer(nil)

	t.Run("unknown subscription", func(t *testing.T) {
		client, err := NewClient("eve", nil)
		require.NoError(t, err)
		_, err = client.PrepareRegistration(bundleBytes, []string{"casino"})
		require.ErrorIs(t, err, ErrUnknownSubscription)
	})

	t.Run("duplicate username", func(t *testing.T) {
		for i, wantErr := range []error{nil, ErrDuplicateUser} {
			client, err := NewClient("bob", nil)
			require.NoError(t, err)
			reqBytes, err := client.PrepareRegistration(bundleBytes, []string{"cafe"})
			require.NoError(t, err)
			_, err = server.ProcessRegistration(skBytes, bundleBytes, reqBytes, "bob", []string{"cafe"})
			if wantErr == nil {
				require.NoError(t, err, "round %d", i)
			} else {
				require.ErrorIs(t, err, wantErr)
			}
		}
	})

	t.Run("reserved subscription name", func(t *testing.T) {
		_, _, err := GenerateCA([]string{"cafe", PasswordAttr}, nil)
		require.ErrorIs(t, err, ErrReservedSubscription)
	})
}

func TestIssuerAttributesRecorded(t *testing.T) {
	subs := []string{"pool", "sauna"}
	server, _, _, _ := register(t, subs, []string{"pool"}, "carol")

	attrs := server.IssuerAttributes("carol")
	require.NotNil(t, attrs)
	// The issuer owns exactly the slots the user did not commit to:
	// here the single unclaimed subscription.
	require.Len(t, attrs, 1)
	require.Nil(t, server.IssuerAttributes("nobody"))
}

func TestCredentialCoversAllSlots(t *testing.T) {
	subs := []string{"tram", "bikes", "museum"}
	_, _, bundle, credBytes := register(t, subs, []string{"tram"}, "dan")

	pk, _, err := decodeBundle(bundle)
	require.NoError(t, err)

	cred := new(ps.Credential)
	require.NoError(t, cred.UnmarshalBinary(credBytes))
	require.Len(t, cred.Attrs, pk.AttributeCount())
}

func TestTamperedSignatureRejected(t *testing.T) {
	server, client, bundle, cred := register(t, []string{"zoo"}, []string{"zoo"}, "erin")

	msg := []byte("lat,lon")
	sig, err := client.SignRequest(bundle, cred, msg, []string{"zoo"})
	require.NoError(t, err)

	sig[len(sig)-1] ^= 0xff
	require.Error(t, server.CheckRequestSignature(bundle, msg, []string{"zoo"}, sig))
}
