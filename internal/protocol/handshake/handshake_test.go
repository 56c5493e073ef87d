package handshake_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/crypto"
	"adaremote/internal/domain"
	"adaremote/internal/protocol/handshake"
	"adaremote/internal/protocol/message"
	"adaremote/internal/session/sessiontest"
)

func TestDerive_BothSidesAgree(t *testing.T) {
	id := sessiontest.NewID()
	hostKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	clientKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	host, err := handshake.Derive(hostKP, clientKP.PublicKey(), id, domain.RoleHost)
	require.NoError(t, err)
	client, err := handshake.Derive(clientKP, hostKP.PublicKey(), id, domain.RoleClient)
	require.NoError(t, err)

	assert.Equal(t, host.Fingerprint, client.Fingerprint)

	f, err := client.Sealer.Seal(message.SessionRequest{SessionID: id, Mode: domain.ModeViewOnly})
	require.NoError(t, err)
	m, err := host.Sealer.Open(f)
	require.NoError(t, err)
	assert.Equal(t, message.SessionRequest{SessionID: id, Mode: domain.ModeViewOnly}, m)

	_, err = handshake.Derive(hostKP, clientKP.PublicKey(), id, domain.RoleHost)
	assert.ErrorIs(t, err, domain.ErrKeyConsumed)
}

func TestKeys_Discard(t *testing.T) {
	id := sessiontest.NewID()
	hostKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	clientKP, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	host, err := handshake.Derive(hostKP, clientKP.PublicKey(), id, domain.RoleHost)
	require.NoError(t, err)
	client, err := handshake.Derive(clientKP, hostKP.PublicKey(), id, domain.RoleClient)
	require.NoError(t, err)

	f, err := client.Sealer.Seal(message.Heartbeat{})
	require.NoError(t, err)
	host.Discard()
	_, err = host.Sealer.Open(f)
	assert.ErrorIs(t, err, domain.ErrDecryption)
	_, err = host.Sealer.Seal(message.Heartbeat{})
	assert.ErrorIs(t, err, domain.ErrEncoding)

	var none *handshake.Keys
	none.Discard()
}

func TestDerive_SubstitutedKeyChangesFingerprint(t *testing.T) {
	id := sessiontest.NewID()
	hostKP, _ := crypto.GenerateKeyPair()
	clientKP, _ := crypto.GenerateKeyPair()
	mitmKP, _ := crypto.GenerateKeyPair()
	mitmKP2, _ := crypto.GenerateKeyPair()

	// the relay hands each side its own key instead of the peer's
	host, err := handshake.Derive(hostKP, mitmKP.PublicKey(), id, domain.RoleHost)
	require.NoError(t, err)
	client, err := handshake.Derive(clientKP, mitmKP2.PublicKey(), id, domain.RoleClient)
	require.NoError(t, err)
	assert.NotEqual(t, host.Fingerprint, client.Fingerprint)
}

func TestPayload_EncodeDecode(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	pub := kp.PublicKey()

	s, err := handshake.Encode(handshake.Payload{PublicKey: &pub, SessionID: "abc"})
	require.NoError(t, err)
	p, err := handshake.Decode(s)
	require.NoError(t, err)
	require.NotNil(t, p.PublicKey)
	assert.Equal(t, pub, *p.PublicKey)
	assert.Equal(t, "abc", p.SessionID)
	assert.Nil(t, p.Sealed)

	_, err = handshake.Decode("v=0\r\no=- 0 0 IN IP4 127.0.0.1")
	assert.ErrorIs(t, err, domain.ErrSerialization)
	_, err = handshake.Decode(`{"public_key":"AAAA"}`)
	assert.ErrorIs(t, err, domain.ErrSerialization)
}
