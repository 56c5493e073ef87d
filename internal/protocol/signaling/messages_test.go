package signaling_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/domain/types"
	"adaremote/internal/protocol/signaling"
)

func TestWireFormat(t *testing.T) {
	cases := []struct {
		msg  signaling.Message
		want string
	}{
		{signaling.Register{SessionID: "s"}, `{"type":"register","session_id":"s"}`},
		{signaling.Join{SessionID: "s"}, `{"type":"join","session_id":"s"}`},
		{signaling.Offer{SessionID: "s", SDP: "v=0"}, `{"type":"offer","session_id":"s","sdp":"v=0"}`},
		{signaling.Answer{SessionID: "s", SDP: "v=0"}, `{"type":"answer","session_id":"s","sdp":"v=0"}`},
		{signaling.IceCandidate{SessionID: "s", Candidate: "c"}, `{"type":"ice_candidate","session_id":"s","candidate":"c"}`},
		{signaling.Success{Message: "ok"}, `{"type":"success","message":"ok"}`},
		{signaling.Error{Message: "no"}, `{"type":"error","message":"no"}`},
		{signaling.Disconnect{SessionID: "s"}, `{"type":"disconnect","session_id":"s"}`},
		{signaling.Disconnect{SessionID: "s", Reason: "bye"}, `{"type":"disconnect","session_id":"s","reason":"bye"}`},
	}
	for _, tc := range cases {
		t.Run(string(tc.msg.Type()), func(t *testing.T) {
			data, err := signaling.Marshal(tc.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(data))

			back, err := signaling.Unmarshal([]byte(tc.want))
			require.NoError(t, err)
			assert.Equal(t, tc.msg, back)
		})
	}
}

func TestUnmarshal_Malformed(t *testing.T) {
	for _, in := range []string{
		`not json`,
		`{"session_id":"s"}`,
		`{"type":"register"}`,
		`{"type":"offer","session_id":"s"}`,
		`{"type":"ice_candidate","session_id":"s","sdp":"x"}`,
		`{"type":"join","session_id":7}`,
	} {
		_, err := signaling.Unmarshal([]byte(in))
		assert.ErrorIs(t, err, types.ErrSerialization, in)
	}

	_, err := signaling.Unmarshal([]byte(`{"type":"teleport","session_id":"s"}`))
	assert.ErrorIs(t, err, signaling.ErrUnknownType)
}

func TestUnmarshal_IgnoresUnknownFields(t *testing.T) {
	m, err := signaling.Unmarshal([]byte(`{"type":"join","session_id":"s","extra":true}`))
	require.NoError(t, err)
	assert.Equal(t, signaling.Join{SessionID: "s"}, m)
}

func TestSessionOf(t *testing.T) {
	id, ok := signaling.SessionOf(signaling.IceCandidate{SessionID: "abc"})
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = signaling.SessionOf(signaling.Success{Message: "x"})
	assert.False(t, ok)
}

func TestError_IsAnError(t *testing.T) {
	var err error = signaling.Error{Message: "Session not found"}
	assert.EqualError(t, err, "Session not found")
}
