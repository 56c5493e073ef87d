package session_test

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/domain"
	"adaremote/internal/session"
	"adaremote/internal/session/sessiontest"
)

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[domain.SessionID]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id, err := session.Generate()
		require.NoError(t, err)
		_, dup := seen[id]
		require.False(t, dup, "duplicate session id after %d draws", i)
		seen[id] = struct{}{}
	}
}

func TestParse_RoundTripsCanonicalForm(t *testing.T) {
	id := sessiontest.NewID()

	parsed, err := session.Parse(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

}

func TestParse_RejectsNonCanonical(t *testing.T) {
	id := sessiontest.NewID()
	for _, text := range []string{
		"",
		"123456789",
		"not-a-session-id",
		strings.ReplaceAll(id.String(), "-", ""),
		"6F9619FF-8B86-4011-B42D-00C04FC964FF",
		"{" + id.String() + "}",
		"urn:uuid:" + id.String(),
		id.String()[:35] + "g",
	} {
		_, err := session.Parse(text)
		assert.ErrorIs(t, err, domain.ErrParse, "input %q", text)
	}
}

func TestDisplay_IsNineDigitModuloProjection(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := sessiontest.NewID()
		code := session.Display(id)
		require.Len(t, code, session.CodeLength)
		require.True(t, session.IsCode(code))

		want := new(big.Int).SetBytes(id.Bytes())
		want.Mod(want, big.NewInt(1_000_000_000))
		got, ok := new(big.Int).SetString(code, 10)
		require.True(t, ok)
		assert.Zero(t, want.Cmp(got))
	}
}

func TestDisplay_PadsLeadingZeros(t *testing.T) {
	var id domain.SessionID
	id[15] = 7
	assert.Equal(t, "000000007", session.Display(id))
}

func TestParseKey(t *testing.T) {
	id := sessiontest.NewID()

	_, err := session.ParseKey("6F9619FF-8B86-4011-B42D-00C04FC964FF")
	require.ErrorIs(t, err, domain.ErrParse)

	full, err := session.ParseKey(id.String())
	require.NoError(t, err)
	assert.True(t, full.IsFull())
	assert.Equal(t, id.String(), full.String())
	assert.Equal(t, id.Code(), full.Code())
	assert.True(t, full.Matches(id))

	code, err := session.ParseKey("123456789")
	require.NoError(t, err)
	assert.False(t, code.IsFull())
	assert.Equal(t, "123456789", code.String())
	_, ok := code.ID()
	assert.False(t, ok)

	byCode, err := session.ParseKey(id.Code())
	require.NoError(t, err)
	assert.True(t, byCode.Matches(id))

	_, err = session.ParseKey("12345678")
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestSessionID_TextMarshaling(t *testing.T) {
	id := sessiontest.NewID()
	b, err := id.MarshalText()
	require.NoError(t, err)

	var out domain.SessionID
	require.NoError(t, out.UnmarshalText(b))
	assert.Equal(t, id, out)
	assert.Error(t, out.UnmarshalText([]byte(id.Code())))
}
