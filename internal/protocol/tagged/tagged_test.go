package tagged_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/domain/types"
	"adaremote/internal/protocol/tagged"
)

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

func TestMarshal_SplicesTag(t *testing.T) {
	data, err := tagged.Marshal("sample", sample{Name: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"sample","name":"x"}`, string(data))

	data, err = tagged.Marshal("heartbeat", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"heartbeat"}`, string(data))
}

func TestMarshal_RejectsClashAndNonObject(t *testing.T) {
	_, err := tagged.Marshal("bad", map[string]string{"type": "other"})
	assert.ErrorIs(t, err, types.ErrSerialization)

	_, err = tagged.Marshal("bad", []int{1})
	assert.ErrorIs(t, err, types.ErrSerialization)
}

func TestParse_DecodeRequired(t *testing.T) {
	obj, err := tagged.Parse([]byte(`{"type":"sample","name":"y","count":3}`))
	require.NoError(t, err)
	assert.Equal(t, "sample", obj.Tag)

	var s sample
	require.NoError(t, obj.Decode(&s, "name"))
	assert.Equal(t, sample{Name: "y", Count: 3}, s)

	assert.ErrorIs(t, obj.Decode(&s, "missing"), types.ErrSerialization)

	obj, err = tagged.Parse([]byte(`{"type":"sample","name":null}`))
	require.NoError(t, err)
	assert.False(t, obj.Has("name"))
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{
		``, `null`, `[]`, `"register"`, `{}`, `{"type":5}`, `{"type":""}`, `{"type":"x"`,
	} {
		_, err := tagged.Parse([]byte(in))
		assert.ErrorIs(t, err, types.ErrSerialization, in)
	}
}

func TestDecode_TypeMismatch(t *testing.T) {
	obj, err := tagged.Parse([]byte(`{"type":"sample","name":7}`))
	require.NoError(t, err)
	var s sample
	assert.ErrorIs(t, obj.Decode(&s, "name"), types.ErrSerialization)
}
