// Package tagged encodes JSON objects discriminated by a "type" field.
//
// A message is the JSON encoding of its struct with one extra key, "type",
// spliced in. Decoding peeks the tag first so the caller can select the
// concrete struct, then checks that required keys are present.
package tagged

import (
	"bytes"
	"encoding/json"
	"fmt"

	"adaremote/internal/domain/types"
)

// TagKey is the discriminator field name.
const TagKey = "type"

// Marshal encodes v (a struct or nil) as a JSON object carrying tag.
func Marshal(tag string, v any) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if v != nil {
		body, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("%w: encoding %s: %v", types.ErrSerialization, tag, err)
		}
		if err := json.Unmarshal(body, &fields); err != nil {
			return nil, fmt.Errorf("%w: %s is not an object: %v", types.ErrSerialization, tag, err)
		}
		if _, clash := fields[TagKey]; clash {
			return nil, fmt.Errorf("%w: %s already has a %q field", types.ErrSerialization, tag, TagKey)
		}
	}
	raw, _ := json.Marshal(tag)
	fields[TagKey] = raw
	// map keys are sorted by encoding/json, so output is deterministic
	return json.Marshal(fields)
}

// Object is a decoded message whose concrete type has not been chosen.
type Object struct {
	Tag    string
	fields map[string]json.RawMessage
	raw    []byte
}

// Parse decodes data as a JSON object and extracts its tag.
func Parse(data []byte) (Object, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Object{}, fmt.Errorf("%w: %v", types.ErrSerialization, err)
	}
	if fields == nil {
		return Object{}, fmt.Errorf("%w: expected a JSON object", types.ErrSerialization)
	}
	rawTag, ok := fields[TagKey]
	if !ok {
		return Object{}, fmt.Errorf("%w: missing %q field", types.ErrSerialization, TagKey)
	}
	var tag string
	if err := json.Unmarshal(rawTag, &tag); err != nil || tag == "" {
		return Object{}, fmt.Errorf("%w: %q must be a non-empty string", types.ErrSerialization, TagKey)
	}
	return Object{Tag: tag, fields: fields, raw: data}, nil
}

// Has reports whether the object carries key with a non-null value.
func (o Object) Has(key string) bool {
	v, ok := o.fields[key]
	return ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

// Decode fills v from the object after checking that every required key is
// present and non-null.
func (o Object) Decode(v any, required ...string) error {
	for _, k := range required {
		if !o.Has(k) {
			return fmt.Errorf("%w: %s: missing field %q", types.ErrSerialization, o.Tag, k)
		}
	}
	if err := json.Unmarshal(o.raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", types.ErrSerialization, o.Tag, err)
	}
	return nil
}
