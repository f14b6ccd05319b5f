package reflux

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Codec defines the wire format of fed action batches.
// Implement this interface to feed actions in other formats.
type Codec interface {
	// Marshal serializes a value. Publisher uses it to encode batches.
	Marshal(v any) ([]byte, error)

	// Unmarshal deserializes bytes into a value.
	Unmarshal(data []byte, v any) error

	// ContentType returns the MIME type for observability and debugging.
	ContentType() string
}

// JSONCodec implements Codec using encoding/json.
type JSONCodec struct{}

// Marshal serializes v as JSON.
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal deserializes JSON bytes into v.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// ContentType returns the JSON MIME type.
func (JSONCodec) ContentType() string {
	return "application/json"
}

// YAMLCodec implements Codec using gopkg.in/yaml.v3.
type YAMLCodec struct{}

// Marshal serializes v as YAML.
func (YAMLCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal deserializes YAML bytes into v.
func (YAMLCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

// ContentType returns the YAML MIME type.
func (YAMLCodec) ContentType() string {
	return "application/x-yaml"
}

var (
	_ Codec = JSONCodec{}
	_ Codec = YAMLCodec{}
)

// decodeBatch reads either a list of envelopes or a single envelope.
//
//	[{"type": "BUY_CAKE"}, {"type": "BUY_COOKIE", "payload": 2}]
//	{"type": "BUY_CAKE"}
//
// An empty list, a null body, or an empty document is ErrEmptyBatch.
func decodeBatch(codec Codec, raw []byte) ([]Basic, error) {
	var batch []Basic
	if err := codec.Unmarshal(raw, &batch); err == nil {
		if len(batch) == 0 {
			return nil, fmt.Errorf("decode %s batch: %w", codec.ContentType(), ErrEmptyBatch)
		}
		return batch, nil
	}

	var single Basic
	if err := codec.Unmarshal(raw, &single); err != nil {
		return nil, fmt.Errorf("decode %s batch: %w", codec.ContentType(), err)
	}
	return []Basic{single}, nil
}
