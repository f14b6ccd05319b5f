package reflux

import (
	"errors"
	"testing"
)

func TestJSONCodec_ContentType(t *testing.T) {
	if ct := (JSONCodec{}).ContentType(); ct != "application/json" {
		t.Errorf("expected 'application/json', got %q", ct)
	}
}

func TestYAMLCodec_ContentType(t *testing.T) {
	if ct := (YAMLCodec{}).ContentType(); ct != "application/x-yaml" {
		t.Errorf("expected 'application/x-yaml', got %q", ct)
	}
}

func TestDecodeBatch(t *testing.T) {
	tests := []struct {
		name    string
		codec   Codec
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name:  "json list",
			codec: JSONCodec{},
			raw:   `[{"type": "BUY_CAKE"}, {"type": "BUY_COOKIE", "payload": 2}]`,
			want:  []string{"BUY_CAKE", "BUY_COOKIE"},
		},
		{
			name:  "json single",
			codec: JSONCodec{},
			raw:   `{"type": "BUY_CAKE"}`,
			want:  []string{"BUY_CAKE"},
		},
		{
			name:    "json empty list",
			codec:   JSONCodec{},
			raw:     `[]`,
			wantErr: true,
		},
		{
			name:    "json null",
			codec:   JSONCodec{},
			raw:     `null`,
			wantErr: true,
		},
		{
			name:    "yaml empty document",
			codec:   YAMLCodec{},
			raw:     "",
			wantErr: true,
		},
		{
			name:    "json invalid",
			codec:   JSONCodec{},
			raw:     `{not valid json}`,
			wantErr: true,
		},
		{
			name:  "yaml list",
			codec: YAMLCodec{},
			raw:   "- type: BUY_CAKE\n- type: BUY_COOKIE\n  payload: 2\n",
			want:  []string{"BUY_CAKE", "BUY_COOKIE"},
		},
		{
			name:  "yaml single",
			codec: YAMLCodec{},
			raw:   "type: RESTOCK\n",
			want:  []string{"RESTOCK"},
		},
		{
			name:    "yaml invalid",
			codec:   YAMLCodec{},
			raw:     "type: [unclosed",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			batch, err := decodeBatch(tt.codec, []byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got batch %v", batch)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeBatch failed: %v", err)
			}
			if len(batch) != len(tt.want) {
				t.Fatalf("expected %d envelopes, got %d", len(tt.want), len(batch))
			}
			for i, kind := range tt.want {
				if batch[i].Kind() != kind {
					t.Errorf("envelope %d: expected %s, got %s", i, kind, batch[i].Kind())
				}
			}
		})
	}
}

func TestDecodeBatch_EmptyIsErrEmptyBatch(t *testing.T) {
	if _, err := decodeBatch(JSONCodec{}, []byte(`null`)); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestCodec_MarshalRoundTripsBatch(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, YAMLCodec{}} {
		raw, err := codec.Marshal([]Basic{{Type: "BUY_CAKE"}})
		if err != nil {
			t.Fatalf("%s: Marshal failed: %v", codec.ContentType(), err)
		}
		batch, err := decodeBatch(codec, raw)
		if err != nil || len(batch) != 1 || batch[0].Type != "BUY_CAKE" {
			t.Errorf("%s: expected [BUY_CAKE], got %+v, %v", codec.ContentType(), batch, err)
		}
	}
}

func TestDecodeBatch_Payload(t *testing.T) {
	batch, err := decodeBatch(JSONCodec{}, []byte(`{"type": "SET", "payload": {"n": 3}}`))
	if err != nil {
		t.Fatalf("decodeBatch failed: %v", err)
	}

	payload, ok := batch[0].Payload.(map[string]any)
	if !ok {
		t.Fatalf("expected map payload, got %T", batch[0].Payload)
	}
	if payload["n"] != float64(3) {
		t.Errorf("expected n=3, got %v", payload["n"])
	}
}
