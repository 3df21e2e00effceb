// Package api defines the Smart Split RPC messages. Messages are plain Go
// structs carried over Connect with a JSON codec.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CodecName is the Connect codec name; it matches the application/json
// content type browsers send.
const CodecName = "json"

// Codec marshals API messages with encoding/json. It replaces Connect's
// default protojson codec, which only accepts generated protobuf messages.
type Codec struct{}

// Name implements connect.Codec.
func (Codec) Name() string { return CodecName }

// Marshal implements connect.Codec.
func (Codec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

// Unmarshal implements connect.Codec. Unknown fields are rejected and an
// empty body decodes to the zero message.
func (Codec) Unmarshal(data []byte, msg any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}
