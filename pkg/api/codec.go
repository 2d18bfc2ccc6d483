// Package api defines the CostCircle RPC messages.
//
// Messages are plain structs carried over Connect with a JSON codec, so any
// HTTP client can call the API with Content-Type: application/json.
// Monetary fields are decimals encoded as strings ("12.50").
package api

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// codecName matches the "application/json" content type in the Connect protocol.
const codecName = "json"

type jsonCodec struct{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("decode %T: %w", msg, err)
	}
	return nil
}

// Codec returns the option installing the JSON codec on a client or handler.
func Codec() connect.Option {
	return connect.WithCodec(jsonCodec{})
}
