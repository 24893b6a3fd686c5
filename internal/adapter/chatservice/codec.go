package chatservice

import (
	"encoding/json"
	"fmt"
)

// jsonCodec serializes stream messages as JSON. The remote chat service
// speaks Connect with the JSON wire encoding, which lets us exchange plain
// structs tagged with the protobuf JSON field names.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(message any) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, message any) error {
	if err := json.Unmarshal(data, message); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return nil
}
