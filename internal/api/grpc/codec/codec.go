// Package codec registers the JSON wire codec used by every cargo.v1 service.
package codec

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// Name is the content-subtype clients select with grpc.CallContentSubtype.
const Name = "json"

// JSON marshals request and response messages as JSON.
type JSON struct{}

func (JSON) Name() string { return Name }

func (JSON) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec: marshal %T: %w", v, err)
	}
	return b, nil
}

func (JSON) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec: unmarshal %T: %w", v, err)
	}
	return nil
}

func init() {
	encoding.RegisterCodec(JSON{})
}
