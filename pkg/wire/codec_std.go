//go:build !CONFIG_USE_SONIC

package wire

import "encoding/json"

// Marshal serializes v to JSON with unified error handling.
func Marshal(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, wrapError("wire.Marshal failed", err)
	}
	return data, nil
}

// Unmarshal deserializes JSON data into v with unified error handling.
func Unmarshal(data []byte, v interface{}) error {
	if v == nil {
		return ErrInvalidOutput
	}
	if err := json.Unmarshal(data, v); err != nil {
		return wrapError("wire.Unmarshal failed", err)
	}
	return nil
}
