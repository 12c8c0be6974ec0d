//go:build CONFIG_USE_SONIC

package wire

import "github.com/bytedance/sonic"

var fast = sonic.ConfigFastest

// Marshal serializes v to JSON with unified error handling. Built with
// CONFIG_USE_SONIC, this path is backed by bytedance/sonic for the
// broker and tracker's hot encode/decode loop.
func Marshal(v interface{}) ([]byte, error) {
	data, err := fast.Marshal(v)
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
	if err := fast.Unmarshal(data, v); err != nil {
		return wrapError("wire.Unmarshal failed", err)
	}
	return nil
}
