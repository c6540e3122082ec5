package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// SettingKind tags the variant held by a SettingValue.
type SettingKind string

const (
	SettingString SettingKind = "string"
	SettingNumber SettingKind = "number"
	SettingBool   SettingKind = "bool"
	SettingBytes  SettingKind = "bytes"
)

// SettingValue is a tagged variant: exactly one of the payload fields is
// meaningful, selected by Kind.
type SettingValue struct {
	Kind   SettingKind `json:"kind"`
	String string      `json:"string,omitempty"`
	Number float64     `json:"number,omitempty"`
	Bool   bool        `json:"bool,omitempty"`
	Bytes  []byte      `json:"bytes,omitempty"`
}

// Setting is an opaque key/value pair. Keys are unique; values carry no
// schema beyond the tagged variant.
type Setting struct {
	Key       string       `json:"key"`
	Value     SettingValue `json:"value"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// StringValue builds a string-tagged SettingValue.
func StringValue(s string) SettingValue {
	return SettingValue{Kind: SettingString, String: s}
}

// NumberValue builds a number-tagged SettingValue.
func NumberValue(n float64) SettingValue {
	return SettingValue{Kind: SettingNumber, Number: n}
}

// BoolValue builds a bool-tagged SettingValue.
func BoolValue(b bool) SettingValue {
	return SettingValue{Kind: SettingBool, Bool: b}
}

// BytesValue builds a bytes-tagged SettingValue.
func BytesValue(b []byte) SettingValue {
	return SettingValue{Kind: SettingBytes, Bytes: b}
}

// Validate checks that the kind tag is one of the known variants.
func (v SettingValue) Validate() error {
	switch v.Kind {
	case SettingString, SettingNumber, SettingBool, SettingBytes:
		return nil
	default:
		return fmt.Errorf("unknown setting kind %q", v.Kind)
	}
}

// Encode serializes the value for storage.
func (v SettingValue) Encode() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(v)
}

// DecodeSettingValue parses a stored value.
func DecodeSettingValue(data []byte) (SettingValue, error) {
	var v SettingValue
	if err := json.Unmarshal(data, &v); err != nil {
		return SettingValue{}, fmt.Errorf("decoding setting value: %w", err)
	}
	if err := v.Validate(); err != nil {
		return SettingValue{}, err
	}
	return v, nil
}
