package usecase

import (
	"bytes"
	"encoding/json"

	"airspace-service/internal/domain/entity"
)

// Client-facing validation messages
const (
	MsgNoData        = "No data provided"
	MsgInvalidJSON   = "Invalid JSON payload"
	MsgMissingFields = "Missing required fields in some records"
)

// ValidationError reports a request payload that cannot be stored. It always rejects the whole batch.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ParseFlightPayload decodes a single flight object or an array of them.
// Every element is checked before any is returned, so a single bad element rejects the batch.
func ParseFlightPayload(body []byte) ([]entity.FlightInput, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, &ValidationError{Message: MsgNoData}
	}
	if !json.Valid(body) {
		return nil, &ValidationError{Message: MsgInvalidJSON}
	}

	var elements []json.RawMessage
	switch body[0] {
	case '{':
		if isEmptyObject(body) {
			return nil, &ValidationError{Message: MsgNoData}
		}
		elements = []json.RawMessage{body}
	case '[':
		if err := json.Unmarshal(body, &elements); err != nil {
			return nil, &ValidationError{Message: MsgInvalidJSON}
		}
		if len(elements) == 0 {
			return nil, &ValidationError{Message: MsgNoData}
		}
	default:
		if isFalsyScalar(body) {
			return nil, &ValidationError{Message: MsgNoData}
		}
		return nil, &ValidationError{Message: MsgMissingFields}
	}

	inputs := make([]entity.FlightInput, 0, len(elements))
	for _, element := range elements {
		input, ok := parseFlightObject(element)
		if !ok {
			return nil, &ValidationError{Message: MsgMissingFields}
		}
		inputs = append(inputs, input)
	}
	return inputs, nil
}

func parseFlightObject(raw json.RawMessage) (entity.FlightInput, bool) {
	var input entity.FlightInput

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return input, false
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return input, false
	}

	for _, field := range entity.FlightFields {
		value, present := fields[field.WireKey]
		if !present {
			return input, false
		}
		input.Set(field.Column, fieldText(value))
	}

	input.NormalizeExitPoint()
	return input, true
}

// fieldText returns the stored text for a JSON value, or nil for null.
// Strings are taken verbatim, booleans become 1 or 0, and other values keep
// their compact JSON text, the way a text column stores them.
func fieldText(value json.RawMessage) *string {
	value = bytes.TrimSpace(value)
	if len(value) == 0 || string(value) == "null" {
		return nil
	}

	var s string
	switch value[0] {
	case '"':
		if err := json.Unmarshal(value, &s); err == nil {
			return &s
		}
	case 't':
		s = "1"
		return &s
	case 'f':
		s = "0"
		return &s
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		s = string(value)
		return &s
	}
	s = buf.String()
	return &s
}

func isEmptyObject(body []byte) bool {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return false
	}
	return len(m) == 0
}

func isFalsyScalar(body []byte) bool {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case float64:
		return t == 0
	case string:
		return t == ""
	}
	return false
}
