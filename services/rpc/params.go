package rpc

import (
	"bytes"
	"encoding/json"

	"github.com/florin-chain/florind/errors"
)

var nullParam = json.RawMessage("null")

type namedParam struct {
	key   string
	value json.RawMessage
}

// decodeObjectParams walks a JSON object with a token decoder so that key
// order and duplicate keys survive; unmarshalling into a map would silently
// fold duplicates.
func decodeObjectParams(raw json.RawMessage) ([]namedParam, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if _, err := dec.Token(); err != nil {
		return nil, errors.NewParseError("invalid parameters object: %v", err)
	}

	var pairs []namedParam

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.NewParseError("invalid parameters object: %v", err)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, errors.NewParseError("invalid parameters object")
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, errors.NewParseError("invalid parameters object: %v", err)
		}

		pairs = append(pairs, namedParam{key: key, value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, errors.NewParseError("invalid parameters object: %v", err)
	}

	return pairs, nil
}

// transformParams canonicalizes request parameters into a positional slice.
// Array parameters pass through unchanged. Object parameters are mapped onto
// the command's declared argument names, with an optional "args" entry
// supplying leading positional values. Keys are checked in document order;
// for each key the unknown-name check runs before the positional-overlap
// check, which runs before the duplicate check.
func transformParams(params json.RawMessage, argNames []string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(params)
	if len(trimmed) == 0 || bytes.Equal(trimmed, nullParam) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var positional []json.RawMessage
		if err := json.Unmarshal(trimmed, &positional); err != nil {
			return nil, errors.NewParseError("invalid parameters array: %v", err)
		}

		return positional, nil
	}

	if trimmed[0] != '{' {
		return nil, errors.NewInvalidParameterError("parameters must be an array or an object")
	}

	pairs, err := decodeObjectParams(trimmed)
	if err != nil {
		return nil, err
	}

	var positional []json.RawMessage

	for _, pair := range pairs {
		if pair.key == "args" {
			if err := json.Unmarshal(pair.value, &positional); err != nil {
				return nil, errors.NewInvalidParameterError("parameter args must be an array")
			}

			break
		}
	}

	out := make([]json.RawMessage, len(argNames))
	copy(out, positional)

	if len(positional) > len(out) {
		out = positional
	}

	argIndex := make(map[string]int, len(argNames))
	for i, name := range argNames {
		argIndex[name] = i
	}

	seen := make(map[string]bool, len(pairs))
	lastFilled := len(positional) - 1

	for _, pair := range pairs {
		if pair.key == "args" {
			continue
		}

		idx, known := argIndex[pair.key]
		if !known {
			return nil, errors.NewInvalidParameterError("Unknown named parameter %s", pair.key)
		}

		if idx < len(positional) {
			return nil, errors.NewInvalidParameterError("Parameter %s specified twice both as positional and named argument", pair.key)
		}

		if seen[pair.key] {
			return nil, errors.NewInvalidParameterError("Parameter %s specified multiple times", pair.key)
		}

		seen[pair.key] = true
		out[idx] = pair.value

		if idx > lastFilled {
			lastFilled = idx
		}
	}

	// trailing declared slots that received no value are dropped, interior
	// gaps become explicit nulls
	out = out[:lastFilled+1]
	for i, v := range out {
		if v == nil {
			out[i] = nullParam
		}
	}

	return out, nil
}
