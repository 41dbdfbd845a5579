package rpc

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/florin-chain/florind/errors"
)

// paramKind is the declared type of one CLI argument position.
type paramKind int

const (
	kindString paramKind = iota
	kindInteger
	kindBoolean
	kindJSONArray
	kindJSONObject
)

type argSpec struct {
	name string
	kind paramKind
}

// cliArgTable declares, per method, the type of each positional argument.
// String positions pass through as-is; the rest are parsed from their text
// form before being embedded in the request.
var cliArgTable = map[string][]argSpec{
	"setban": {
		{name: "subnet", kind: kindString},
		{name: "command", kind: kindString},
		{name: "bantime", kind: kindInteger},
		{name: "absolute", kind: kindBoolean},
	},
	"listbanned":  {},
	"clearbanned": {},
	"getfeestats": {
		{name: "height", kind: kindInteger},
	},
	"settxfee": {
		{name: "amount", kind: kindString},
	},
	"help": {
		{name: "command", kind: kindString},
	},
	"uptime":  {},
	"stop":    {},
	"version": {},
}

func convertToken(token string, kind paramKind, name string) (json.RawMessage, error) {
	switch kind {
	case kindString:
		quoted, err := json.Marshal(token)
		if err != nil {
			return nil, errors.NewInvalidParameterError("parameter %s: %v", name, err)
		}

		return quoted, nil
	case kindInteger:
		if _, err := strconv.ParseInt(token, 10, 64); err != nil {
			return nil, errors.NewInvalidParameterError("parameter %s must be an integer, got %q", name, token)
		}

		return json.RawMessage(token), nil
	case kindBoolean:
		if token != "true" && token != "false" {
			return nil, errors.NewInvalidParameterError("parameter %s must be true or false, got %q", name, token)
		}

		return json.RawMessage(token), nil
	case kindJSONArray:
		if len(token) == 0 || token[0] != '[' || !json.Valid([]byte(token)) {
			return nil, errors.NewParseError("parameter %s is not a valid JSON array: %q", name, token)
		}

		return json.RawMessage(token), nil
	case kindJSONObject:
		if len(token) == 0 || token[0] != '{' || !json.Valid([]byte(token)) {
			return nil, errors.NewParseError("parameter %s is not a valid JSON object: %q", name, token)
		}

		return json.RawMessage(token), nil
	default:
		return nil, errors.NewInvalidParameterError("parameter %s has an unknown kind", name)
	}
}

// ConvertCliArgs converts raw command-line tokens into a positional
// parameter array for the given method.
func ConvertCliArgs(method string, tokens []string) (json.RawMessage, error) {
	specs, ok := cliArgTable[method]
	if !ok {
		return nil, errors.NewMethodNotFoundError("unknown method: %s", method)
	}

	out := make([]json.RawMessage, 0, len(tokens))

	for i, token := range tokens {
		// positions beyond the declared table pass through as strings
		spec := argSpec{name: "arg" + strconv.Itoa(i+1), kind: kindString}
		if i < len(specs) {
			spec = specs[i]
		}

		value, err := convertToken(token, spec.kind, spec.name)
		if err != nil {
			return nil, err
		}

		out = append(out, value)
	}

	return json.Marshal(out)
}

// ConvertCliNamedArgs converts "key=value" tokens into an object parameter
// for the given method; tokens without '=' are collected into "args" in
// order. Mirrors the -named mode of the reference CLI.
func ConvertCliNamedArgs(method string, tokens []string) (json.RawMessage, error) {
	specs, ok := cliArgTable[method]
	if !ok {
		return nil, errors.NewMethodNotFoundError("unknown method: %s", method)
	}

	kindByName := make(map[string]paramKind, len(specs))
	for _, spec := range specs {
		kindByName[spec.name] = spec.kind
	}

	var sb strings.Builder
	sb.WriteByte('{')

	var positional []json.RawMessage

	first := true

	for _, token := range tokens {
		eq := strings.IndexByte(token, '=')
		if eq < 0 {
			value, err := convertToken(token, kindString, "args")
			if err != nil {
				return nil, err
			}

			positional = append(positional, value)

			continue
		}

		name := token[:eq]

		kind, known := kindByName[name]
		if !known {
			return nil, errors.NewInvalidParameterError("Unknown named parameter %s", name)
		}

		value, err := convertToken(token[eq+1:], kind, name)
		if err != nil {
			return nil, err
		}

		if !first {
			sb.WriteByte(',')
		}

		first = false

		quotedName, _ := json.Marshal(name)
		sb.Write(quotedName)
		sb.WriteByte(':')
		sb.Write(value)
	}

	if len(positional) > 0 {
		if !first {
			sb.WriteByte(',')
		}

		args, err := json.Marshal(positional)
		if err != nil {
			return nil, err
		}

		sb.WriteString(`"args":`)
		sb.Write(args)
	}

	sb.WriteByte('}')

	return json.RawMessage(sb.String()), nil
}
