package cmdutil

import (
	"encoding/json"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format mode constants for --format flag parsing.
const (
	ModeText = "text"
	ModeJSON = "json"
	ModeYAML = "yaml"
)

// Formats lists the accepted --format values.
var Formats = []string{ModeText, ModeJSON, ModeYAML}

// ParseFormat parses a raw --format flag value. "" means text.
func ParseFormat(raw string) (string, error) {
	switch strings.ToLower(raw) {
	case "", ModeText:
		return ModeText, nil
	case ModeJSON:
		return ModeJSON, nil
	case ModeYAML, "yml":
		return ModeYAML, nil
	default:
		return "", FlagErrorf("invalid format %q: must be one of %s", raw, strings.Join(Formats, ", "))
	}
}

// WriteJSON encodes data as pretty-printed JSON to the given writer.
func WriteJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// WriteYAML encodes data as YAML to the given writer.
func WriteYAML(w io.Writer, data any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return enc.Close()
}
