package project

import (
	"bytes"
	"encoding/json"

	"github.com/theMackabu/ship/pkg/value"
)

// JSON renders v as pretty-printed JSON with two-space indentation.
// Object key order and integer fidelity are preserved; NaN and infinite
// numbers are projection errors rather than silent substitutions.
func JSON(v value.Value) (string, error) {
	compact, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}
