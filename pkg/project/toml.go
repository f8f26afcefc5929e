package project

import (
	"fmt"
	"math"
	"strings"

	"github.com/theMackabu/ship/pkg/value"
)

// TOML renders v as a pretty, multi-line TOML document. TOML has no
// native null, so null values are emitted as the literal string "null".
// Key order is preserved, except that within a table the scalar entries
// are emitted before sub-tables, which TOML syntax requires.
//
// Rendering goes through a dedicated emitter rather than a marshaling
// library because the tree's insertion order must survive; map-based
// marshalers reorder keys.
func TOML(v value.Value) (string, error) {
	if v.Kind() != value.KindObject {
		return "", fmt.Errorf("TOML requires an object at the top level, got %s", v.Kind())
	}
	var sb strings.Builder
	if err := emitTable(&sb, nil, v.AsObject()); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// isTableArray reports whether v renders as a [[key]] array of tables.
func isTableArray(v value.Value) bool {
	if v.Kind() != value.KindArray || len(v.AsArray()) == 0 {
		return false
	}
	for _, e := range v.AsArray() {
		if e.Kind() != value.KindObject {
			return false
		}
	}
	return true
}

func emitTable(sb *strings.Builder, path []string, obj *value.Object) error {
	type deferred struct {
		key string
		val value.Value
	}
	var tables []deferred

	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		if v.Kind() == value.KindObject || isTableArray(v) {
			tables = append(tables, deferred{key: k, val: v})
			continue
		}
		sb.WriteString(tomlKey(k))
		sb.WriteString(" = ")
		if err := emitInline(sb, v); err != nil {
			return err
		}
		sb.WriteByte('\n')
	}

	for _, t := range tables {
		childPath := append(append([]string(nil), path...), t.key)
		header := tomlPath(childPath)
		if t.val.Kind() == value.KindObject {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(sb, "[%s]\n", header)
			if err := emitTable(sb, childPath, t.val.AsObject()); err != nil {
				return err
			}
			continue
		}
		for _, elem := range t.val.AsArray() {
			if sb.Len() > 0 {
				sb.WriteByte('\n')
			}
			fmt.Fprintf(sb, "[[%s]]\n", header)
			if err := emitTable(sb, childPath, elem.AsObject()); err != nil {
				return err
			}
		}
	}
	return nil
}

func emitInline(sb *strings.Builder, v value.Value) error {
	switch v.Kind() {
	case value.KindNull:
		sb.WriteString(`"null"`)
	case value.KindBool:
		if v.AsBool() {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case value.KindNumber:
		n := v.AsNumber()
		if n.IsInt() {
			sb.WriteString(n.String())
			break
		}
		f := n.Float64()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("number %v cannot be represented in TOML", f)
		}
		s := n.String()
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
		sb.WriteString(s)
	case value.KindString:
		sb.WriteString(tomlString(v.AsString()))
	case value.KindArray:
		sb.WriteByte('[')
		for i, e := range v.AsArray() {
			if i > 0 {
				sb.WriteString(", ")
			}
			if err := emitInline(sb, e); err != nil {
				return err
			}
		}
		sb.WriteByte(']')
	case value.KindObject:
		sb.WriteByte('{')
		obj := v.AsObject()
		for i, k := range obj.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			ev, _ := obj.Get(k)
			sb.WriteString(tomlKey(k))
			sb.WriteString(" = ")
			if err := emitInline(sb, ev); err != nil {
				return err
			}
		}
		sb.WriteByte('}')
	}
	return nil
}

func tomlPath(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = tomlKey(p)
	}
	return strings.Join(parts, ".")
}

func tomlKey(k string) string {
	if k != "" && isBareKey(k) {
		return k
	}
	return tomlString(k)
}

func isBareKey(k string) bool {
	for i := 0; i < len(k); i++ {
		c := k[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}

// tomlString renders a basic (double-quoted) TOML string.
func tomlString(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\f':
			sb.WriteString(`\f`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&sb, `\u%04X`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
