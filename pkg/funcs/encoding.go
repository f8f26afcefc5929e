package funcs

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/theMackabu/ship/pkg/project"
	"github.com/theMackabu/ship/pkg/value"
)

func (r *Registry) declareEncoding() {
	r.declare(Definition{Name: "base64", Namespace: []string{"encode"}, Params: []ParamType{TypeString}, Impl: base64Encode})
	r.declare(Definition{Name: "base64", Namespace: []string{"decode"}, Params: []ParamType{TypeString}, Impl: base64Decode})
	r.declare(Definition{Name: "url", Namespace: []string{"encode"}, Params: []ParamType{TypeString}, Impl: urlEncode})
	r.declare(Definition{Name: "url", Namespace: []string{"decode"}, Params: []ParamType{TypeString}, Impl: urlDecode})
	r.declare(Definition{Name: "json", Namespace: []string{"encode"}, Params: []ParamType{TypeAny}, Impl: jsonEncode})
	r.declare(Definition{Name: "json", Namespace: []string{"decode"}, Params: []ParamType{TypeString}, Impl: jsonDecode})
	r.declare(Definition{Name: "yaml", Namespace: []string{"encode"}, Params: []ParamType{TypeAny}, Impl: yamlEncode})
	r.declare(Definition{Name: "yaml", Namespace: []string{"decode"}, Params: []ParamType{TypeString}, Impl: yamlDecode})
	r.declare(Definition{Name: "toml", Namespace: []string{"encode"}, Params: []ParamType{TypeObject}, Impl: tomlEncode})
	r.declare(Definition{Name: "toml", Namespace: []string{"decode"}, Params: []ParamType{TypeString}, Impl: tomlDecode})
}

func base64Encode(args []value.Value) (value.Value, error) {
	return value.String(base64.StdEncoding.EncodeToString([]byte(args[0].AsString()))), nil
}

func base64Decode(args []value.Value) (value.Value, error) {
	raw, err := base64.StdEncoding.DecodeString(args[0].AsString())
	if err != nil {
		return value.Value{}, fmt.Errorf("invalid base64: %w", err)
	}
	if !utf8.Valid(raw) {
		return value.Value{}, fmt.Errorf("invalid UTF-8 in decoded base64")
	}
	return value.String(string(raw)), nil
}

func urlEncode(args []value.Value) (value.Value, error) {
	return value.String(url.QueryEscape(args[0].AsString())), nil
}

func urlDecode(args []value.Value) (value.Value, error) {
	decoded, err := url.QueryUnescape(args[0].AsString())
	if err != nil {
		return value.Value{}, fmt.Errorf("URL decoding error: %w", err)
	}
	return value.String(decoded), nil
}

// jsonEncode is compact; the pretty form belongs to projection, not to
// the document-visible function.
func jsonEncode(args []value.Value) (value.Value, error) {
	data, err := args[0].MarshalJSON()
	if err != nil {
		return value.Value{}, fmt.Errorf("JSON encoding error: %w", err)
	}
	return value.String(string(data)), nil
}

func jsonDecode(args []value.Value) (value.Value, error) {
	v, err := value.FromJSON([]byte(args[0].AsString()))
	if err != nil {
		return value.Value{}, fmt.Errorf("JSON decoding error: %w", err)
	}
	return v, nil
}

func yamlEncode(args []value.Value) (value.Value, error) {
	out, err := project.YAML(args[0])
	if err != nil {
		return value.Value{}, fmt.Errorf("YAML encoding error: %w", err)
	}
	return value.String(out), nil
}

func yamlDecode(args []value.Value) (value.Value, error) {
	var node yaml.Node
	if err := yaml.Unmarshal([]byte(args[0].AsString()), &node); err != nil {
		return value.Value{}, fmt.Errorf("YAML decoding error: %w", err)
	}
	v, err := project.FromYAMLNode(&node)
	if err != nil {
		return value.Value{}, fmt.Errorf("YAML decoding error: %w", err)
	}
	return v, nil
}

func tomlEncode(args []value.Value) (value.Value, error) {
	data, err := toml.Marshal(value.ToAny(args[0]))
	if err != nil {
		return value.Value{}, fmt.Errorf("TOML encoding error: %w", err)
	}
	return value.String(string(data)), nil
}

func tomlDecode(args []value.Value) (value.Value, error) {
	var decoded map[string]any
	if err := toml.Unmarshal([]byte(args[0].AsString()), &decoded); err != nil {
		return value.Value{}, fmt.Errorf("TOML decoding error: %w", err)
	}
	v, err := value.FromAny(decoded)
	if err != nil {
		return value.Value{}, fmt.Errorf("TOML decoding error: %w", err)
	}
	return v, nil
}
