package project

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/theMackabu/ship/pkg/value"
)

// YAML renders v in the library's default block style with two-space
// indentation. Mapping key order follows the value tree.
func YAML(v value.Value) (string, error) {
	node, err := YAMLNode(v)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// YAMLNode converts a value tree into a yaml document node, preserving
// object key order via explicit mapping nodes.
func YAMLNode(v value.Value) (*yaml.Node, error) {
	switch v.Kind() {
	case value.KindNull:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.AsBool())}, nil
	case value.KindNumber:
		n := v.AsNumber()
		if n.IsInt() {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: n.String()}, nil
		}
		if math.IsNaN(n.Float64()) || math.IsInf(n.Float64(), 0) {
			return nil, fmt.Errorf("number %v cannot be represented in YAML", n.Float64())
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: n.String()}, nil
	case value.KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.AsString()}, nil
	case value.KindArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.AsArray() {
			child, err := YAMLNode(e)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	case value.KindObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		obj := v.AsObject()
		for _, k := range obj.Keys() {
			ev, _ := obj.Get(k)
			child, err := YAMLNode(ev)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				child)
		}
		return node, nil
	}
	return nil, fmt.Errorf("unsupported value kind")
}

// FromYAMLNode converts a decoded yaml node back into a value tree,
// keeping mapping key order.
func FromYAMLNode(n *yaml.Node) (value.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null(), nil
		}
		return FromYAMLNode(n.Content[0])
	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return value.Null(), nil
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return value.Value{}, fmt.Errorf("invalid boolean %q", n.Value)
			}
			return value.Bool(b), nil
		case "!!int":
			i, err := strconv.ParseInt(n.Value, 0, 64)
			if err != nil {
				return value.Value{}, fmt.Errorf("invalid integer %q", n.Value)
			}
			return value.Int(i), nil
		case "!!float":
			f, err := strconv.ParseFloat(n.Value, 64)
			if err != nil {
				return value.Value{}, fmt.Errorf("invalid float %q", n.Value)
			}
			return value.Float(f), nil
		default:
			return value.String(n.Value), nil
		}
	case yaml.SequenceNode:
		elems := make([]value.Value, 0, len(n.Content))
		for _, c := range n.Content {
			e, err := FromYAMLNode(c)
			if err != nil {
				return value.Value{}, err
			}
			elems = append(elems, e)
		}
		return value.Array(elems...), nil
	case yaml.MappingNode:
		obj := value.NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			e, err := FromYAMLNode(n.Content[i+1])
			if err != nil {
				return value.Value{}, err
			}
			obj.Set(key, e)
		}
		return value.ObjectVal(obj), nil
	}
	return value.Value{}, fmt.Errorf("unsupported YAML node kind %d", n.Kind)
}
