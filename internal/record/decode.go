package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeJSON parses a single JSON document. Numbers keep their literal text.
func DecodeJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Value{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Value{}, errors.New("unexpected data after top-level JSON value")
	}
	return FromAny(raw)
}

// DecodeYAML parses a single YAML document. An empty document decodes to null.
func DecodeYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, err
	}
	if doc.Kind == 0 {
		return NullValue(), nil
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return NullValue(), nil
		}
		return fromYAMLNode(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return NullValue(), nil
		}
		return fromYAMLNode(node.Alias)
	case yaml.MappingNode:
		fields := make(map[string]Value, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i]
			child, err := fromYAMLNode(node.Content[i+1])
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", key.Value, err)
			}
			if key.ShortTag() == "!!merge" {
				merge(fields, child)
				continue
			}
			fields[key.Value] = child
		}
		return Obj(fields), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for i, c := range node.Content {
			child, err := fromYAMLNode(c)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, child)
		}
		return Seq(items...), nil
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			return NullValue(), nil
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return Value{}, err
			}
			return Boolean(b), nil
		case "!!int", "!!float":
			return Num(node.Value), nil
		default:
			return Str(node.Value), nil
		}
	default:
		return Value{}, fmt.Errorf("unsupported YAML node kind %d", node.Kind)
	}
}

// merge copies the members of a merge key's value into fields without
// replacing keys already present. A sequence merges each of its objects in
// order, so earlier ones win.
func merge(fields map[string]Value, src Value) {
	switch src.kind {
	case Object:
		for k, v := range src.obj {
			if _, exists := fields[k]; !exists {
				fields[k] = v
			}
		}
	case Sequence:
		for _, item := range src.seq {
			merge(fields, item)
		}
	}
}

// MarshalYAML renders v as a YAML node tree, keeping number text intact.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.yamlNode(), nil
}

func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.text}
	case Number:
		tag := "!!int"
		if isFloatText(v.text) {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.text}
	case Bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: v.text}
	case Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range v.Keys() {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				v.obj[k].yamlNode(),
			)
		}
		return node
	case Sequence:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.seq {
			node.Content = append(node.Content, item.yamlNode())
		}
		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func isFloatText(s string) bool {
	t := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		return false
	}
	return strings.ContainsAny(t, ".eE")
}
