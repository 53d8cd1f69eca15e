package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument reports a data source with no value in it.
var ErrEmptyDocument = errors.New("content: empty document")

// DecodeJSON reads a single JSON value from r, keeping object key order.
// Numbers keep their literal text.
func DecodeJSON(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	value, err := decodeJSONValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, ErrEmptyDocument
		}
		return Value{}, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return Value{}, err
		}
		return Value{}, fmt.Errorf("content: unexpected data after top-level value at offset %d", dec.InputOffset())
	}
	return value, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return Value{}, err
	}

	switch typed := tok.(type) {
	case json.Delim:
		switch typed {
		case '{':
			return decodeJSONObject(dec)
		case '[':
			return decodeJSONArray(dec)
		default:
			return Value{}, fmt.Errorf("content: unexpected delimiter %q at offset %d", typed, dec.InputOffset())
		}
	case string:
		return String(typed), nil
	case json.Number:
		return Number(typed), nil
	case bool:
		return Bool(typed), nil
	case nil:
		return Null(), nil
	default:
		return Value{}, fmt.Errorf("content: unexpected token %v", tok)
	}
}

func decodeJSONObject(dec *json.Decoder) (Value, error) {
	mapping := NewMapping()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("content: expected object key at offset %d", dec.InputOffset())
		}
		value, err := decodeJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		mapping.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return FromMapping(mapping), nil
}

func decodeJSONArray(dec *json.Decoder) (Value, error) {
	items := []Value{}
	for dec.More() {
		value, err := decodeJSONValue(dec)
		if err != nil {
			return Value{}, err
		}
		items = append(items, value)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return Value{kind: KindSequence, items: items}, nil
}

// DecodeYAML decodes a YAML document, keeping mapping key order.
func DecodeYAML(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Value{}, ErrEmptyDocument
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, err
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return Value{}, ErrEmptyDocument
		}
		return fromYAMLNode(doc.Content[0])
	}
	return fromYAMLNode(&doc)
}

func fromYAMLNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case yaml.MappingNode:
		mapping := NewMapping()
		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := fromYAMLNode(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			mapping.Set(node.Content[i].Value, value)
		}
		return FromMapping(mapping), nil
	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := fromYAMLNode(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, value)
		}
		return Value{kind: KindSequence, items: items}, nil
	case yaml.AliasNode:
		if node.Alias == nil {
			return Null(), nil
		}
		return fromYAMLNode(node.Alias)
	case yaml.ScalarNode:
		return fromYAMLScalar(node)
	default:
		return Value{}, fmt.Errorf("content: unsupported yaml node at line %d", node.Line)
	}
}

func fromYAMLScalar(node *yaml.Node) (Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return Value{}, err
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return Value{}, err
		}
		return Float(f), nil
	default:
		return String(node.Value), nil
	}
}

// FromAny converts decoded Go values (as produced by encoding/json, yaml or
// front matter parsers) into a Value. Keys of plain Go maps carry no order,
// so they are sorted.
func FromAny(raw any) Value {
	switch typed := raw.(type) {
	case nil:
		return Null()
	case Value:
		return typed.Clone()
	case string:
		return String(typed)
	case bool:
		return Bool(typed)
	case json.Number:
		return Number(typed)
	case int:
		return Int(int64(typed))
	case int32:
		return Int(int64(typed))
	case int64:
		return Int(typed)
	case uint64:
		return Number(json.Number(strconv.FormatUint(typed, 10)))
	case float32:
		return Float(float64(typed))
	case float64:
		return Float(typed)
	case time.Time:
		return String(typed.Format(time.RFC3339))
	case []string:
		return Strings(typed...)
	case []any:
		items := make([]Value, len(typed))
		for i, item := range typed {
			items[i] = FromAny(item)
		}
		return Value{kind: KindSequence, items: items}
	case map[string]any:
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		slices.Sort(keys)
		mapping := NewMapping()
		for _, key := range keys {
			mapping.Set(key, FromAny(typed[key]))
		}
		return FromMapping(mapping)
	case map[any]any:
		converted := make(map[string]any, len(typed))
		for key, value := range typed {
			converted[fmt.Sprint(key)] = value
		}
		return FromAny(converted)
	default:
		return String(fmt.Sprint(typed))
	}
}
