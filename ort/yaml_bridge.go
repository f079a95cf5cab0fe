package ort

import (
	"bytes"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// ============================================================
// YAML Bridge
// ============================================================
//
// Converts between YAML and Value through yaml.Node trees so mapping order
// survives. Timestamps, binary and custom-tagged scalars become strings.

// FromYAML parses a single YAML document into a Value. An empty document is
// null.
func FromYAML(data []byte) (*Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("YAML parse error: %w", err)
	}
	if doc.Kind == 0 {
		return Null(), nil
	}
	return fromYAMLNode(&doc, 0)
}

func fromYAMLNode(n *yaml.Node, depth int) (*Value, error) {
	if depth > DefaultMaxDepth {
		return nil, ErrTooDeep
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return fromYAMLNode(n.Content[0], depth)

	case yaml.AliasNode:
		return fromYAMLNode(n.Alias, depth+1)

	case yaml.SequenceNode:
		items := make([]*Value, len(n.Content))
		for i, c := range n.Content {
			v, err := fromYAMLNode(c, depth+1)
			if err != nil {
				return nil, err
			}
			items[i] = v
		}
		return &Value{kind: KindArray, arrVal: items}, nil

	case yaml.MappingNode:
		var ob objectBuilder
		if err := mergeYAMLMapping(&ob, n, depth); err != nil {
			return nil, err
		}
		return ob.build(), nil

	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}

	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func mergeYAMLMapping(ob *objectBuilder, n *yaml.Node, depth int) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, val := n.Content[i], n.Content[i+1]

		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			if err := mergeYAMLSources(ob, val, depth); err != nil {
				return err
			}
			continue
		}
		if k.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: mapping keys must be scalars", k.Line)
		}

		v, err := fromYAMLNode(val, depth+1)
		if err != nil {
			return err
		}
		ob.set(k.Value, v)
	}
	return nil
}

// mergeYAMLSources applies a "<<" merge: keys already present win.
func mergeYAMLSources(ob *objectBuilder, src *yaml.Node, depth int) error {
	if src.Kind == yaml.AliasNode {
		src = src.Alias
	}
	switch src.Kind {
	case yaml.MappingNode:
		var merged objectBuilder
		if err := mergeYAMLMapping(&merged, src, depth+1); err != nil {
			return err
		}
		for _, e := range merged.entries {
			if _, exists := ob.index[e.Key]; !exists {
				ob.set(e.Key, e.Value)
			}
		}
		return nil
	case yaml.SequenceNode:
		for _, c := range src.Content {
			if err := mergeYAMLSources(ob, c, depth+1); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
	}
}

func fromYAMLScalar(n *yaml.Node) (*Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return Number(f), nil
	default:
		return Str(n.Value), nil
	}
}

// ToYAML converts a Value to a YAML document, keeping object key order.
func ToYAML(v *Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(toYAMLNode(v)); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toYAMLNode(v *Value) *yaml.Node {
	switch v.Kind() {
	case KindBool:
		s := "false"
		if v.boolVal {
			s = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}

	case KindNumber:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: yamlNumberTag(v.numVal), Value: yamlNumber(v.numVal)}

	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.strVal}

	case KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range v.arrVal {
			n.Content = append(n.Content, toYAMLNode(elem))
		}
		return n

	case KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, entry := range v.objVal {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: entry.Key},
				toYAMLNode(entry.Value),
			)
		}
		return n

	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

func yamlNumberTag(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return "!!int"
	}
	return "!!float"
}

func yamlNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	return formatNumber(f)
}
