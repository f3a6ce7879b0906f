package translate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/uimpit/internal/document"
	"github.com/thoreinstein/uimpit/internal/errors"
)

// Export renders doc in the given format. YAML keeps the document's
// canonical key order. TOML tables are written in lexical order, and TOML
// has no null so null values are left out.
func Export(doc *document.Document, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return document.Encode(doc)
	case FormatYAML:
		return exportYAML(doc)
	case FormatTOML:
		return exportTOML(doc)
	}
	return nil, errors.Wrapf(ErrUnknownFormat, "%q", f)
}

// Import decodes data in the given format into a document. Unlike
// document.Load, data that does not decode to a mapping is an error.
func Import(data []byte, f Format) (*document.Document, error) {
	if f == FormatJSON {
		doc, err := document.Parse(data)
		if err != nil {
			return nil, errors.Wrap(err, "importing JSON")
		}
		return doc, nil
	}

	var tree any
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return nil, errors.Wrap(err, "unmarshaling yaml")
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &tree); err != nil {
			return nil, errors.Wrap(err, formatTOMLError(err))
		}
	default:
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", f)
	}

	norm, err := normalize(tree)
	if err != nil {
		return nil, err
	}
	if _, ok := norm.(map[string]any); !ok {
		return nil, errors.Newf("%s document is not a mapping", f)
	}

	js, err := json.Marshal(norm)
	if err != nil {
		return nil, errors.Wrap(err, "re-encoding as JSON")
	}
	doc, err := document.Parse(js)
	if err != nil {
		return nil, errors.Wrapf(err, "importing %s", f)
	}
	return doc, nil
}

// tree decodes the document's canonical JSON into generic values with
// integers kept exact.
func tree(doc *document.Document) (map[string]any, error) {
	data, err := document.Encode(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Wrap(err, "decoding document")
	}
	out, err := fromJSON(m)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

func fromJSON(v any) (any, error) {
	switch v := v.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, errors.Wrapf(err, "number %s", v)
		}
		return f, nil
	case map[string]any:
		for k, e := range v {
			c, err := fromJSON(e)
			if err != nil {
				return nil, err
			}
			v[k] = c
		}
		return v, nil
	case []any:
		for i, e := range v {
			c, err := fromJSON(e)
			if err != nil {
				return nil, err
			}
			v[i] = c
		}
		return v, nil
	}
	return v, nil
}

// normalize turns decoder output into values encoding/json accepts:
// string-keyed maps only, and no NaN or infinities.
func normalize(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			c, err := normalize(e)
			if err != nil {
				return nil, errors.Wrapf(err, "key %q", k)
			}
			v[k] = c
		}
		return v, nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, e := range v {
			c, err := normalize(e)
			if err != nil {
				return nil, err
			}
			m[fmt.Sprint(k)] = c
		}
		return m, nil
	case []any:
		for i, e := range v {
			c, err := normalize(e)
			if err != nil {
				return nil, err
			}
			v[i] = c
		}
		return v, nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Newf("unsupported number %v", v)
		}
	}
	return v, nil
}

func exportYAML(doc *document.Document) ([]byte, error) {
	m, err := tree(doc)
	if err != nil {
		return nil, err
	}

	root, err := mappingNode(m, nil)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, errors.Wrap(err, "marshaling yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrap(err, "marshaling yaml")
	}
	return buf.Bytes(), nil
}

// mappingNode emits the keys named by order first, then the rest lexically,
// matching document.Encode. At the top level, recognized categories are
// ordered by field as well.
func mappingNode(m map[string]any, order []string) (*yaml.Node, error) {
	top := order == nil
	if top {
		order = document.Categories()
	}

	node := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string) error {
		var val *yaml.Node
		fields, isMap := m[key].(map[string]any)
		if top && isMap && document.IsCategory(key) {
			var err error
			if val, err = mappingNode(fields, fieldNames(key)); err != nil {
				return err
			}
		} else {
			val = &yaml.Node{}
			if err := val.Encode(m[key]); err != nil {
				return errors.Wrapf(err, "encoding %s", key)
			}
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, val)
		return nil
	}

	seen := make(map[string]bool, len(m))
	for _, key := range order {
		if _, ok := m[key]; ok {
			seen[key] = true
			if err := add(key); err != nil {
				return nil, err
			}
		}
	}
	for _, key := range slices.Sorted(maps.Keys(m)) {
		if !seen[key] {
			if err := add(key); err != nil {
				return nil, err
			}
		}
	}
	return node, nil
}

func fieldNames(category string) []string {
	specs := document.FieldsOf(category)
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.ID.Field)
	}
	return names
}

func exportTOML(doc *document.Document) ([]byte, error) {
	m, err := tree(doc)
	if err != nil {
		return nil, err
	}
	dropNulls(m)

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(m); err != nil {
		return nil, errors.Wrap(err, "marshaling toml")
	}
	return buf.Bytes(), nil
}

func dropNulls(v any) {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			if e == nil {
				delete(v, k)
				continue
			}
			dropNulls(e)
		}
	case []any:
		for _, e := range v {
			dropNulls(e)
		}
	}
}

// formatTOMLError adds the row and column to TOML decode errors.
func formatTOMLError(err error) string {
	var decErr *toml.DecodeError
	if errors.As(err, &decErr) {
		row, col := decErr.Position()
		return fmt.Sprintf("TOML syntax error at line %d, column %d", row, col)
	}
	return "unmarshaling toml"
}
