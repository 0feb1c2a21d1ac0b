package catalog

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// ShapeError describes the first place a catalog document departs from
// {stt: [{name, value, models: [{name, value, languages: [{name, value}]}]}]}.
type ShapeError struct {
	Path   string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("catalog: %s: %s", e.Path, e.Reason)
}

// Parse validates data against the catalog shape and builds the tree.
// Unknown extra fields are ignored.
func Parse(data []byte) (*Catalog, error) {
	if !gjson.ValidBytes(data) {
		return nil, &ShapeError{Path: "$", Reason: "invalid JSON"}
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, &ShapeError{Path: "$", Reason: "expected object"}
	}

	stt := root.Get("stt")
	if !stt.IsArray() {
		return nil, &ShapeError{Path: "stt", Reason: "expected array"}
	}

	c := &Catalog{}
	seen := make(map[string]bool)
	for i, pv := range stt.Array() {
		path := fmt.Sprintf("stt.%d", i)
		name, value, err := entry(pv, path)
		if err != nil {
			return nil, err
		}
		if seen[value] {
			return nil, &ShapeError{Path: path + ".value", Reason: fmt.Sprintf("duplicate key %q", value)}
		}
		seen[value] = true

		models, err := parseModels(pv.Get("models"), path+".models")
		if err != nil {
			return nil, err
		}
		c.Providers = append(c.Providers, Provider{Name: name, Value: value, Models: models})
	}
	return c, nil
}

func parseModels(list gjson.Result, path string) ([]Model, error) {
	if !list.IsArray() {
		return nil, &ShapeError{Path: path, Reason: "expected array"}
	}

	var models []Model
	seen := make(map[string]bool)
	for i, mv := range list.Array() {
		p := fmt.Sprintf("%s.%d", path, i)
		name, value, err := entry(mv, p)
		if err != nil {
			return nil, err
		}
		if seen[value] {
			return nil, &ShapeError{Path: p + ".value", Reason: fmt.Sprintf("duplicate key %q", value)}
		}
		seen[value] = true

		langs, err := parseLanguages(mv.Get("languages"), p+".languages")
		if err != nil {
			return nil, err
		}
		models = append(models, Model{Name: name, Value: value, Languages: langs})
	}
	return models, nil
}

func parseLanguages(list gjson.Result, path string) ([]Language, error) {
	if !list.IsArray() {
		return nil, &ShapeError{Path: path, Reason: "expected array"}
	}

	var langs []Language
	seen := make(map[string]bool)
	for i, lv := range list.Array() {
		p := fmt.Sprintf("%s.%d", path, i)
		name, value, err := entry(lv, p)
		if err != nil {
			return nil, err
		}
		if seen[value] {
			return nil, &ShapeError{Path: p + ".value", Reason: fmt.Sprintf("duplicate key %q", value)}
		}
		seen[value] = true
		langs = append(langs, Language{Name: name, Value: value})
	}
	return langs, nil
}

// entry checks that v is an object with non-empty string name and value.
func entry(v gjson.Result, path string) (string, string, error) {
	if !v.IsObject() {
		return "", "", &ShapeError{Path: path, Reason: "expected object"}
	}
	name, err := str(v, path, "name")
	if err != nil {
		return "", "", err
	}
	value, err := str(v, path, "value")
	if err != nil {
		return "", "", err
	}
	return name, value, nil
}

func str(v gjson.Result, path, field string) (string, error) {
	f := v.Get(field)
	if !f.Exists() {
		return "", &ShapeError{Path: path + "." + field, Reason: "missing"}
	}
	if f.Type != gjson.String {
		return "", &ShapeError{Path: path + "." + field, Reason: "expected string"}
	}
	if f.Str == "" {
		return "", &ShapeError{Path: path + "." + field, Reason: "empty"}
	}
	return f.Str, nil
}
