package bbcode

import (
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadParams decodes a YAML (or JSON) mapping into Params. An empty document
// yields empty Params.
func LoadParams(r io.Reader) (Params, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParamsError{Cause: err}
	}
	return decodeParams(data, "")
}

// LoadParamsFile reads params from a YAML or JSON file.
func LoadParamsFile(path string) (Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParamsError{Source: path, Cause: err}
	}
	return decodeParams(data, path)
}

func decodeParams(data []byte, source string) (Params, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParamsError{Source: source, Cause: err}
	}
	if raw == nil {
		return Params{}, nil
	}
	return NewParams(raw), nil
}

// UnmarshalYAML decodes a YAML mapping into Params.
func (p *Params) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]interface{}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*p = NewParams(raw)
	return nil
}
