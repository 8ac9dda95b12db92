// Package optfile provides the persisted option-file loader.
package optfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.trai.ch/dirigent/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.OptionFileLoader = (*Loader)(nil)

// DefaultFilename is the option file read when none is given.
const DefaultFilename = "dirigent.yaml"

// Loader implements ports.OptionFileLoader using a YAML file: a mapping from
// fully-qualified option name to value. Nested mappings are flattened with
// "/" separators, so both spellings are equivalent:
//
//	sdk-root: /opt/sdk
//	openssh/baremetal: true
//	wayland:
//	  meson-options: [-Ddocumentation=false]
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads the option file at path. A missing file yields an empty map.
func (l *Loader) Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read option file"), "path", path)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse option file"), "path", path)
	}

	values := make(map[string]string, len(raw))
	flattenInto(values, "", raw)
	return values, nil
}

// flattenInto walks nested mappings, joining key segments with "/".
func flattenInto(out map[string]string, prefix string, mapping map[string]any) {
	for key, value := range mapping {
		qualified := key
		if prefix != "" {
			qualified = prefix + "/" + key
		}
		if nested, ok := value.(map[string]any); ok {
			flattenInto(out, qualified, nested)
			continue
		}
		out[qualified] = flatten(value)
	}
}

// flatten renders a YAML scalar or sequence as the raw override string the
// option registry parses: scalars verbatim, sequences comma separated.
func flatten(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		out := ""
		for i, item := range v {
			if i > 0 {
				out += ","
			}
			out += flatten(item)
		}
		return out
	default:
		return fmt.Sprintf("%v", v)
	}
}
