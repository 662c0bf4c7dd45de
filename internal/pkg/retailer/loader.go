package retailer

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type registryFile struct {
	Retailers []Retailer `yaml:"retailers"`
}

// LoadFile returns the builtin registry overlaid with the retailers
// declared in the given YAML file. Entries sharing a key with a
// builtin replace it. An empty path returns the builtins unchanged.
func LoadFile(path string) (*Registry, error) {
	if path == "" {
		return Builtin(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read retailers file %s failed", path)
	}
	var f registryFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrapf(err, "parse retailers file %s failed", path)
	}

	merged := map[string]Retailer{}
	for _, r := range Builtin().All() {
		merged[r.Key] = r
	}
	for _, r := range f.Retailers {
		merged[r.Key] = r
	}
	all := make([]Retailer, 0, len(merged))
	for _, r := range merged {
		all = append(all, r)
	}
	reg, err := NewRegistry(all...)
	if err != nil {
		return nil, errors.Wrapf(err, "build registry from %s failed", path)
	}
	return reg, nil
}
