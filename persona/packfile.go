package persona

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Pack is an on-disk catalog overlay. Entries with a key matching a built-in
// replace it; new keys are appended in file order. Packs are applied once at
// startup; the registry stays immutable afterwards.
type Pack struct {
	Personas []Definition `yaml:"personas"`
	Cultures []Culture    `yaml:"cultures"`
	Styles   []Style      `yaml:"styles"`
}

// LoadPack reads a YAML persona pack from path.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read persona pack: %w", err)
	}
	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, fmt.Errorf("parse persona pack %s: %w", path, err)
	}
	if err := pack.validate(); err != nil {
		return nil, fmt.Errorf("persona pack %s: %w", path, err)
	}
	return &pack, nil
}

func (p *Pack) validate() error {
	for _, d := range p.Personas {
		if d.Key == "" || d.Name == "" {
			return fmt.Errorf("persona entry missing key or name")
		}
	}
	for _, c := range p.Cultures {
		if c.Key == "" || c.Name == "" {
			return fmt.Errorf("culture entry missing key or name")
		}
	}
	for _, s := range p.Styles {
		if s.Key == "" || s.Name == "" {
			return fmt.Errorf("style entry missing key or name")
		}
		if s.Temperature <= 0 || s.TopP <= 0 {
			return fmt.Errorf("style %s: temperature and top_p must be positive", s.Key)
		}
	}
	return nil
}

// Apply merges the pack into the registry. Call before sharing the registry
// across goroutines.
func (r *Registry) Apply(pack *Pack) {
	for _, d := range pack.Personas {
		r.addPersona(d)
	}
	for _, c := range pack.Cultures {
		r.addCulture(c)
	}
	for _, s := range pack.Styles {
		r.addStyle(s)
	}
}
