package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/office-pulse/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Option struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
}

type Catalog struct {
	OfficeTypes []Option `yaml:"office_types" json:"office_types"`
	Services    []Option `yaml:"services" json:"services"`
	Moods       []Option `yaml:"moods" json:"moods"`

	officeTypes map[string]bool
	services    map[string]bool
	moods       map[string]bool
}

// Default returns the catalog compiled into the binary
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file; an empty path means the embedded default
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(b)
}

func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(c.OfficeTypes) == 0 {
		return nil, errors.New("catalog: no office types")
	}
	if len(c.Services) == 0 {
		return nil, errors.New("catalog: no services")
	}

	var err error
	if c.officeTypes, err = index("office_types", c.OfficeTypes); err != nil {
		return nil, err
	}
	if c.services, err = index("services", c.Services); err != nil {
		return nil, err
	}
	if c.moods, err = index("moods", c.Moods); err != nil {
		return nil, err
	}
	if !c.services[models.ServiceOther] {
		return nil, fmt.Errorf("catalog: services must include %q", models.ServiceOther)
	}
	return &c, nil
}

func index(section string, opts []Option) (map[string]bool, error) {
	m := make(map[string]bool, len(opts))
	for _, o := range opts {
		if o.ID == "" {
			return nil, fmt.Errorf("catalog: empty id in %s", section)
		}
		if m[o.ID] {
			return nil, fmt.Errorf("catalog: duplicate id %q in %s", o.ID, section)
		}
		m[o.ID] = true
	}
	return m, nil
}

func (c *Catalog) HasOfficeType(id string) bool { return c.officeTypes[id] }
func (c *Catalog) HasService(id string) bool    { return c.services[id] }

// HasMood reports whether id is a known mood. A catalog without moods
// accepts any value.
func (c *Catalog) HasMood(id string) bool {
	if len(c.moods) == 0 {
		return true
	}
	return c.moods[id]
}
