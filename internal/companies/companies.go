// Package companies loads the set of taxpayers whose e-Factura inbox is synced.
package companies

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	defaultDays = 60
	maxDays     = 60
)

var cifPattern = regexp.MustCompile(`^[0-9]{2,10}$`)

// Company is one taxpayer entry declared in the companies file.
type Company struct {
	CIF     string `json:"cif" yaml:"cif"`
	Name    string `json:"name" yaml:"name"`
	Days    int    `json:"days" yaml:"days"`
	Filter  string `json:"filter" yaml:"filter"`
	Enabled *bool  `json:"enabled" yaml:"enabled"`
}

// EnabledValue returns the enabled flag defaulting to true.
func (c Company) EnabledValue() bool {
	if c.Enabled == nil {
		return true
	}
	return *c.Enabled
}

type fileRegistry struct {
	Companies []Company `json:"companies" yaml:"companies"`
}

// Registry holds the validated companies keyed by CIF.
type Registry struct {
	mu        sync.RWMutex
	companies []Company
	idx       map[string]Company
}

// LoadRegistry loads the companies registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("companies file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open companies file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read companies file: %w", err)
	}

	fileReg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Companies) == 0 {
		return nil, errors.New("companies file contains no companies entries")
	}

	reg := &Registry{
		companies: make([]Company, 0, len(fileReg.Companies)),
		idx:       make(map[string]Company, len(fileReg.Companies)),
	}
	for i := range fileReg.Companies {
		c := sanitizeCompany(fileReg.Companies[i])
		if err := validateCompany(c); err != nil {
			return nil, fmt.Errorf("companies[%d]: %w", i, err)
		}
		if _, exists := reg.idx[c.CIF]; exists {
			return nil, fmt.Errorf("duplicate company cif %q", c.CIF)
		}
		reg.companies = append(reg.companies, c)
		reg.idx[c.CIF] = c
	}

	return reg, nil
}

func parseRegistry(data []byte, ext string) (fileRegistry, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return fileRegistry{}, errors.New("companies file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (fileRegistry, error) {
	var reg fileRegistry
	if err := fn(data, &reg); err != nil {
		return fileRegistry{}, fmt.Errorf("decode %s companies: %w", name, err)
	}
	return reg, nil
}

func sanitizeCompany(c Company) Company {
	c.CIF = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(c.CIF)), "RO")
	c.Name = strings.TrimSpace(c.Name)
	c.Filter = strings.ToUpper(strings.TrimSpace(c.Filter))

	if c.Days <= 0 {
		c.Days = defaultDays
	}
	if c.Enabled == nil {
		def := true
		c.Enabled = &def
	}
	return c
}

func validateCompany(c Company) error {
	if c.CIF == "" {
		return errors.New("cif is required")
	}
	if !cifPattern.MatchString(c.CIF) {
		return fmt.Errorf("cif %q is not numeric", c.CIF)
	}
	if c.Days > maxDays {
		return fmt.Errorf("days for company %q must be at most %d", c.CIF, maxDays)
	}
	switch c.Filter {
	case "", "E", "T", "P", "R":
	default:
		return fmt.Errorf("filter %q for company %q is not one of E, T, P, R", c.Filter, c.CIF)
	}
	return nil
}

// ByCIF returns the company registered for cif.
func (r *Registry) ByCIF(cif string) (Company, bool) {
	if r == nil {
		return Company{}, false
	}
	cif = strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(cif)), "RO")

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.idx[cif]
	return c, ok
}

// All returns a copy of every configured company.
func (r *Registry) All() []Company {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Company, len(r.companies))
	copy(out, r.companies)
	return out
}

// Enabled returns the companies that are enabled.
func (r *Registry) Enabled() []Company {
	all := r.All()
	out := make([]Company, 0, len(all))
	for _, c := range all {
		if c.EnabledValue() {
			out = append(out, c)
		}
	}
	return out
}
