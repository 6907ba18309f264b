package companies

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write companies file: %v", err)
	}
	return path
}

func TestLoadRegistryYAML(t *testing.T) {
	path := writeFile(t, "companies.yaml", `
companies:
  - cif: RO8000000000
    name: Exemplu SRL
    days: 30
    filter: p
  - cif: "12345678"
    name: Disabled SA
    enabled: false
`)

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry returned error: %v", err)
	}
	if len(reg.All()) != 2 {
		t.Fatalf("expected 2 companies, got %d", len(reg.All()))
	}

	c, ok := reg.ByCIF("RO8000000000")
	if !ok {
		t.Fatalf("expected cif 8000000000 to be loaded")
	}
	if c.CIF != "8000000000" || c.Days != 30 || c.Filter != "P" {
		t.Fatalf("unexpected company %#v", c)
	}

	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].CIF != "8000000000" {
		t.Fatalf("expected only 8000000000 enabled, got %#v", enabled)
	}

	disabled, _ := reg.ByCIF("12345678")
	if disabled.Days != defaultDays {
		t.Fatalf("expected default days, got %d", disabled.Days)
	}
}

func TestLoadRegistryJSON(t *testing.T) {
	path := writeFile(t, "companies.json", `{"companies":[{"cif":"123","name":"A"}]}`)
	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if len(reg.Enabled()) != 1 {
		t.Fatalf("expected 1 enabled company")
	}
}

func TestLoadRegistryDuplicateCIF(t *testing.T) {
	path := writeFile(t, "companies.yaml", `
companies:
  - cif: "123"
  - cif: RO123
`)
	if _, err := LoadRegistry(path); err == nil {
		t.Fatalf("expected duplicate company error, got nil")
	}
}

func TestLoadRegistryRejectsInvalidEntries(t *testing.T) {
	cases := []string{
		"companies:\n  - name: no cif\n",
		"companies:\n  - cif: abc\n",
		"companies:\n  - cif: \"1\"\n",
		"companies:\n  - cif: \"123\"\n    days: 90\n",
		"companies:\n  - cif: \"123\"\n    filter: X\n",
		"companies: []\n",
	}
	for _, content := range cases {
		if _, err := LoadRegistry(writeFile(t, "companies.yaml", content)); err == nil {
			t.Errorf("expected error for %q", content)
		}
	}
	if _, err := LoadRegistry(" "); err == nil {
		t.Errorf("expected error for empty path")
	}
}
