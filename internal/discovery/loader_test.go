package discovery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"simple/internal/domain"
	"simple/internal/logging"
)

func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("failed to create dir for %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create file %s: %v", rel, err)
	}
	return full
}

func emptyClass(name string) domain.Definition {
	return domain.Definition{
		Name: name,
		New: func(domain.ClassProperties) (domain.Suite, error) {
			return domain.NewSuite(nil, nil, nil), nil
		},
	}
}

func TestLoader_Load(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"unit/cart.go",
		"unit/nested/order.go",
		"integration/payment.go",
		"vendor/lib.go",
		".git/config",
		"README.md",
		"unit/not_a_class.go",
	}
	for _, f := range files {
		writeFile(t, tmpDir, f, "package tests")
	}

	registry := NewRegistry()
	registry.Register("unit/cart.go", emptyClass("CartTest"))
	registry.Register("unit/nested/order.go", emptyClass("OrderTest"))
	registry.Register("integration/payment.go", emptyClass("PaymentTest"))
	registry.Register("vendor/lib.go", emptyClass("VendoredTest"))
	registry.Register(".git/config", emptyClass("HiddenTest"))
	registry.Register("unit/not_a_class.go", domain.Definition{Name: "NoConstructor"})

	loader := NewLoader([]string{"vendor"}, registry, logging.NewNop())

	t.Run("finds registered classes", func(t *testing.T) {
		defs, err := loader.Load(tmpDir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(defs) != 3 {
			t.Fatalf("expected 3 classes, got %d", len(defs))
		}
		names := map[string]bool{}
		for _, d := range defs {
			names[d.Name] = true
			if d.Source == "" {
				t.Errorf("expected source to be set for %s", d.Name)
			}
		}
		for _, want := range []string{"CartTest", "OrderTest", "PaymentTest"} {
			if !names[want] {
				t.Errorf("expected to find %s", want)
			}
		}
	})

	t.Run("returns ErrNotFound for non-existent directory", func(t *testing.T) {
		_, err := loader.Load(filepath.Join(tmpDir, "missing"))
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("returns error for file instead of directory", func(t *testing.T) {
		_, err := loader.Load(filepath.Join(tmpDir, "README.md"))
		if err == nil {
			t.Error("expected error for file path")
		}
	})
}

func TestLoader_SkipsUnresolvableFiles(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "broken.suite.yaml", "name: [unclosed")
	writeFile(t, tmpDir, "ok.suite.yaml", "name: OkTest\ntests:\n  - name: works\n    run: \"true\"\n")

	loader := NewLoader(nil, NewManifestResolver(), logging.NewNop())
	defs, err := loader.Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "OkTest" {
		t.Errorf("expected only OkTest, got %+v", defs)
	}
}

func TestChainResolver(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "a.suite.yaml", "tests: []\n")
	writeFile(t, tmpDir, "b.go", "package b")

	registry := NewRegistry()
	registry.Register("b.go", emptyClass("BTest"))

	loader := NewLoader(nil, ChainResolver{NewManifestResolver(), registry}, logging.NewNop())
	defs, err := loader.Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(defs))
	}
	names := map[string]bool{defs[0].Name: true, defs[1].Name: true}
	if !names["a"] || !names["BTest"] {
		t.Errorf("expected classes a and BTest, got %v", names)
	}
}
