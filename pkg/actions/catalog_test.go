package actions

import (
	"sort"
	"testing"
)

func TestCatalogSize(t *testing.T) {
	if len(Catalog) != 30 {
		t.Fatalf("catalog has %d entries, want 30", len(Catalog))
	}
}

func TestCatalogKnownEntries(t *testing.T) {
	for _, name := range []string{"forward", "wag tail", "bark", "sit", "handshake"} {
		if !Exists(name) {
			t.Errorf("Exists(%q) = false, want true", name)
		}
	}
	if Exists("fly away") {
		t.Error(`Exists("fly away") = true, want false`)
	}
}

func TestCatalogNamesMatchKeys(t *testing.T) {
	for key, desc := range Catalog {
		if key != desc.Name {
			t.Errorf("catalog key %q does not match descriptor name %q", key, desc.Name)
		}
	}
}

func TestNamesSorted(t *testing.T) {
	names := Names()
	if len(names) != len(Catalog) {
		t.Fatalf("Names returned %d entries, want %d", len(names), len(Catalog))
	}
	if !sort.StringsAreSorted(names) {
		t.Error("Names is not sorted")
	}
}

func TestListOrderMatchesNames(t *testing.T) {
	list := List()
	names := Names()
	for i, desc := range list {
		if desc.Name != names[i] {
			t.Fatalf("List[%d] = %q, want %q", i, desc.Name, names[i])
		}
	}
}
