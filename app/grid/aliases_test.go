package grid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maelbrgt/instagrid/app/notion"
)

func TestResolveProperty_FirstCandidateWins(t *testing.T) {
	props := map[string]notion.Property{
		"Statut": {Type: notion.TypeSelect, Select: &notion.SelectOption{Name: "Brouillon"}},
		"Status": {Type: notion.TypeSelect, Select: &notion.SelectOption{Name: "Published"}},
	}

	prop, ok := resolveProperty(props, DefaultAliases().Status)
	if !ok {
		t.Fatal("Expected a match")
	}
	if prop.Select.Name != "Published" {
		t.Errorf("Expected value under first-listed alias 'Status', got %q", prop.Select.Name)
	}
}

func TestResolveProperty_NotFound(t *testing.T) {
	props := map[string]notion.Property{
		"Something": {Type: notion.TypeURL, URL: "https://example.com"},
	}

	if _, ok := resolveProperty(props, []string{"Status", "Statut"}); ok {
		t.Error("Expected no match for absent candidates")
	}
}

func TestResolveProperty_NameExact(t *testing.T) {
	// No case folding: "status" must not match "Status".
	props := map[string]notion.Property{
		"status": {Type: notion.TypeSelect, Select: &notion.SelectOption{Name: "Draft"}},
	}

	if _, ok := resolveProperty(props, []string{"Status"}); ok {
		t.Error("Resolution should be name-exact, lowercase column matched")
	}
}

func TestLoadAliases_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aliases.yml")
	content := "status:\n  - Zustand\nmedia:\n  - Bilder\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	aliases, err := LoadAliases(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(aliases.Status) != 1 || aliases.Status[0] != "Zustand" {
		t.Errorf("Expected status list replaced by override, got %v", aliases.Status)
	}
	if len(aliases.Media) != 1 || aliases.Media[0] != "Bilder" {
		t.Errorf("Expected media list replaced by override, got %v", aliases.Media)
	}
	// Untouched lists keep defaults
	if len(aliases.Name) == 0 || aliases.Name[0] != "Name" {
		t.Errorf("Expected default name aliases preserved, got %v", aliases.Name)
	}
}

func TestLoadAliases_MissingFile(t *testing.T) {
	if _, err := LoadAliases(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("Expected error for missing file")
	}
}
