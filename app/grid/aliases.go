package grid

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/maelbrgt/instagrid/app/notion"
)

// fallbackMediaColumn is tried as a last resort when none of the configured
// media columns yielded a URL.
const fallbackMediaColumn = "Image"

// DefaultAliases covers the column names seen across EN/FR deployments. No
// case folding or diacritic normalization is applied; a column named "statut"
// (lowercase) will not match "Statut". Known limitation, kept deliberate.
func DefaultAliases() Aliases {
	return Aliases{
		Name:        []string{"Name", "Titre du post", "Titre", "Post", "Nom"},
		Description: []string{"Description", "Desc", "Texte", "Content", "Body"},
		Status:      []string{"Status", "Statut"},
		Date:        []string{"Date", "Publish Date", "Post Date"},
		Pinned:      []string{"Pinned", "Épingler", "Épinglé", "Epingle"},
		Platforms:   []string{"Platforms", "Plateformes", "Social", "Réseaux", "Reseaux", "Réseau", "Platform"},
		Media: []string{
			"Image", "Images", "Visuel", "Visuels", "Media", "Médias", "Gallery", "Galerie", "Carousel",
			"Image URL", "Image URLs", "URL", "URLs", "Lien", "Liens", "Video", "Vidéos",
		},
	}
}

// LoadAliases reads an override file and merges it over the defaults. Only
// non-empty lists in the file replace the corresponding default list, so a
// partial override is fine.
func LoadAliases(path string) (Aliases, error) {
	aliases := DefaultAliases()

	data, err := os.ReadFile(path)
	if err != nil {
		return aliases, fmt.Errorf("failed to read aliases file: %w", err)
	}

	var override Aliases
	if err := yaml.Unmarshal(data, &override); err != nil {
		return aliases, fmt.Errorf("failed to parse aliases file: %w", err)
	}

	if len(override.Name) > 0 {
		aliases.Name = override.Name
	}
	if len(override.Description) > 0 {
		aliases.Description = override.Description
	}
	if len(override.Status) > 0 {
		aliases.Status = override.Status
	}
	if len(override.Date) > 0 {
		aliases.Date = override.Date
	}
	if len(override.Pinned) > 0 {
		aliases.Pinned = override.Pinned
	}
	if len(override.Platforms) > 0 {
		aliases.Platforms = override.Platforms
	}
	if len(override.Media) > 0 {
		aliases.Media = override.Media
	}

	return aliases, nil
}

// resolveProperty returns the value under the first candidate name present in
// the row. Absence is not an error; callers substitute the documented default
// for the logical field.
func resolveProperty(props map[string]notion.Property, candidates []string) (notion.Property, bool) {
	for _, name := range candidates {
		if prop, ok := props[name]; ok {
			return prop, true
		}
	}
	return notion.Property{}, false
}
