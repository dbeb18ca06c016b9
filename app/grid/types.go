package grid

// Normalized item types

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type MediaRef struct {
	Type MediaType
	URL  string
}

// Item is the render-ready representation of one database row. Items are
// built fresh per request and never mutated after construction. An Item
// always carries at least one MediaRef; rows without usable media are dropped
// during normalization.
type Item struct {
	ID          string
	Name        string
	Description string
	Status      string
	Date        string // ISO-8601, used only for ordering; empty if absent
	Pinned      bool
	Platforms   []string
	Media       []MediaRef
}

// Facets are per-item occurrence counts of the filterable attributes,
// computed over the items that survived normalization.
type Facets struct {
	Statuses  map[string]int
	Platforms map[string]int
}

type Result struct {
	Items  []Item
	Facets Facets
}

// Aliases holds the ordered candidate column names for each logical field,
// most-preferred first. Resolution is name-exact; keeping the lists as data
// means new deployments only add entries here (or in the override file).
type Aliases struct {
	Name        []string `yaml:"name"`
	Description []string `yaml:"description"`
	Status      []string `yaml:"status"`
	Date        []string `yaml:"date"`
	Pinned      []string `yaml:"pinned"`
	Platforms   []string `yaml:"platforms"`
	Media       []string `yaml:"media"`
}
