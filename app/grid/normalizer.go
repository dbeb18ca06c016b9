package grid

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/maelbrgt/instagrid/app/notion"
)

// MaxPageSize caps the upstream page size regardless of what the caller asks
// for; the Notion query API rejects anything larger.
const MaxPageSize = 100

// Source is the upstream query interface. Satisfied by *notion.Client,
// replaced with a fake in tests.
type Source interface {
	QueryDatabase(ctx context.Context, databaseID string, pageSize int, startCursor string) (*notion.QueryResponse, error)
}

type Options struct {
	Aliases Aliases
	// StrictUntitled drops rows lacking a resolvable title instead of
	// defaulting the name to "Untitled".
	StrictUntitled bool
}

// Normalizer maps raw database rows into the ordered Item list plus filter
// facets. All translation rules live here: alias resolution, media
// extraction and merging, proxy rewriting, the no-media drop rule, and the
// pinned/date ordering.
type Normalizer struct {
	source         Source
	aliases        Aliases
	rewriter       *Rewriter
	strictUntitled bool
}

func NewNormalizer(source Source, rewriter *Rewriter, opts Options) *Normalizer {
	aliases := opts.Aliases
	if len(aliases.Media) == 0 {
		aliases = DefaultAliases()
	}
	return &Normalizer{
		source:         source,
		aliases:        aliases,
		rewriter:       rewriter,
		strictUntitled: opts.StrictUntitled,
	}
}

// Run fetches every page of the database sequentially (the upstream cursor
// protocol does not allow parallel iteration) and returns the normalized,
// sorted items with their facets. pageSize is clamped to 1..MaxPageSize.
func (n *Normalizer) Run(ctx context.Context, databaseID string, pageSize int) (*Result, error) {
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	var items []Item
	cursor := ""
	for {
		resp, err := n.source.QueryDatabase(ctx, databaseID, pageSize, cursor)
		if err != nil {
			return nil, fmt.Errorf("database query failed: %w", err)
		}

		for _, page := range resp.Results {
			item, ok := n.normalizeRecord(page)
			if !ok {
				continue
			}
			items = append(items, item)
		}

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	sortItems(items)

	slog.Debug("Normalized database rows", "database", databaseID, "items", len(items))

	return &Result{
		Items:  items,
		Facets: computeFacets(items),
	}, nil
}

// normalizeRecord maps one row into an Item. Shape anomalies are never
// errors: every logical field has a default, and only rows yielding no media
// at all are skipped.
func (n *Normalizer) normalizeRecord(page notion.Page) (Item, bool) {
	props := page.Properties

	item := Item{
		ID:   page.ID,
		Name: "Untitled",
	}

	named := false
	if prop, ok := resolveProperty(props, n.aliases.Name); ok && prop.Type == notion.TypeTitle {
		if name := plainTextOf(prop); name != "" {
			item.Name = name
			named = true
		}
	}

	if prop, ok := resolveProperty(props, n.aliases.Description); ok && prop.Type == notion.TypeRichText {
		item.Description = plainText(prop.RichText)
	}

	if prop, ok := resolveProperty(props, n.aliases.Status); ok && prop.Type == notion.TypeSelect && prop.Select != nil {
		item.Status = prop.Select.Name
	}

	if prop, ok := resolveProperty(props, n.aliases.Date); ok && prop.Type == notion.TypeDate && prop.Date != nil {
		item.Date = prop.Date.Start
	}

	if prop, ok := resolveProperty(props, n.aliases.Pinned); ok && prop.Type == notion.TypeCheckbox {
		item.Pinned = prop.Checkbox
	}

	if prop, ok := resolveProperty(props, n.aliases.Platforms); ok && prop.Type == notion.TypeMultiSelect {
		for _, opt := range prop.MultiSelect {
			if opt.Name != "" {
				item.Platforms = append(item.Platforms, opt.Name)
			}
		}
	}

	item.Media = n.collectMedia(props)
	if len(item.Media) == 0 {
		return Item{}, false
	}

	if !named && n.strictUntitled {
		return Item{}, false
	}

	return item, true
}

// collectMedia iterates every configured media column, concatenates all
// extracted URLs in column-then-within-column order, dedupes, then classifies
// and rewrites each. A single fallback column is tried if the merged list is
// empty.
func (n *Normalizer) collectMedia(props map[string]notion.Property) []MediaRef {
	var urls []string
	for _, column := range n.aliases.Media {
		prop, ok := props[column]
		if !ok {
			continue
		}
		urls = append(urls, mediaURLsFromProperty(prop)...)
	}
	if len(urls) == 0 {
		if prop, ok := props[fallbackMediaColumn]; ok {
			urls = mediaURLsFromProperty(prop)
		}
	}
	urls = dedupeURLs(urls)

	media := make([]MediaRef, 0, len(urls))
	for _, u := range urls {
		media = append(media, MediaRef{
			Type: classifyMedia(u),
			URL:  n.rewriter.Run(u),
		})
	}
	return media
}

func plainTextOf(prop notion.Property) string {
	switch prop.Type {
	case notion.TypeTitle:
		return plainText(prop.Title)
	case notion.TypeRichText:
		return plainText(prop.RichText)
	default:
		return ""
	}
}

// sortItems applies the total ordering: pinned items first, then date
// descending within each partition, dateless items trailing in upstream
// order. The ISO date strings compare lexicographically, which sidesteps
// timezone parsing entirely.
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		switch {
		case a.Date != "" && b.Date != "":
			return a.Date > b.Date
		case a.Date != "":
			return true
		default:
			return false
		}
	})
}

// computeFacets counts distinct status and platform values over the emitted
// items, so the filter UI reflects only rows that survived the no-media drop.
// A tag is counted once per item even if the row lists it twice.
func computeFacets(items []Item) Facets {
	facets := Facets{
		Statuses:  make(map[string]int),
		Platforms: make(map[string]int),
	}
	for _, item := range items {
		if item.Status != "" {
			facets.Statuses[item.Status]++
		}
		seen := make(map[string]struct{}, len(item.Platforms))
		for _, tag := range item.Platforms {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			facets.Platforms[tag]++
		}
	}
	return facets
}
