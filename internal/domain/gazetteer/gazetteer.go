package gazetteer

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	a "github.com/petar-dambovaliev/aho-corasick"

	"github.com/545426946/travel-planning2.0-sub000/internal/types"
)

//go:embed data/attractions.json
var embeddedAttractions []byte

// Gazetteer is the curated attraction dataset, loaded once at startup and
// shared read-only across sessions. Insertion order of the dataset is
// preserved: fuzzy lookup iterates it in order and the first match wins.
type Gazetteer struct {
	logger  *slog.Logger
	names   []string
	entries map[string]types.GazetteerEntry
	matcher a.AhoCorasick
}

// New builds a gazetteer from the given entries. Names must be unique.
func New(entries []types.GazetteerEntry, logger *slog.Logger) (*Gazetteer, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("gazetteer dataset is empty")
	}

	g := &Gazetteer{
		logger:  logger,
		names:   make([]string, 0, len(entries)),
		entries: make(map[string]types.GazetteerEntry, len(entries)),
	}
	for _, e := range entries {
		if e.Name == "" {
			return nil, fmt.Errorf("gazetteer entry with empty name")
		}
		if _, dup := g.entries[e.Name]; dup {
			return nil, fmt.Errorf("duplicate gazetteer entry %q", e.Name)
		}
		g.names = append(g.names, e.Name)
		g.entries[e.Name] = e
	}

	// Leftmost-longest so a short name never wins over a longer, more
	// specific name that contains it.
	builder := a.NewAhoCorasickBuilder(a.Opts{
		MatchOnlyWholeWords: false,
		MatchKind:           a.LeftMostLongestMatch,
		DFA:                 true,
	})
	g.matcher = builder.Build(g.names)

	logger.Info("gazetteer loaded", slog.Int("entries", len(g.names)))
	return g, nil
}

// NewFromEmbedded loads the dataset shipped with the binary.
func NewFromEmbedded(logger *slog.Logger) (*Gazetteer, error) {
	var entries []types.GazetteerEntry
	if err := json.Unmarshal(embeddedAttractions, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse embedded attraction dataset: %w", err)
	}
	return New(entries, logger)
}

// Len reports the number of entries.
func (g *Gazetteer) Len() int {
	return len(g.names)
}

// Lookup returns the entry whose name equals the given name exactly.
func (g *Gazetteer) Lookup(name string) (types.GazetteerEntry, bool) {
	e, ok := g.entries[name]
	return e, ok
}

// LookupFuzzy returns the first entry (in dataset order) whose name contains
// the given name or is contained by it. Single-rune keys and queries are
// excluded to keep containment meaningful.
func (g *Gazetteer) LookupFuzzy(name string) (types.GazetteerEntry, bool) {
	if utf8.RuneCountInString(name) < 2 {
		return types.GazetteerEntry{}, false
	}
	for _, key := range g.names {
		if utf8.RuneCountInString(key) < 2 {
			continue
		}
		if containsEither(key, name) {
			return g.entries[key], true
		}
	}
	return types.GazetteerEntry{}, false
}

// ScanText returns every gazetteer name appearing in text as a substring, in
// first-occurrence order, without duplicates.
func (g *Gazetteer) ScanText(text string) []string {
	matches := g.matcher.FindAll(text)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	found := make([]string, 0, len(matches))
	for _, m := range matches {
		name := g.names[m.Pattern()]
		if seen[name] {
			continue
		}
		seen[name] = true
		found = append(found, name)
	}
	return found
}

func containsEither(key, name string) bool {
	return strings.Contains(key, name) || strings.Contains(name, key)
}
