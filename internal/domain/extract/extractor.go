package extract

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/545426946/travel-planning2.0-sub000/internal/domain/gazetteer"
)

// maxCandidates caps the extractor output; itineraries beyond 15 stops are
// not useful route inputs.
const maxCandidates = 15

// strategy is one extraction technique returning raw candidate strings in
// first-occurrence order. Keeping the four techniques as independent
// functions keeps each one testable on its own.
type strategy func(text string) []string

// Extractor scans itinerary prose for attraction name candidates.
type Extractor struct {
	logger     *slog.Logger
	gaz        *gazetteer.Gazetteer
	strategies []strategy
}

func NewExtractor(gaz *gazetteer.Gazetteer, logger *slog.Logger) *Extractor {
	e := &Extractor{
		logger: logger,
		gaz:    gaz,
	}
	e.strategies = []strategy{
		e.dictionaryScan,
		e.suffixScan,
		e.verbScan,
		e.quoteScan,
	}
	return e
}

// Extract returns up to maxCandidates deduplicated attraction name
// candidates from text, ordered by first encounter across all strategies.
// An empty result is a legitimate outcome, not an error: the text simply
// names no concrete place.
func (e *Extractor) Extract(ctx context.Context, text, city string) []string {
	_, span := otel.Tracer("Extractor").Start(ctx, "Extract", trace.WithAttributes(
		attribute.String("city", city),
	))
	defer span.End()

	seen := make(map[string]bool)
	var candidates []string
	for _, s := range e.strategies {
		for _, name := range s(text) {
			if seen[name] {
				continue
			}
			seen[name] = true
			candidates = append(candidates, name)
		}
	}

	result := dedupeBySubstring(candidates)
	if len(result) > maxCandidates {
		result = result[:maxCandidates]
	}

	e.logger.InfoContext(ctx, "extraction complete",
		slog.String("city", city),
		slog.Int("raw_candidates", len(candidates)),
		slog.Int("candidates", len(result)))
	span.SetAttributes(attribute.Int("candidates.count", len(result)))

	return result
}

// dictionaryScan surfaces gazetteer names appearing verbatim in the text.
// The gazetteer's leftmost-longest automaton already prevents a short name
// from winning before a longer one that contains it.
func (e *Extractor) dictionaryScan(text string) []string {
	return e.gaz.ScanText(text)
}

// suffixScan matches CJK runs ending in an attraction-type suffix. A match
// that cannot be tied to some gazetteer entry is discarded here, not left
// for resolution to fail later.
func (e *Extractor) suffixScan(text string) []string {
	var out []string
	for _, re := range suffixPatterns {
		for _, m := range re.FindAllString(text, -1) {
			if !isValidName(m) {
				continue
			}
			if name, ok := e.canonicalize(m); ok {
				out = append(out, name)
			}
		}
	}
	return out
}

// verbScan captures the object of visit/go-to/experience verbs.
func (e *Extractor) verbScan(text string) []string {
	var out []string
	for _, m := range visitVerbPattern.FindAllStringSubmatch(text, -1) {
		if !isValidName(m[1]) {
			continue
		}
		if name, ok := e.canonicalize(m[1]); ok {
			out = append(out, name)
		}
	}
	return out
}

// quoteScan captures text enclosed in quote-mark pairs.
func (e *Extractor) quoteScan(text string) []string {
	var out []string
	for _, re := range quotePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if !isValidName(m[1]) {
				continue
			}
			if name, ok := e.canonicalize(m[1]); ok {
				out = append(out, name)
			}
		}
	}
	return out
}

// canonicalize ties a raw candidate to a gazetteer entry (exact match,
// containment in either direction, or the same checks with attraction-type
// suffixes stripped) and returns the entry's canonical spelling. Regex
// captures routinely drag in a verb or time-of-day prefix from the
// surrounding prose; mapping to the canonical name sheds that prefix and
// lets dedup collapse the variants.
func (e *Extractor) canonicalize(raw string) (string, bool) {
	if _, ok := e.gaz.Lookup(raw); ok {
		return raw, true
	}
	if entry, ok := e.gaz.LookupFuzzy(raw); ok {
		return entry.Name, true
	}
	for _, suffix := range attractionSuffixes {
		stripped, ok := strings.CutSuffix(raw, suffix)
		if !ok || utf8.RuneCountInString(stripped) < 2 {
			continue
		}
		if entry, ok := e.gaz.LookupFuzzy(stripped); ok {
			return entry.Name, true
		}
	}
	return "", false
}

// isValidName is the shared validity policy: 2-20 runes, at least one CJK
// character, and none of the scheduling/logistics stopwords.
func isValidName(name string) bool {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 20 {
		return false
	}
	hasHan := false
	for _, r := range name {
		if unicode.Is(unicode.Han, r) {
			hasHan = true
			break
		}
	}
	if !hasHan {
		return false
	}
	for _, sw := range stopwords {
		if strings.Contains(name, sw) {
			return false
		}
	}
	return true
}

// dedupeBySubstring keeps a candidate only if no longer kept candidate
// contains it, collapsing the same place surfaced by different strategies
// into its single most specific form. Output preserves the input's
// first-encounter order. The operation is idempotent.
func dedupeBySubstring(candidates []string) []string {
	if len(candidates) <= 1 {
		return append([]string(nil), candidates...)
	}

	byLength := append([]string(nil), candidates...)
	sort.SliceStable(byLength, func(i, j int) bool {
		return utf8.RuneCountInString(byLength[i]) > utf8.RuneCountInString(byLength[j])
	})

	var kept []string
	for _, name := range byLength {
		contained := false
		for _, longer := range kept {
			if strings.Contains(longer, name) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, name)
		}
	}

	keep := make(map[string]bool, len(kept))
	for _, name := range kept {
		keep[name] = true
	}
	var out []string
	for _, name := range candidates {
		if keep[name] {
			out = append(out, name)
		}
	}
	return out
}
