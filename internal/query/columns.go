package query

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/j-veylop/material-forecast-tui/internal/models"
)

// synonyms maps free-text column hints to canonical columns.
var synonyms = map[string]models.Column{
	"unitcost":       models.ColUnitCost,
	"unit cost":      models.ColUnitCost,
	"unit price":     models.ColUnitCost,
	"price":          models.ColUnitCost,
	"price per unit": models.ColUnitCost,

	"qtyshipped":       models.ColQtyShipped,
	"qty shipped":      models.ColQtyShipped,
	"quantity shipped": models.ColQtyShipped,
	"quantity":         models.ColQtyShipped,
	"qty":              models.ColQtyShipped,

	"totalcost":  models.ColTotalCost,
	"total cost": models.ColTotalCost,
	"cost":       models.ColTotalCost,
	"spend":      models.ColTotalCost,
}

// reserved words carry intent and are never fuzzy-matched to a column.
var reserved = map[string]bool{
	"average": true, "calculated": true, "compare": true, "display": true,
	"expensive": true, "highest": true, "items": true, "largest": true,
	"least": true, "lowest": true, "masteritemno": true, "maximum": true,
	"minimum": true, "record": true, "records": true, "shipments": true,
	"smallest": true, "which": true, "where": true, "total": true,
	"quality": true, "speed": true,
}

// minFuzzyLen is the shortest token, and the shortest synonym key, considered
// for fuzzy resolution.
const minFuzzyLen = 5

type mention struct {
	col   models.Column
	start int
	end   int
	fuzzy bool
}

type phrase struct {
	re  *regexp.Regexp
	col models.Column
}

// Resolver maps free-text tokens to dataset columns.
type Resolver struct {
	metric    *metrics.Levenshtein
	phrases   []phrase
	fuzzyKeys []string
	threshold float64
}

// NewResolver builds a resolver that accepts fuzzy matches scoring at least
// threshold (0..1] against a single-word synonym.
func NewResolver(threshold float64) *Resolver {
	keys := make([]string, 0, len(synonyms))
	for k := range synonyms {
		keys = append(keys, k)
	}
	// longest first so "unit cost" wins over "cost"; ties alphabetical for determinism
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	r := &Resolver{
		metric:    metrics.NewLevenshtein(),
		threshold: threshold,
	}
	for _, k := range keys {
		pattern := `\b` + strings.ReplaceAll(regexp.QuoteMeta(k), " ", `\s+`) + `s?\b`
		r.phrases = append(r.phrases, phrase{re: regexp.MustCompile(pattern), col: synonyms[k]})
		if !strings.Contains(k, " ") && utf8.RuneCountInString(k) >= minFuzzyLen {
			r.fuzzyKeys = append(r.fuzzyKeys, k)
		}
	}
	return r
}

// ResolveColumn maps one token or phrase to a column: exact synonyms first,
// then the most similar synonym sharing the token's first letter, by edit
// distance, if it clears the threshold.
func (r *Resolver) ResolveColumn(token string) (models.Column, bool) {
	t := spaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(token)), " ")
	if c, ok := synonyms[t]; ok {
		return c, true
	}
	if c, ok := synonyms[strings.TrimSuffix(t, "s")]; ok {
		return c, true
	}
	if reserved[t] || utf8.RuneCountInString(t) < minFuzzyLen {
		return "", false
	}

	var (
		best      string
		bestScore float64
	)
	for _, k := range r.fuzzyKeys {
		if k[0] != t[0] {
			continue
		}
		if score := strutil.Similarity(t, k, r.metric); score > bestScore {
			best, bestScore = k, score
		}
	}
	if bestScore >= r.threshold {
		return synonyms[best], true
	}
	return "", false
}

// mentions finds every column named in text, ordered by position. Exact
// phrases claim their span first; remaining words are resolved fuzzily.
func (r *Resolver) mentions(text string) []mention {
	var found []mention
	taken := func(start, end int) bool {
		for _, m := range found {
			if start < m.end && end > m.start {
				return true
			}
		}
		return false
	}

	for _, p := range r.phrases {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			if !taken(loc[0], loc[1]) {
				found = append(found, mention{col: p.col, start: loc[0], end: loc[1]})
			}
		}
	}

	for _, loc := range wordRe.FindAllStringIndex(text, -1) {
		if taken(loc[0], loc[1]) {
			continue
		}
		if c, ok := r.ResolveColumn(text[loc[0]:loc[1]]); ok {
			found = append(found, mention{col: c, start: loc[0], end: loc[1], fuzzy: true})
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].start < found[j].start })
	return found
}
