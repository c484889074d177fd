package query

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/j-veylop/material-forecast-tui/internal/models"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	wordRe  = regexp.MustCompile(`[a-z]+`)
	intRe   = regexp.MustCompile(`\d+`)
	// comparatorRe matches an operator followed by a number, e.g. "> 1,000" or "<= -2.5".
	comparatorRe = regexp.MustCompile(`(>=|<=|>|<)\s*(-?\d[\d,]*(?:\.\d+)?)`)
)

// comparatorWords rewrites worded comparisons to symbols. Longer phrases come
// first so "greater than or equal to" is not consumed by "greater than".
var comparatorWords = []struct {
	re  *regexp.Regexp
	sym string
}{
	{regexp.MustCompile(`\b(?:greater|more) than or equal to\b`), ">="},
	{regexp.MustCompile(`\b(?:less|fewer) than or equal to\b`), "<="},
	{regexp.MustCompile(`\bat least\b`), ">="},
	{regexp.MustCompile(`\bat most\b`), "<="},
	{regexp.MustCompile(`\b(?:greater|more|higher) than\b`), ">"},
	{regexp.MustCompile(`\b(?:less|fewer|lower) than\b`), "<"},
	{regexp.MustCompile(`\b(?:above|over|exceeding)\b`), ">"},
	{regexp.MustCompile(`\b(?:below|under)\b`), "<"},
}

// parsedQuery is a normalized query plus the lexical facts intents test against.
type parsedQuery struct {
	raw      string
	text     string
	words    map[string]bool
	ints     []int64
	mentions []mention
	cmp      *comparison
}

// comparison is an operator/number pair found in the query.
type comparison struct {
	op      string
	literal string
	value   float64
	pos     int
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("≥", ">=", "≤", "<=", "_", " ", "=>", ">=", "=<", "<=").Replace(s)
	s = spaceRe.ReplaceAllString(s, " ")
	for _, cw := range comparatorWords {
		s = cw.re.ReplaceAllString(s, cw.sym)
	}
	return s
}

func (e *Engine) parse(raw string) *parsedQuery {
	q := &parsedQuery{
		raw:   raw,
		text:  normalize(raw),
		words: make(map[string]bool),
	}

	for _, w := range wordRe.FindAllString(q.text, -1) {
		q.words[w] = true
	}
	for _, s := range intRe.FindAllString(q.text, -1) {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			q.ints = append(q.ints, n)
		}
	}

	q.mentions = e.resolver.mentions(q.text)

	if loc := comparatorRe.FindStringSubmatchIndex(q.text); loc != nil {
		literal := strings.ReplaceAll(q.text[loc[4]:loc[5]], ",", "")
		if v, err := strconv.ParseFloat(literal, 64); err == nil {
			q.cmp = &comparison{
				op:      q.text[loc[2]:loc[3]],
				literal: literal,
				value:   v,
				pos:     loc[0],
			}
		}
	}

	return q
}

// has reports whether any of the words appears as a whole word.
func (q *parsedQuery) has(words ...string) bool {
	for _, w := range words {
		if q.words[w] {
			return true
		}
	}
	return false
}

// contains reports whether any phrase appears as a substring.
func (q *parsedQuery) contains(phrases ...string) bool {
	for _, p := range phrases {
		if strings.Contains(q.text, p) {
			return true
		}
	}
	return false
}

// mentioned reports whether col is named anywhere in the query.
func (q *parsedQuery) mentioned(col models.Column) bool {
	for _, m := range q.mentions {
		if m.col == col {
			return true
		}
	}
	return false
}

// firstMentioned returns the first of cols, in the given priority order, that
// the query names.
func (q *parsedQuery) firstMentioned(cols ...models.Column) (models.Column, bool) {
	for _, c := range cols {
		if q.mentioned(c) {
			return c, true
		}
	}
	return "", false
}

// columnBefore returns the column named closest to the left of pos.
func (q *parsedQuery) columnBefore(pos int) (models.Column, bool) {
	var (
		best  models.Column
		found bool
	)
	for _, m := range q.mentions {
		if m.end <= pos {
			best, found = m.col, true
		}
	}
	return best, found
}
