// Package query interprets free-text questions about a prediction table and
// answers them with a formatted message or a small projected table.
//
// Queries are classified by an ordered list of rules; the first rule whose
// predicate matches handles the query. Nothing a query does can crash the
// caller: handler errors and panics become an error answer.
package query

import (
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/material-forecast-tui/internal/config"
	"github.com/j-veylop/material-forecast-tui/internal/logger"
	"github.com/j-veylop/material-forecast-tui/internal/models"
)

// ErrMissingColumn is returned when a query needs a column the dataset lacks.
var ErrMissingColumn = errors.New("column is not in the dataset")

// Fixed answer texts.
const (
	ExplainText = "💡 TotalCost is calculated as: `QtyShipped × UnitCost`."

	HelpText = "I didn’t fully get that 🤔. Try queries like:\n" +
		"- 'UnitCost for ID 102'\n" +
		"- 'TotalCost of MasterItemNo 555'\n" +
		"- 'Show items where QtyShipped > 50'\n" +
		"- 'Which MasterItemNo has highest TotalCost?'\n" +
		"- 'Top 5 items by cost'\n" +
		"- 'Compare item 100 vs 200'\n" +
		"- 'How is TotalCost calculated?'"

	NoDataText = "No data loaded. Load a dataset before asking questions."

	errorPrefix = "Sorry, I couldn't answer that: "
)

// Examples are sample queries, one per intent.
var Examples = []string{
	"UnitCost for ID 102",
	"TotalCost of MasterItemNo 555",
	"Show items where QtyShipped > 50",
	"How many rows have TotalCost >= 10000",
	"Total qty shipped",
	"Average UnitCost",
	"Which MasterItemNo has highest TotalCost?",
	"Lowest price",
	"Top 5 items by cost",
	"Top 3 items by quantity",
	"Compare item 100 vs 200",
	"How is TotalCost calculated?",
}

// Options tune formatting and aggregation.
type Options struct {
	Currency       string
	AverageMode    config.AverageMode
	MatchRowLimit  int
	TopKDefault    int
	FuzzyThreshold float64
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

// OptionsFromConfig extracts the engine options from the application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Currency:       cfg.CurrencySymbol,
		AverageMode:    cfg.AverageMode,
		MatchRowLimit:  cfg.MatchRowLimit,
		TopKDefault:    cfg.TopKDefault,
		FuzzyThreshold: cfg.FuzzyThreshold,
	}
}

// rule pairs an intent predicate with its handler.
type rule struct {
	match     func(q *parsedQuery) bool
	handle    func(t *models.Table, q *parsedQuery) (Answer, error)
	intent    Intent
	needsData bool
}

// Engine answers queries. It holds no per-query state and is safe for
// concurrent use once built.
type Engine struct {
	resolver *Resolver
	format   formatter
	rules    []rule
	opts     Options
}

// New builds an engine.
func New(opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.MatchRowLimit <= 0 {
		opts.MatchRowLimit = defaults.MatchRowLimit
	}
	if opts.TopKDefault <= 0 {
		opts.TopKDefault = defaults.TopKDefault
	}
	if opts.FuzzyThreshold <= 0 || opts.FuzzyThreshold > 1 {
		opts.FuzzyThreshold = defaults.FuzzyThreshold
	}
	if opts.AverageMode == "" {
		opts.AverageMode = defaults.AverageMode
	}

	e := &Engine{
		resolver: NewResolver(opts.FuzzyThreshold),
		format:   formatter{currency: opts.Currency},
		opts:     opts,
	}

	// Priority order. The first matching rule answers.
	e.rules = []rule{
		{intent: IntentExplain, match: isExplain, handle: e.explain},
		{intent: IntentThreshold, match: isThreshold, handle: e.threshold, needsData: true},
		{intent: IntentIDLookup, match: isIDLookup, handle: e.idLookup, needsData: true},
		{intent: IntentItemLookup, match: isItemLookup, handle: e.itemLookup, needsData: true},
		{intent: IntentAggregate, match: isAggregate, handle: e.aggregate, needsData: true},
		{intent: IntentExtremum, match: isExtremum, handle: e.extremum, needsData: true},
		{intent: IntentTopK, match: isTopK, handle: e.topK, needsData: true},
		{intent: IntentCompare, match: isCompare, handle: e.compare, needsData: true},
		{intent: IntentFallback, match: func(*parsedQuery) bool { return true }, handle: e.fallback},
	}
	return e
}

// Resolver returns the column resolver used by the engine.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}

// Classify returns the intent a query would be handled by.
func (e *Engine) Classify(query string) Intent {
	q := e.parse(query)
	for _, r := range e.rules {
		if r.match(q) {
			return r.intent
		}
	}
	return IntentFallback
}

// Answer interprets query against t. It always returns an answer.
func (e *Engine) Answer(t *models.Table, query string) (ans Answer) {
	start := time.Now()
	intent := IntentFallback

	defer func() {
		if r := recover(); r != nil {
			logger.Error("query handler panicked", "query", query, "intent", intent, "panic", r)
			ans = errorAnswer(intent, fmt.Errorf("%v", r))
		}
	}()

	q := e.parse(query)
	for _, r := range e.rules {
		if !r.match(q) {
			continue
		}
		intent = r.intent

		if r.needsData && t.Empty() {
			return Answer{Kind: KindError, Intent: intent, Text: NoDataText}
		}

		a, err := r.handle(t, q)
		if err != nil {
			logger.Warn("query failed", "query", query, "intent", intent, "error", err)
			return errorAnswer(intent, err)
		}
		a.Intent = intent

		logger.Debug("query answered",
			"query", query,
			"intent", intent,
			"kind", a.Kind.String(),
			"elapsed", time.Since(start),
		)
		return a
	}

	return Answer{Kind: KindHelp, Intent: IntentFallback, Text: HelpText}
}

func errorAnswer(intent Intent, err error) Answer {
	return Answer{Kind: KindError, Intent: intent, Text: errorPrefix + err.Error()}
}

var defaultEngine = New(DefaultOptions())

// Ask answers query against t with default options.
func Ask(t *models.Table, query string) Answer {
	return defaultEngine.Answer(t, query)
}
