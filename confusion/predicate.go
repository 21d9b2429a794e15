package confusion

import (
	tawa "github.com/tawa-lang/tawa"
)

// BooleanPredicate decides whether a single source symbol satisfies a
// named %b predicate (spec §4.4 "BOOLEAN: predicate(source_symbol)").
type BooleanPredicate func(sym tawa.Symbol) bool

// FunctionPredicate evaluates a named %f predicate against the full
// match context (spec §4.4 "FUNCTION: predicate(model, source_symbol,
// previous_symbol, source_text, source_pos)").
type FunctionPredicate func(ctx MatchContext) bool

// RangeFunction generates a function-produced range set (spec §6 "%r
// function-generated range"), evaluated once per match attempt against
// the context, unlike the fixed %[...] range which is static.
type RangeFunction func(ctx MatchContext) []tawa.Symbol

var (
	booleanPredicates  = map[string]BooleanPredicate{}
	functionPredicates = map[string]FunctionPredicate{}
	rangeFunctions     = map[string]RangeFunction{}
)

// RegisterBoolean adds a named %b predicate to the registry, which
// Atom.matches looks up by name when a Boolean atom is matched.
// Registering the same name twice overwrites the prior definition.
func RegisterBoolean(name string, pred BooleanPredicate) {
	booleanPredicates[name] = pred
}

// RegisterFunction adds a named %f predicate to the registry.
func RegisterFunction(name string, pred FunctionPredicate) {
	functionPredicates[name] = pred
}

// RegisterRangeFunction adds a named %r range generator to the registry.
func RegisterRangeFunction(name string, fn RangeFunction) {
	rangeFunctions[name] = fn
}

func init() {
	RegisterBoolean("upper", func(s tawa.Symbol) bool { return s >= 'A' && s <= 'Z' })
	RegisterBoolean("lower", func(s tawa.Symbol) bool { return s >= 'a' && s <= 'z' })
	RegisterBoolean("digit", func(s tawa.Symbol) bool { return s >= '0' && s <= '9' })
	RegisterBoolean("alpha", func(s tawa.Symbol) bool {
		return (s >= 'A' && s <= 'Z') || (s >= 'a' && s <= 'z')
	})

	RegisterFunction("word_start", func(ctx MatchContext) bool {
		return ctx.SourcePos == 0 || !isWordSymbol(ctx.PreviousSymbol)
	})
	RegisterFunction("word_continue", func(ctx MatchContext) bool {
		return ctx.SourcePos > 0 && isWordSymbol(ctx.PreviousSymbol)
	})
}

func isWordSymbol(s tawa.Symbol) bool {
	return (s >= 'A' && s <= 'Z') || (s >= 'a' && s <= 'z') || (s >= '0' && s <= '9')
}
