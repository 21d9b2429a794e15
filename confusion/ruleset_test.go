package confusion

import "testing"

func TestParseRulesBuildsMatchableTrie(t *testing.T) {
	trie, err := ParseRules(`
# a comment line, ignored
a -> %_b @ 1.5
b -> b
`)
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}

	matches := trie.Root().Match(MatchContext{SourceSymbol: 'a'})
	if len(matches) != 1 {
		t.Fatalf("Match('a') = %d nodes, want 1", len(matches))
	}
	contextID, _, rules, ok := matches[0].Terminal()
	if !ok {
		t.Fatalf("expected a terminal node for 'a'")
	}
	if contextID != 1 {
		t.Fatalf("contextID = %d, want 1", contextID)
	}
	if len(rules) != 1 || rules[0].Codelength != 1.5 {
		t.Fatalf("rules = %+v, want one rule with codelength 1.5", rules)
	}
}

func TestParseRulesSkipsBlankAndCommentLines(t *testing.T) {
	trie, err := ParseRules("\n# comment\n\nx -> y\n")
	if err != nil {
		t.Fatalf("ParseRules: %v", err)
	}
	matches := trie.Root().Match(MatchContext{SourceSymbol: 'x'})
	if len(matches) != 1 {
		t.Fatalf("expected exactly one rule parsed, got %d matches", len(matches))
	}
}

func TestParseRulesRejectsEmptySource(t *testing.T) {
	if _, err := ParseRules("-> y\n"); err == nil {
		t.Fatalf("expected an error for an empty source pattern")
	}
}
