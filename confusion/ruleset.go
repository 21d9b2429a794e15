package confusion

import (
	"strconv"
	"strings"

	tawa "github.com/tawa-lang/tawa"
)

// ParseRules parses a full rule-file (spec §6 "Rewrite-rule grammar"):
// one rule per line, blank lines and '#'-prefixed comments ignored.
// Each line is "<source-pattern> -> <output-pattern>", optionally
// followed by "@<codelength>" giving the rewrite's prior bits cost
// (spec §4.4 "A rewrite carries an associated codelength"; default 0
// when omitted). Every rule is registered under a distinct context id
// (its 1-based position among the rule lines, blank and comment lines
// not counted), matching confusion.c's per-pattern Context field.
func ParseRules(text string) (*Trie, error) {
	trie := New()
	contextID := 0
	for lineNo, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cost := 0.0
		if at := strings.LastIndex(line, "@"); at >= 0 {
			if c, err := strconv.ParseFloat(strings.TrimSpace(line[at+1:]), 64); err == nil {
				cost = c
				line = strings.TrimSpace(line[:at])
			}
		}

		source, output, err := ParseRule(line)
		if err != nil {
			return nil, tawa.Faultf(tawa.RuleCompileError, "confusion.ParseRules", "line %d: %v", lineNo+1, err)
		}
		if len(source) == 0 {
			return nil, tawa.Faultf(tawa.RuleCompileError, "confusion.ParseRules", "line %d: empty source pattern", lineNo+1)
		}

		contextID++
		contextType := source[len(source)-1].Kind
		trie.Add(source, contextID, contextType, Rule{Output: output, Codelength: cost})
	}
	return trie, nil
}
