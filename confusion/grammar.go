package confusion

import (
	"strconv"
	"strings"

	tawa "github.com/tawa-lang/tawa"
)

// ParseRule parses one textual rewrite rule of the form
// "<source-pattern> -> <output-pattern>" (spec §6 "Rewrite-rule
// grammar"), returning the parsed source and output atom sequences.
func ParseRule(line string) (source, output []Atom, err error) {
	parts := strings.SplitN(line, "->", 2)
	if len(parts) != 2 {
		return nil, nil, tawa.Faultf(tawa.RuleCompileError, "confusion.ParseRule", "missing '->' in rule %q", line)
	}
	source, err = parsePattern(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, nil, err
	}
	output, err = parsePattern(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, nil, err
	}
	return source, output, nil
}

// parsePattern splits a pattern string into its %-prefixed atoms (spec
// §6 atom prefixes: %s literal symbol, %m model marker, %b boolean
// predicate, %f function predicate, %w wildcard, %[abc] range, %r
// function-generated range, %$ sentinel, %_ ghost, %. suspend, %% the
// literal '%').
func parsePattern(s string) ([]Atom, error) {
	var atoms []Atom
	for i := 0; i < len(s); {
		if s[i] != '%' {
			// bare text outside a '%' escape is a sequence of literal
			// symbol atoms, one per rune.
			r, size := decodeRune(s[i:])
			atoms = append(atoms, Atom{Kind: Symbol, Sym: tawa.Symbol(r)})
			i += size
			continue
		}
		if i+1 >= len(s) {
			return nil, tawa.Faultf(tawa.RuleCompileError, "confusion.parsePattern", "dangling '%%' in pattern %q", s)
		}
		tag := s[i+1]
		rest := s[i+2:]
		switch tag {
		case '%':
			atoms = append(atoms, Atom{Kind: Symbol, Sym: tawa.Symbol('%')})
			i += 2
		case '$':
			atoms = append(atoms, Atom{Kind: Sentinel})
			i += 2
		case '_':
			atoms = append(atoms, Atom{Kind: Ghost})
			i += 2
		case '.':
			atoms = append(atoms, Atom{Kind: Suspend})
			i += 2
		case 'w':
			atoms = append(atoms, Atom{Kind: Wildcard})
			i += 2
		case 's', 'm':
			tok, consumed, err := readToken(rest)
			if err != nil {
				return nil, err
			}
			sym, err := parseSymbolLiteral(tok)
			if err != nil {
				return nil, err
			}
			kind := Symbol
			if tag == 'm' {
				kind = Model
			}
			atoms = append(atoms, Atom{Kind: kind, Sym: sym})
			i += 2 + consumed
		case 'b', 'f', 'r':
			tok, consumed, err := readToken(rest)
			if err != nil {
				return nil, err
			}
			kind := Boolean
			if tag == 'f' {
				kind = Function
			} else if tag == 'r' {
				kind = Range // generated lazily by name at match time, name stored in Name
			}
			atoms = append(atoms, Atom{Kind: kind, Name: tok})
			i += 2 + consumed
		case '[':
			tok, consumed, err := readBracketed(rest)
			if err != nil {
				return nil, err
			}
			syms, err := parseRangeLiteral(tok)
			if err != nil {
				return nil, err
			}
			atoms = append(atoms, Atom{Kind: Range, Range: NewRange(syms)})
			i += 2 + consumed
		default:
			return nil, tawa.Faultf(tawa.RuleCompileError, "confusion.parsePattern", "unknown atom prefix '%%%c' in pattern %q", tag, s)
		}
	}
	return atoms, nil
}

// readToken reads a run of non-space, non-'%' characters (a symbol
// literal, decimal escape, or predicate name) and reports how many bytes
// it consumed.
func readToken(s string) (token string, consumed int, err error) {
	i := 0
	for i < len(s) && s[i] != '%' && s[i] != ' ' {
		i++
	}
	if i == 0 {
		return "", 0, tawa.Faultf(tawa.RuleCompileError, "confusion.readToken", "empty token")
	}
	return s[:i], i, nil
}

// readBracketed reads up to and including the closing ']' of a %[...]
// range atom, returning the inner text and total bytes consumed.
func readBracketed(s string) (inner string, consumed int, err error) {
	end := strings.IndexByte(s, ']')
	if end < 0 {
		return "", 0, tawa.Faultf(tawa.RuleCompileError, "confusion.readBracketed", "unterminated '%%[' range")
	}
	return s[:end], end + 1, nil
}

// parseSymbolLiteral decodes a %s/%m token: either the in-band escape
// `\<decimal>\` for symbols >= 128 (spec §6) or a single literal rune.
func parseSymbolLiteral(tok string) (tawa.Symbol, error) {
	if strings.HasPrefix(tok, `\`) && strings.HasSuffix(tok, `\`) && len(tok) > 2 {
		n, err := strconv.Atoi(tok[1 : len(tok)-1])
		if err != nil {
			return 0, tawa.Faultf(tawa.RuleCompileError, "confusion.parseSymbolLiteral", "bad decimal escape %q", tok)
		}
		return tawa.Symbol(n), nil
	}
	r, _ := decodeRune(tok)
	return tawa.Symbol(r), nil
}

// parseRangeLiteral decodes the inner text of a %[...] range atom into a
// sorted, deduplicated symbol set.
func parseRangeLiteral(inner string) ([]tawa.Symbol, error) {
	seen := map[tawa.Symbol]bool{}
	var syms []tawa.Symbol
	for i := 0; i < len(inner); {
		r, size := decodeRune(inner[i:])
		sym := tawa.Symbol(r)
		if !seen[sym] {
			seen[sym] = true
			syms = append(syms, sym)
		}
		i += size
	}
	for i := 1; i < len(syms); i++ {
		for j := i; j > 0 && syms[j-1] > syms[j]; j-- {
			syms[j-1], syms[j] = syms[j], syms[j-1]
		}
	}
	return syms, nil
}

func decodeRune(s string) (rune, int) {
	for i, r := range s {
		_ = i
		return r, len(string(r))
	}
	return 0, 0
}
