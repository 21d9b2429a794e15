package word

import (
	"github.com/rs/zerolog"

	"github.com/tawa-lang/tawa/coder"
	"github.com/tawa-lang/tawa/ppm"
	"github.com/tawa-lang/tawa/text"

	tawa "github.com/tawa-lang/tawa"
)

// Processor drives the dual word/non-word PPM dispatch of
// TLM_process_word_text: each token is first looked up in its own text
// table; tokens seen before are coded as that table id directly by the
// word- or non-word-level model, tokens seen for the first time fall
// through to a character-level model (escape-coded symbol by symbol,
// terminated by tawa.SENTINEL) and are then registered in the table so
// later occurrences of the same token code as a plain table id.
type Processor struct {
	wordModel, nonwordModel *ppm.Model
	charModel, noncharModel *ppm.Model
	wordTable, nonwordTable *text.Table
	wordCtx, nonwordCtx     *ppm.Context
	charCtx, noncharCtx     *ppm.Context
	log                     zerolog.Logger
}

// NewProcessor builds a Processor over four freshly constructed models:
// word/non-word table-id models of the given alphabet and order, and
// word/non-word character-escape models of byte alphabet and order
// (word.c's W_word_model/W_nonword_model paired with W_char_model/
// W_nonchar_model). The table-id alphabet should be sized to comfortably
// exceed the expected vocabulary; ppm.Model grows it in place via
// SetAlphabetSize as new tokens are interned.
func NewProcessor(tokenAlphabet, tokenOrder, charAlphabet, charOrder int, log zerolog.Logger) *Processor {
	p := &Processor{
		wordModel:    ppm.NewModel(tokenAlphabet, tokenOrder),
		nonwordModel: ppm.NewModel(tokenAlphabet, tokenOrder),
		charModel:    ppm.NewModel(charAlphabet, charOrder),
		noncharModel: ppm.NewModel(charAlphabet, charOrder),
		wordTable:    text.NewTable(),
		nonwordTable: text.NewTable(),
		log:          log,
	}
	p.wordCtx = p.wordModel.NewContext()
	p.nonwordCtx = p.nonwordModel.NewContext()
	p.charCtx = p.charModel.NewContext()
	p.noncharCtx = p.noncharModel.NewContext()
	return p
}

// isFullStop reports whether tok is a sentence-ending non-word run
// (". ", ".\n", or exactly "."), per word.c's full_stop1/2/3 check.
func isFullStop(tok tawa.Sequence) bool {
	switch {
	case len(tok) == 2 && tok[0] == '.' && (tok[1] == ' ' || tok[1] == '\n'):
		return true
	case len(tok) == 1 && tok[0] == '.':
		return true
	}
	return false
}

// Encode codes text's alternating non-word/word runs, returning the
// total codelength in bits. The sentence-break heuristic of word.c's main
// loop ("insert (but not encode) a break into the context... as this
// will improve prediction by around 1 per cent") is applied after every
// full-stop non-word token.
func (p *Processor) Encode(c *coder.Coder, text tawa.Sequence) (float64, error) {
	var total float64
	wordPos := 0
	for _, pair := range Tokenize(text) {
		wordPos++
		p.log.Debug().Int("word_pos", wordPos).Msg("processing word")

		// The non-word token is always processed, even on the trailing
		// all-empty EOF pair (word.c calls TLM_process_word for the
		// non-word side unconditionally, with eof fixed at FALSE); only
		// the word side is gated by this pair's EOF flag.
		cl, err := p.encodeToken(p.nonwordModel, p.nonwordCtx, p.noncharModel, p.noncharCtx, p.nonwordTable, pair.Nonword, false, c)
		if err != nil {
			return total, err
		}
		total += cl

		if isFullStop(pair.Nonword) {
			p.nonwordModel.UpdateContext(p.nonwordCtx, tawa.SENTINEL)
		}

		cl, err = p.encodeToken(p.wordModel, p.wordCtx, p.charModel, p.charCtx, p.wordTable, pair.Word, pair.EOF, c)
		if err != nil {
			return total, err
		}
		total += cl

		if pair.EOF {
			return total, nil
		}
	}
	return total, nil
}

// Decode reconstructs the token stream coded by Encode, returning the
// concatenated non-word/word text once the word-level model decodes
// tawa.SENTINEL (word.c's TXT_sentinel_text (word) loop exit).
func (p *Processor) Decode(c *coder.Coder) (tawa.Sequence, error) {
	var out tawa.Sequence
	wordPos := 0
	for {
		wordPos++
		p.log.Debug().Int("word_pos", wordPos).Int("bytes_output", len(out)).Msg("processing word")

		nonword, _, err := p.decodeToken(p.nonwordModel, p.nonwordCtx, p.noncharModel, p.noncharCtx, p.nonwordTable, c)
		if err != nil {
			return out, err
		}
		out = append(out, nonword...)

		if isFullStop(nonword) {
			p.nonwordModel.UpdateContext(p.nonwordCtx, tawa.SENTINEL)
		}

		word, eof, err := p.decodeToken(p.wordModel, p.wordCtx, p.charModel, p.charCtx, p.wordTable, c)
		if err != nil {
			return out, err
		}
		if eof {
			return out, nil
		}
		out = append(out, word...)
	}
}

// encodeToken codes one token through model/ctx (its table-id model) and
// table, falling through to charModel/charCtx symbol by symbol on a
// table miss. eof forces the sentinel path directly (word.c: "!eof &&
// word != NIL" guards the ordinary branch; the eof/empty-token branch
// always codes the sentinel symbol with no escape content).
func (p *Processor) encodeToken(model *ppm.Model, ctx *ppm.Context, charModel *ppm.Model, charCtx *ppm.Context, table *text.Table, tok tawa.Sequence, eof bool, c *coder.Coder) (float64, error) {
	var symbol tawa.Symbol
	var isNew bool

	if eof || len(tok) == 0 {
		symbol = tawa.SENTINEL
	} else {
		id, _, newToken := table.Update(tok, 1)
		if int(id) >= model.AlphabetSize() {
			model.SetAlphabetSize(int(id) + 1)
		}
		symbol = tawa.Symbol(id)
		isNew = newToken
	}

	total, err := model.EncodeSymbol(ctx, c, symbol)
	if err != nil {
		return 0, err
	}

	if isNew {
		for _, sym := range tok {
			cl, err := charModel.EncodeSymbol(charCtx, c, sym)
			if err != nil {
				return total, err
			}
			total += cl
		}
		cl, err := charModel.EncodeSymbol(charCtx, c, tawa.SENTINEL)
		if err != nil {
			return total, err
		}
		total += cl
	}
	return total, nil
}

// decodeToken mirrors encodeToken. It reports eof when the decoded
// table-id symbol is tawa.SENTINEL, and otherwise returns the recovered
// token, registering it in table if it had to be escape-decoded.
func (p *Processor) decodeToken(model *ppm.Model, ctx *ppm.Context, charModel *ppm.Model, charCtx *ppm.Context, table *text.Table, c *coder.Coder) (tawa.Sequence, bool, error) {
	symbol, _, err := model.DecodeSymbol(ctx, c)
	if err != nil {
		return nil, false, err
	}

	if symbol == tawa.SENTINEL {
		return nil, true, nil
	}

	if int(symbol) < table.Len() {
		return table.GetKey(text.ID(symbol)), false, nil
	}

	var tok tawa.Sequence
	for {
		sym, _, err := charModel.DecodeSymbol(charCtx, c)
		if err != nil {
			return nil, false, err
		}
		if sym == tawa.SENTINEL {
			break
		}
		tok = append(tok, sym)
	}

	id, _, _ := table.Update(tok, 1)
	if int(id) >= model.AlphabetSize() {
		model.SetAlphabetSize(int(id) + 1)
	}
	return tok, false, nil
}
