package search

import (
	"github.com/tawa-lang/tawa/confusion"
	"github.com/tawa-lang/tawa/hash"
	"github.com/tawa-lang/tawa/ppm"

	tawa "github.com/tawa-lang/tawa"
)

// Algorithm selects the search strategy of spec §4.5/§4.7, matching the
// `algorithm = {viterbi, stack(type0|type1, ...)}` configuration surface.
type Algorithm int

const (
	Viterbi Algorithm = iota
	StackType0
	StackType1
)

// Driver is the transform search engine of spec §4.7: it walks the
// confusion trie against the source text, extending every live leaf and
// recombining paths through the position hash.
type Driver struct {
	trie        *confusion.Trie
	models      map[int]ppm.LanguageModel
	arena       *arena
	positions   *hash.PositionTable
	modelStates *hash.ModelStateTable
	frontier    *frontier

	algo           Algorithm
	stackDepth     int
	stackExtension int
}

// NewDriver returns a search driver for the given confusion trie and
// model set (spec §6 per-transform configuration surface).
func NewDriver(trie *confusion.Trie, models map[int]ppm.LanguageModel, algo Algorithm, stackDepth, stackExtension int) *Driver {
	d := &Driver{
		trie:           trie,
		models:         models,
		arena:          newArena(),
		positions:      hash.NewPositionTable(),
		modelStates:    hash.NewModelStateTable(),
		algo:           algo,
		stackDepth:     stackDepth,
		stackExtension: stackExtension,
	}
	if algo == Viterbi {
		d.frontier = newViterbiFrontier()
	} else {
		d.frontier = newStackFrontier()
	}
	return d
}

// Seed registers the initial leaf for modelID's starting context, its
// path seeded with the (SENTINEL, model-id) metadata pair that BestPath
// later strips (spec §3: "start a path seeded with (sentinel,
// model-marker, model)").
func (d *Driver) Seed(modelID int) *Leaf {
	ctx := d.models[modelID].NewContext()
	node := d.arena.alloc(d.arena.Root(), tawa.SENTINEL, false)
	node = d.arena.alloc(node, tawa.Symbol(modelID), false)
	leaf := &Leaf{node: node, Model: modelID, Context: ctx, heapIndex: -1}
	d.arena.addLeafRef(leaf.node)
	d.frontier.add(leaf)
	return leaf
}

// Leaves returns every leaf currently in the frontier.
func (d *Driver) Leaves() []*Leaf { return d.frontier.snapshot() }

// UpdatePaths advances the search by one source step (spec §4.7
// `update_paths`): it reinitialises the position hash, then either
// expands every Viterbi leaf once or drains the stack frontier's head
// until it reaches sourcePos.
func (d *Driver) UpdatePaths(sourceText tawa.Sequence, sourcePos int) {
	d.positions.Reset()

	switch d.algo {
	case Viterbi:
		for _, leaf := range d.frontier.snapshot() {
			d.expand(leaf, sourceText, sourcePos)
		}
	default:
		d.pruneStack(sourcePos)
		for {
			head := d.frontier.head()
			if head == nil || head.InputPos >= sourcePos {
				return
			}
			d.frontier.remove(head)
			d.expand(head, sourceText, sourcePos)
		}
	}
}

// pruneStack drops leaves whose depth exceeds stackDepth or whose input
// position lags sourcePos by more than stackExtension (spec §4.5 "Stack
// mode" pruning-before-expansion rule), both thresholds only applying
// when configured nonzero.
func (d *Driver) pruneStack(sourcePos int) {
	if d.stackDepth == 0 && d.stackExtension == 0 {
		return
	}
	for _, leaf := range d.frontier.snapshot() {
		prune := false
		if d.stackDepth != 0 && d.depthOf(leaf) > d.stackDepth {
			prune = true
		}
		if d.stackExtension != 0 && sourcePos-leaf.InputPos > d.stackExtension {
			prune = true
		}
		if prune {
			d.frontier.remove(leaf)
			d.arena.dropLeafRef(leaf.node)
		}
	}
}

func (d *Driver) depthOf(leaf *Leaf) int {
	depth := 0
	for idx := leaf.node; idx != d.arena.Root(); idx = d.arena.nodes[idx].parent {
		depth++
	}
	return depth
}

// expand tries every rule reachable from leaf's model at sourcePos,
// extending leaf along each one (spec §4.7 "extend it by invoking the
// confusion trie at source_pos with the leaf's current model"), then
// prunes the original leaf.
func (d *Driver) expand(leaf *Leaf, sourceText tawa.Sequence, sourcePos int) {
	if sourcePos >= len(sourceText) {
		return
	}
	for _, m := range d.collectMatches(d.trie.Root(), sourceText, sourcePos, leaf.Model, 0) {
		for _, rule := range m.rules {
			d.ExtendPath(leaf, sourceText, sourcePos, m.consumed, rule)
		}
	}
	d.frontier.remove(leaf)
	d.arena.dropLeafRef(leaf.node)
}

type matchResult struct {
	consumed int
	rules    []confusion.Rule
}

// collectMatches walks the confusion trie from node, descending one
// source position per consuming atom (every kind but Model, which gates
// on the active model, and the Sentinel/Ghost/Suspend markers, none of
// which consume text), and collects the rules of every terminal reached
// after at least one consumed position, together with that count (spec
// §4.4 matching semantics).
func (d *Driver) collectMatches(node *confusion.Node, text tawa.Sequence, pos int, modelID int, consumed int) []matchResult {
	var out []matchResult
	if _, _, rules, ok := node.Terminal(); ok && consumed > 0 {
		out = append(out, matchResult{consumed: consumed, rules: rules})
	}
	if pos >= len(text) {
		return out
	}
	var prev tawa.Symbol
	if pos > 0 {
		prev = text[pos-1]
	}
	ctx := confusion.MatchContext{
		ModelID:        modelID,
		SourceSymbol:   text[pos],
		PreviousSymbol: prev,
		SourceText:     text,
		SourcePos:      pos,
	}
	for _, child := range node.Match(ctx) {
		nextPos := pos
		switch child.Atom.Kind {
		case confusion.Model, confusion.Sentinel, confusion.Ghost, confusion.Suspend:
		default:
			nextPos = pos + 1
		}
		out = append(out, d.collectMatches(child, text, nextPos, modelID, consumed+nextPos-pos)...)
	}
	return out
}

// ExtendPath is the literal translation of spec §4.7's atom-walk
// algorithm: it duplicates leaf's model context, walks rule.Output left
// to right handling MODEL/GHOST/SUSPEND markers, looks the resulting
// (model, input_pos, context_pos) up in the position hash, and either
// registers a new leaf or discards the candidate.
func (d *Driver) ExtendPath(leaf *Leaf, sourceText tawa.Sequence, sourcePos, contextLen int, rule confusion.Rule) {
	modelID := leaf.Model
	ctx := leaf.Context.Clone()
	totalCL := leaf.TotalCodelength + rule.Codelength
	symbolCL := 0.0
	node := leaf.node

	out := rule.Output
	for i := 0; i < len(out); i++ {
		atom := out[i]
		model := d.models[modelID]
		switch atom.Kind {
		case confusion.Model:
			sentinelCL := model.FindSymbol(ctx, tawa.SENTINEL)
			totalCL += sentinelCL
			modelID = int(atom.Sym)
			model = d.models[modelID]
			key := hash.ModelStateKey{TransformModel: modelID, LanguageModel: modelID}
			if pos, shared, _, ok := d.modelStates.Find(key); ok && pos == leaf.InputPos {
				ctx = shared.(*ppm.Context).Clone()
			} else {
				ctx = model.NewContext()
			}
		case confusion.Ghost:
			// spec §4.7: "On a GHOST marker, emit the next atom into
			// the path without encoding."
			i++
			if i >= len(out) {
				tawa.Raise(tawa.ContractViolation, "search.Driver.ExtendPath", "GHOST marker with no following atom")
			}
			node = d.arena.alloc(node, out[i].Sym, true)
		case confusion.Suspend:
			// spec §4.7: "On a SUSPEND marker, suspend updates, update
			// the context with the next atom, resume."
			i++
			if i >= len(out) {
				tawa.Raise(tawa.ContractViolation, "search.Driver.ExtendPath", "SUSPEND marker with no following atom")
			}
			model.SuspendUpdate()
			cl := model.UpdateContext(ctx, out[i].Sym)
			model.ResumeUpdate()
			totalCL += cl
			symbolCL += cl
			node = d.arena.alloc(node, out[i].Sym, false)
		case confusion.Sentinel:
			node = d.arena.alloc(node, tawa.SENTINEL, false)
		default:
			cl := model.UpdateContext(ctx, atom.Sym)
			totalCL += cl
			symbolCL += cl
			node = d.arena.alloc(node, atom.Sym, false)
		}
	}

	newPos := sourcePos + contextLen
	key := hash.PositionKey{TransformModel: modelID, LanguageModel: leaf.Model, InputPosition: newPos, ContextPosition: node}
	newLeaf := &Leaf{node: node, Model: modelID, Context: ctx, InputPos: newPos, TotalCodelength: totalCL, SymbolCodelength: symbolCL, heapIndex: -1}

	added, update, oldLeaf := d.positions.Add(key, totalCL, symbolCL, newLeaf)
	if !added && !update {
		d.arena.prune(node)
		return
	}
	if update {
		old := oldLeaf.(*Leaf)
		d.frontier.remove(old)
		d.arena.dropLeafRef(old.node)
	}
	d.arena.addLeafRef(node)
	d.frontier.add(newLeaf)
}

// BestPath extracts the globally best leaf's emitted symbol sequence
// (spec §4.7 "Best-path extraction"): the minimum-codelength leaf, its
// path node walked to the root and reversed, with the leading
// sentinel/model-id pair stripped as metadata.
func (d *Driver) BestPath() []tawa.Symbol {
	leaves := d.frontier.snapshot()
	if len(leaves) == 0 {
		return nil
	}
	best := leaves[0]
	for _, l := range leaves[1:] {
		if l.TotalCodelength < best.TotalCodelength {
			best = l
		}
	}
	full := d.arena.Path(best.node)
	if len(full) <= 2 {
		return nil
	}
	return full[2:]
}
