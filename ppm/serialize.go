package ppm

import (
	"encoding/binary"
	"io"

	tawa "github.com/tawa-lang/tawa"
)

// modelTypeTag distinguishes the serialised model kinds on disk (spec
// §6 "a leading type tag (static/dynamic)"), grounded on
// axiomhq/fsst/table.go's use of encoding/binary for its own on-disk
// symbol table format.
type modelTypeTag uint32

const (
	tagDynamic modelTypeTag = iota
	tagStatic
)

// Write serialises m in a one-pass pre-order traversal of its trie,
// big-endian 32-bit integers throughout (spec §6 "Model file format").
func (m *Model) Write(w io.Writer) error {
	tag := tagDynamic
	if m.frozen {
		tag = tagStatic
	}
	if err := writeU32(w, uint32(tag)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(m.alphabet)); err != nil {
		return err
	}
	if err := writeU32(w, uint32(m.order)); err != nil {
		return err
	}
	return writeNode(w, m.root)
}

func writeNode(w io.Writer, n *ctxNode) error {
	if err := writeU32(w, uint32(len(n.entries))); err != nil {
		return err
	}
	for _, e := range n.entries {
		if err := writeU32(w, uint32(e.sym)); err != nil {
			return err
		}
		if err := writeU32(w, e.count); err != nil {
			return err
		}
	}
	if err := writeU32(w, uint32(len(n.children))); err != nil {
		return err
	}
	for sym, child := range n.children {
		if err := writeU32(w, uint32(sym)); err != nil {
			return err
		}
		if err := writeNode(w, child); err != nil {
			return err
		}
	}
	return nil
}

// Read deserialises a model previously written by Write. The vine-pointer
// chain is rebuilt structurally: every node written as a child of the
// root-to-node path is re-descended through NewModel's own trie
// construction, so vine pointers come out identical to a freshly trained
// model that saw the same updates.
func Read(r io.Reader) (*Model, error) {
	tag, err := readU32(r)
	if err != nil {
		return nil, tawa.NewFault(tawa.IOTruncation, "ppm.Read", err)
	}
	alphabet, err := readU32(r)
	if err != nil {
		return nil, tawa.NewFault(tawa.IOTruncation, "ppm.Read", err)
	}
	order, err := readU32(r)
	if err != nil {
		return nil, tawa.NewFault(tawa.IOTruncation, "ppm.Read", err)
	}
	m := NewModel(int(alphabet), int(order))
	m.frozen = modelTypeTag(tag) == tagStatic
	if err := readNodeInto(r, m, nil, m.root); err != nil {
		return nil, err
	}
	return m, nil
}

func readNodeInto(r io.Reader, m *Model, path []tawa.Symbol, n *ctxNode) error {
	nEntries, err := readU32(r)
	if err != nil {
		return tawa.NewFault(tawa.IOTruncation, "ppm.Read", err)
	}
	for i := uint32(0); i < nEntries; i++ {
		sym, err := readU32(r)
		if err != nil {
			return tawa.NewFault(tawa.IOTruncation, "ppm.Read", err)
		}
		count, err := readU32(r)
		if err != nil {
			return tawa.NewFault(tawa.IOTruncation, "ppm.Read", err)
		}
		n.bump(tawa.Symbol(sym), count)
	}
	nChildren, err := readU32(r)
	if err != nil {
		return tawa.NewFault(tawa.IOTruncation, "ppm.Read", err)
	}
	for i := uint32(0); i < nChildren; i++ {
		sym, err := readU32(r)
		if err != nil {
			return tawa.NewFault(tawa.IOTruncation, "ppm.Read", err)
		}
		childPath := append(append([]tawa.Symbol(nil), path...), tawa.Symbol(sym))
		ctx := &Context{deepest: n}
		ctx.history = append([]tawa.Symbol(nil), path...)
		child := m.descend(ctx, tawa.Symbol(sym))
		if err := readNodeInto(r, m, childPath, child); err != nil {
			return err
		}
	}
	return nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}
