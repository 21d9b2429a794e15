package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	tawa "github.com/tawa-lang/tawa"
)

// modelStateBuckets is the model-state hash's bucket count, playing the
// role of hash.c's HASHM_SIZE.
const modelStateBuckets = 103

// ModelStateKey identifies one model-state hash entry (original
// hashmType's H_transform_model/H_transform_type/H_language_model).
type ModelStateKey struct {
	TransformModel int
	TransformType  int
	LanguageModel  int
}

func (k ModelStateKey) bucket() uint64 {
	var buf [24]byte
	binary.BigEndian.PutUint64(buf[0:8], uint64(k.TransformModel))
	binary.BigEndian.PutUint64(buf[8:16], uint64(k.TransformType))
	binary.BigEndian.PutUint64(buf[16:24], uint64(k.LanguageModel))
	return xxhash.Sum64(buf[:]) % modelStateBuckets
}

type modelStateEntry struct {
	key                ModelStateKey
	lastPosition       int
	context            any // the ppm.Context shared across transforms keyed the same
	sentinelContext    any
	totalCodelength    float64
	symbolCodelength   float64
	sentinelCodelength float64
	started            bool
}

// ModelStateTable is the model-state hash of spec §4.6: it maintains a
// rolling per-model context advancing in lock-step with the globally
// committed source position, so every single-context transform sharing a
// key reuses one copy of the model's state. Buckets chain entries the
// same way PositionTable does, keyed via github.com/cespare/xxhash/v2.
type ModelStateTable struct {
	buckets [modelStateBuckets][]*modelStateEntry
	free    []*modelStateEntry
}

// NewModelStateTable returns an empty model-state hash.
func NewModelStateTable() *ModelStateTable {
	return &ModelStateTable{}
}

func (t *ModelStateTable) find(key ModelStateKey) *modelStateEntry {
	for _, e := range t.buckets[key.bucket()] {
		if e.key == key {
			return e
		}
	}
	return nil
}

// Start registers key's rolling context at the given starting position,
// for use before the first Update call.
func (t *ModelStateTable) Start(key ModelStateKey, position int, context, sentinelContext any) {
	e := t.find(key)
	if e == nil {
		e = t.alloc(key)
		b := key.bucket()
		t.buckets[b] = append(t.buckets[b], e)
	}
	e.lastPosition = position
	e.context = context
	e.sentinelContext = sentinelContext
	e.started = true
}

// Update advances key's rolling context to position p, recording the
// codelength of symbolCL for the actual source symbol and
// sentinelCL for SENTINEL in that same context (spec §4.6: "Reports the
// codelength of the source symbol in that rolling context as well as the
// codelength of SENTINEL in that context"). p must be exactly one past
// the entry's last observed position (monotonic advance); any other
// value is a contract violation.
func (t *ModelStateTable) Update(key ModelStateKey, p int, totalCL, symbolCL, sentinelCL float64, context, sentinelContext any) {
	e := t.find(key)
	if e == nil {
		tawa.Raise(tawa.ContractViolation, "hash.ModelStateTable.Update", "no entry started for key %+v", key)
	}
	if !e.started {
		tawa.Raise(tawa.ContractViolation, "hash.ModelStateTable.Update", "entry for key %+v was reset but not restarted", key)
	}
	if p != e.lastPosition+1 {
		tawa.Raise(tawa.ContractViolation, "hash.ModelStateTable.Update", "non-monotonic advance for key %+v: last=%d new=%d", key, e.lastPosition, p)
	}
	e.lastPosition = p
	e.totalCodelength = totalCL
	e.symbolCodelength = symbolCL
	e.sentinelCodelength = sentinelCL
	e.context = context
	e.sentinelContext = sentinelContext
}

// Find reports key's current rolling state.
func (t *ModelStateTable) Find(key ModelStateKey) (position int, context, sentinelContext any, ok bool) {
	e := t.find(key)
	if e == nil || !e.started {
		return 0, nil, nil, false
	}
	return e.lastPosition, e.context, e.sentinelContext, true
}

func (t *ModelStateTable) alloc(key ModelStateKey) *modelStateEntry {
	if n := len(t.free); n > 0 {
		e := t.free[n-1]
		t.free = t.free[:n-1]
		*e = modelStateEntry{key: key}
		return e
	}
	return &modelStateEntry{key: key}
}

// Reset splices every in-use entry back onto the free list rather than
// discarding it, matching PositionTable's reinitialisation discipline.
func (t *ModelStateTable) Reset() {
	for i := range t.buckets {
		if len(t.buckets[i]) == 0 {
			continue
		}
		for _, e := range t.buckets[i] {
			e.started = false
		}
		t.free = append(t.free, t.buckets[i]...)
		t.buckets[i] = nil
	}
}
