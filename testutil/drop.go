package testutil

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrCloneRefused is returned by Tracked.TryClone when the tracker was told
// to refuse duplicating that value.
var ErrCloneRefused = errors.New("testutil: clone refused")

var (
	trackers    sync.Map // uint32 -> *DropTracker
	nextTracker atomic.Uint32
)

// Tracked is a pointer-free element that reports its destruction to a
// DropTracker. Each Tracked created by the tracker carries a unique serial.
type Tracked struct {
	Tracker uint32
	Serial  uint32
	Value   int64
}

// Drop implements rawvec.Dropper.
func (t Tracked) Drop() {
	if tr := lookup(t.Tracker); tr != nil {
		tr.recordDrop(t.Serial)
	}
}

// TryClone implements rawvec.TryCloner. The copy gets a new serial.
func (t Tracked) TryClone() (Tracked, error) {
	tr := lookup(t.Tracker)
	if tr == nil {
		return t, nil
	}
	return tr.clone(t)
}

// DropTracker counts creations and drops of Tracked values.
type DropTracker struct {
	id uint32

	mu         sync.Mutex
	serial     uint32
	created    int
	drops      map[uint32]int
	refuse     map[int64]bool
	cloneCount int
}

// NewDropTracker registers a new tracker. Call Close when done.
func NewDropTracker() *DropTracker {
	tr := &DropTracker{
		id:     nextTracker.Add(1),
		drops:  make(map[uint32]int),
		refuse: make(map[int64]bool),
	}
	trackers.Store(tr.id, tr)
	return tr
}

func lookup(id uint32) *DropTracker {
	if v, ok := trackers.Load(id); ok {
		return v.(*DropTracker)
	}
	return nil
}

// Close unregisters the tracker.
func (tr *DropTracker) Close() {
	trackers.Delete(tr.id)
}

// New creates a Tracked holding value.
func (tr *DropTracker) New(value int64) Tracked {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.newLocked(value)
}

func (tr *DropTracker) newLocked(value int64) Tracked {
	tr.serial++
	tr.created++
	return Tracked{Tracker: tr.id, Serial: tr.serial, Value: value}
}

// RefuseClone makes TryClone fail for every Tracked holding value.
func (tr *DropTracker) RefuseClone(value int64) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.refuse[value] = true
}

func (tr *DropTracker) clone(t Tracked) (Tracked, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	if tr.refuse[t.Value] {
		return Tracked{}, ErrCloneRefused
	}
	tr.cloneCount++
	return tr.newLocked(t.Value), nil
}

func (tr *DropTracker) recordDrop(serial uint32) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.drops[serial]++
}

// Drops returns how often t was dropped.
func (tr *DropTracker) Drops(t Tracked) int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.drops[t.Serial]
}

// Created returns the number of Tracked values created, clones included.
func (tr *DropTracker) Created() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.created
}

// Clones returns the number of successful TryClone calls.
func (tr *DropTracker) Clones() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return tr.cloneCount
}

// Dropped returns the total number of drops.
func (tr *DropTracker) Dropped() int {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	n := 0
	for _, c := range tr.drops {
		n += c
	}
	return n
}

// Live returns created minus dropped.
func (tr *DropTracker) Live() int {
	return tr.Created() - tr.Dropped()
}

// DoubleDrops returns the serials dropped more than once.
func (tr *DropTracker) DoubleDrops() []uint32 {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	var out []uint32
	for s, c := range tr.drops {
		if c > 1 {
			out = append(out, s)
		}
	}
	return out
}
