package recall

import "strings"

// WorkingMemory is the bounded 4-slot short-term scratchpad. The array
// length is always exactly 4; empty slots are empty strings, kept in
// place to preserve position semantics.
type WorkingMemory struct {
	slots [4]string
}

// Slots returns the raw 4-slot array, empty slots included.
func (w *WorkingMemory) Slots() [4]string {
	return w.slots
}

// Entries returns the non-empty slot contents in slot order.
func (w *WorkingMemory) Entries() []string {
	entries := make([]string, 0, len(w.slots))
	for _, slot := range w.slots {
		if slot != "" {
			entries = append(entries, slot)
		}
	}
	return entries
}

// Set replaces the slots with the given values, truncating to 4 and
// clearing the remainder.
func (w *WorkingMemory) Set(slots []string) {
	var next [4]string
	for i := 0; i < len(slots) && i < len(next); i++ {
		next[i] = strings.TrimSpace(slots[i])
	}
	w.slots = next
}

// Push inserts an entry into the first empty slot. With no empty slot
// the oldest entry is evicted and the rest shift up.
func (w *WorkingMemory) Push(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}
	for i, slot := range w.slots {
		if slot == "" {
			w.slots[i] = entry
			return
		}
	}
	copy(w.slots[:], w.slots[1:])
	w.slots[len(w.slots)-1] = entry
}

// Join concatenates the non-empty entries with sep.
func (w *WorkingMemory) Join(sep string) string {
	return strings.Join(w.Entries(), sep)
}
