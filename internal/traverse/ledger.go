package traverse

import "github.com/morozRed/assetrefs/internal/universe"

// Ledger tracks which objects may still be visited during one rebuild. An
// object is marked visitable before the pass and consumed the first time the
// walker enters it, so no object is enumerated twice per pass.
type Ledger struct {
	visitable map[universe.ObjectID]bool
	consumed  int
}

func NewLedger() *Ledger {
	return &Ledger{visitable: make(map[universe.ObjectID]bool)}
}

// Reset clears every mark.
func (l *Ledger) Reset() {
	l.visitable = make(map[universe.ObjectID]bool)
	l.consumed = 0
}

// Mark flags id as visitable.
func (l *Ledger) Mark(id universe.ObjectID) {
	if id == universe.NoObject {
		return
	}
	l.visitable[id] = true
}

// MarkAll resets the ledger and flags every object in the universe that
// eligible accepts. It returns the number of marked objects.
func (l *Ledger) MarkAll(host universe.Host, eligible func(universe.ObjectID) bool) int {
	l.Reset()
	host.Objects(func(id universe.ObjectID) {
		if eligible == nil || eligible(id) {
			l.Mark(id)
		}
	})
	return len(l.visitable)
}

// TryConsume returns true exactly once for a visitable id.
func (l *Ledger) TryConsume(id universe.ObjectID) bool {
	if !l.visitable[id] {
		return false
	}
	delete(l.visitable, id)
	l.consumed++
	return true
}

// Visitable reports whether id is marked and not yet consumed.
func (l *Ledger) Visitable(id universe.ObjectID) bool {
	return l.visitable[id]
}

// Len returns the number of objects still visitable.
func (l *Ledger) Len() int {
	return len(l.visitable)
}

// Consumed returns how many objects were consumed since the last reset.
func (l *Ledger) Consumed() int {
	return l.consumed
}
