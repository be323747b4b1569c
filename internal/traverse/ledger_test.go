package traverse

import (
	"testing"

	"github.com/morozRed/assetrefs/internal/universe"
	"github.com/stretchr/testify/assert"
)

func TestLedgerConsumesOnce(t *testing.T) {
	l := NewLedger()
	l.Mark("a")
	l.Mark(universe.NoObject)

	assert.True(t, l.Visitable("a"))
	assert.True(t, l.TryConsume("a"))
	assert.False(t, l.TryConsume("a"))
	assert.False(t, l.Visitable("a"))
	assert.False(t, l.TryConsume("b"))
	assert.Equal(t, 1, l.Consumed())
	assert.Equal(t, 0, l.Len())
}

func TestLedgerMarkAllResets(t *testing.T) {
	u := scenario(t)
	l := NewLedger()
	l.Mark("stale")

	marked := l.MarkAll(u, func(id universe.ObjectID) bool { return id != "B" })
	assert.Equal(t, u.Len()-1, marked)
	assert.False(t, l.Visitable("stale"))
	assert.False(t, l.Visitable("B"))
	assert.True(t, l.Visitable("C"))
	assert.Equal(t, 0, l.Consumed())
}
