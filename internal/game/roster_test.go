package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoster_InsertionOrder(t *testing.T) {
	r := newRoster()

	r.Add("c1", "Alice")
	r.Add("c2", "Bob")
	r.Add("c3", "Carol")

	got := r.Active()
	require.Len(t, got, 3)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, "Bob", got[1].Name)
	assert.Equal(t, "Carol", got[2].Name)
}

func TestRoster_DuplicateAddUpdatesName(t *testing.T) {
	r := newRoster()

	r.Add("c1", "Alice")
	r.Add("c1", "Alicia")

	assert.Equal(t, 1, r.Len())
	p, ok := r.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "Alicia", p.Name)
}

func TestRoster_DeactivateRetainsEntry(t *testing.T) {
	r := newRoster()

	r.Add("c1", "Alice")
	r.Add("c2", "Bob")

	p, ok := r.Deactivate("c1")
	require.True(t, ok)
	assert.Equal(t, "Alice", p.Name)
	assert.False(t, p.Active)

	assert.True(t, r.Contains("c1"), "deactivated player stays in the roster")
	assert.Len(t, r.Active(), 1)
	assert.Len(t, r.All(), 2)
}

func TestRoster_DeactivateUnknown(t *testing.T) {
	r := newRoster()

	_, ok := r.Deactivate("ghost")
	assert.False(t, ok)
}

func TestRoster_RejoinReactivates(t *testing.T) {
	r := newRoster()

	r.Add("c1", "Alice")
	r.Deactivate("c1")
	r.Add("c1", "Alice")

	assert.Len(t, r.Active(), 1)
	assert.Equal(t, 1, r.Len())
}
