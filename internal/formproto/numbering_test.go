package formproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFnvNumbers(t *testing.T) {
	names := []string{"id", "type", "label", "attrs", "cols", "rows", "columns", "table", "tabs"}
	got := fnvNumbers(names)
	require.Len(t, got, len(names))

	seen := map[int]bool{}
	for i, n := range got {
		assert.GreaterOrEqual(t, n, 1, names[i])
		assert.LessOrEqual(t, n, maxNumber, names[i])
		assert.False(t, n >= reservedStart && n <= reservedEnd, "%s landed in reserved range", names[i])
		assert.False(t, seen[n], "%s reuses %d", names[i], n)
		seen[n] = true
	}

	// order of declaration does not matter
	reversed := make([]string, len(names))
	for i, n := range names {
		reversed[len(names)-1-i] = n
	}
	back := fnvNumbers(reversed)
	for i := range names {
		assert.Equal(t, got[i], back[len(names)-1-i])
	}

	// adding a name leaves existing numbers alone unless it collides
	extended := fnvNumbers(append(append([]string{}, names...), "placeholder"))
	assert.Equal(t, got, extended[:len(names)])
}

func TestFnvNumbers_Collision(t *testing.T) {
	got := fnvNumbers([]string{"same", "same"})
	require.Len(t, got, 2)
	assert.NotEqual(t, got[0], got[1])
	assert.Equal(t, got[0]+1, got[1])
	assert.Nil(t, fnvNumbers(nil))
}
