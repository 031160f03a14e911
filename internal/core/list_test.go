package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ids(bs []Budget) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}

func TestListReconciliation(t *testing.T) {
	list := []Budget{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}}

	appended := AppendByID(list, Budget{ID: "d", Name: "D"})
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(appended))

	replaced := ReplaceByID(appended, Budget{ID: "b", Name: "B2"})
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids(replaced))
	assert.Equal(t, "B2", replaced[1].Name)
	assert.Equal(t, "B", appended[1].Name, "replace must not mutate its input")

	removed := RemoveByID(replaced, "b")
	assert.Equal(t, []string{"a", "c", "d"}, ids(removed))

	assert.Equal(t, ids(removed), ids(RemoveByID(removed, "zzz")))
	assert.Equal(t, ids(removed), ids(ReplaceByID(removed, Budget{ID: "zzz"})))
}

func TestFindByID(t *testing.T) {
	list := []Account{{ID: "a", Name: "Wallet"}}
	got, ok := FindByID(list, "a")
	assert.True(t, ok)
	assert.Equal(t, "Wallet", got.Name)

	_, ok = FindByID(list, "b")
	assert.False(t, ok)
}
