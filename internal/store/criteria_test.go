package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestEqualsBuild(t *testing.T) {
	frag, args := Equals("guid", "google/123").Build()
	require.Equal(t, "guid = ?", frag)
	require.Equal(t, []any{"google/123"}, args)
}

func TestContainsBuild(t *testing.T) {
	frag, args := Contains("contents", "milk").Build()
	require.Equal(t, "contents LIKE ?", frag)
	require.Equal(t, []any{"%milk%"}, args)
}

func TestNestedBuild(t *testing.T) {
	c := And(Equals("owner_id", int64(7)), Or(Contains("contents", "a"), Equals("id", int64(1))))
	frag, args := c.Build()
	require.Equal(t, "((owner_id = ?) and (((contents LIKE ?) or (id = ?))))", frag)
	require.Equal(t, []any{int64(7), "%a%", int64(1)}, args)
}

// Placeholder count must equal argument count for every tree shape, and
// arguments must come out in left-to-right leaf order. Positional
// binding depends on both.
func TestCriteriaPlaceholderArity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c, want := genCriteria(t, 0)
		frag, args := c.Build()
		require.Equal(t, strings.Count(frag, "?"), len(args))
		require.Equal(t, want, args)
	})
}

func genCriteria(t *rapid.T, depth int) (Criteria, []any) {
	if depth >= 4 || rapid.Bool().Draw(t, "leaf") {
		if rapid.Bool().Draw(t, "eq") {
			v := rapid.Int64().Draw(t, "value")
			return Equals("owner_id", v), []any{v}
		}
		s := rapid.StringMatching(`[a-z]{0,8}`).Draw(t, "substring")
		return Contains("contents", s), []any{"%" + s + "%"}
	}
	left, lv := genCriteria(t, depth+1)
	right, rv := genCriteria(t, depth+1)
	args := append(append([]any{}, lv...), rv...)
	if rapid.Bool().Draw(t, "and") {
		return And(left, right), args
	}
	return Or(left, right), args
}
