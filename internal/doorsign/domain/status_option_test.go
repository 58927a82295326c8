package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortOptions(t *testing.T) {
	t.Parallel()

	names := func(opts []StatusOption) []string {
		out := make([]string, len(opts))
		for i, o := range opts {
			out[i] = o.Name
		}
		return out
	}

	t.Run("numeric order with unparsable last", func(t *testing.T) {
		opts := []StatusOption{
			{Name: "two", SortOrder: "2"},
			{Name: "weird", SortOrder: "abc"},
			{Name: "zero", SortOrder: "0"},
			{Name: "one", SortOrder: "1"},
		}
		SortOptions(opts)
		require.Equal(t, []string{"zero", "one", "two", "weird"}, names(opts))
	})

	t.Run("unparsable ties keep insertion order", func(t *testing.T) {
		opts := []StatusOption{
			{Name: "a", SortOrder: "x"},
			{Name: "b", SortOrder: ""},
			{Name: "c", SortOrder: "nope"},
		}
		SortOptions(opts)
		require.Equal(t, []string{"a", "b", "c"}, names(opts))
	})

	t.Run("numeric ties keep insertion order", func(t *testing.T) {
		opts := []StatusOption{
			{Name: "first", SortOrder: "5"},
			{Name: "second", SortOrder: "5"},
			{Name: "head", SortOrder: "-1"},
		}
		SortOptions(opts)
		require.Equal(t, []string{"head", "first", "second"}, names(opts))
	})
}

func TestEffectiveStatus(t *testing.T) {
	t.Parallel()

	u := User{CurrentStatus: "Out"}
	require.Equal(t, "Out", u.EffectiveStatus())

	u.CustomStatusText = "Back tomorrow"
	require.Equal(t, "Back tomorrow", u.EffectiveStatus())
}

func TestStatusKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "user2_status", User{EpaperID: "user2"}.StatusKey())
}
