package pagination

import (
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fetch emulates a repository: rows strictly after the cursor, in order, at most take.
func fetch(all []int, q Query) []int {
	start := 0
	if q.Cursor != "" {
		start = len(all)
		for i, v := range all {
			if strconv.Itoa(v) == q.Cursor {
				start = i + 1
				break
			}
		}
	}
	end := start + q.Take()
	if end > len(all) {
		end = len(all)
	}
	return append([]int(nil), all[start:end]...)
}

func key(v int) string { return strconv.Itoa(v) }

func TestWindowWalksEveryRowOnce(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 25, 30} {
		for _, limit := range []int{1, 3, 10} {
			all := make([]int, n)
			for i := range all {
				all[i] = i + 1
			}

			var seen []int
			q := Query{Limit: limit}
			pages := 0
			for {
				page := Window(fetch(all, q), q, key)
				pages++
				require.LessOrEqual(t, len(page.Data), limit)
				seen = append(seen, page.Data...)

				if !page.HasNextPage {
					assert.Nil(t, page.NextCursor, "final page must not carry a cursor")
					break
				}
				require.NotNil(t, page.NextCursor)
				q.Cursor = *page.NextCursor
				require.Less(t, pages, n+2, "pagination did not terminate")
			}

			if n == 0 {
				assert.Empty(t, seen)
				continue
			}
			assert.Equal(t, all, seen, "n=%d limit=%d", n, limit)
		}
	}
}

func TestWindowFinalPage(t *testing.T) {
	page := Window([]int{1, 2}, Query{Limit: 2}, key)
	assert.False(t, page.HasNextPage)
	assert.Nil(t, page.NextCursor)
	assert.Equal(t, []int{1, 2}, page.Data)
}

func TestWindowEmptyIsNotNil(t *testing.T) {
	page := Window[int](nil, Query{}, key)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
}

func TestWindowTrimsSentinel(t *testing.T) {
	page := Window([]int{1, 2, 3, 4}, Query{Limit: 3}, key)
	assert.True(t, page.HasNextPage)
	assert.Equal(t, []int{1, 2, 3}, page.Data)
	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "3", *page.NextCursor)
}

func TestTakeDefaults(t *testing.T) {
	assert.Equal(t, DefaultLimit+1, Query{}.Take())
	assert.Equal(t, MaxLimit+1, Query{Limit: 1000}.Take())
	assert.Equal(t, 6, Query{Limit: 5}.Take())
}

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, Query{Limit: DefaultLimit}, q)

	q, err = ParseQuery(url.Values{"cursor": {"abc"}, "limit": {"25"}})
	require.NoError(t, err)
	assert.Equal(t, Query{Cursor: "abc", Limit: 25}, q)

	for _, bad := range []string{"0", "-1", "101", "ten"} {
		_, err = ParseQuery(url.Values{"limit": {bad}})
		assert.ErrorIs(t, err, ErrInvalidLimit, bad)
	}
}

func TestMapKeepsCursor(t *testing.T) {
	page := Window([]int{1, 2, 3}, Query{Limit: 2}, key)
	mapped := Map(page, func(v int) string { return "#" + strconv.Itoa(v) })
	assert.Equal(t, []string{"#1", "#2"}, mapped.Data)
	assert.Equal(t, page.NextCursor, mapped.NextCursor)
	assert.True(t, mapped.HasNextPage)
}
