package timeline

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(sec int) time.Time {
	return time.Date(2024, 5, 1, 0, 0, sec, 0, time.UTC)
}

func TestMergeOrdersByTimeDescending(t *testing.T) {
	reposter := uuid.New()

	originals := []Event{
		{PostID: 1, At: at(100)},
		{PostID: 2, At: at(200)},
	}
	reposts := []Event{
		{PostID: 1, At: at(300), RepostID: 7, ReposterID: reposter},
	}

	merged := Merge(originals, reposts)
	require.Len(t, merged, 3)
	assert.Equal(t, int64(1), merged[0].PostID)
	assert.True(t, merged[0].IsRepost())
	assert.Equal(t, int64(2), merged[1].PostID)
	assert.False(t, merged[1].IsRepost())
	assert.Equal(t, int64(1), merged[2].PostID)
	assert.False(t, merged[2].IsRepost())
}

func TestMergeTiebreakIsDeterministic(t *testing.T) {
	// Same timestamp everywhere; ordering must still be fully determined.
	events := []Event{
		{PostID: 3, At: at(50)},
		{PostID: 1, At: at(50)},
		{PostID: 2, At: at(50), RepostID: 9},
		{PostID: 2, At: at(50), RepostID: 4},
		{PostID: 2, At: at(50)},
	}

	first := Merge(events[:2], events[2:])
	second := Merge([]Event{events[1], events[0]}, []Event{events[4], events[3], events[2]})

	assert.Equal(t, first, second)

	// PostID descending, then RepostID descending within a post.
	assert.Equal(t, int64(3), first[0].PostID)
	assert.Equal(t, int64(9), first[1].RepostID)
	assert.Equal(t, int64(4), first[2].RepostID)
	assert.Equal(t, int64(0), first[3].RepostID)
	assert.Equal(t, int64(1), first[4].PostID)
}

func TestPagePostMergeSlicesAreDisjointAndContiguous(t *testing.T) {
	var originals, reposts []Event
	for i := 1; i <= 15; i++ {
		originals = append(originals, Event{PostID: int64(i), At: at(i)})
	}
	for i := 1; i <= 10; i++ {
		reposts = append(reposts, Event{PostID: int64(i), At: at(100 + i), RepostID: int64(i)})
	}

	merged := Merge(originals, reposts)

	pageA := Page(merged, 10, 0)
	pageB := Page(merged, 10, 10)
	require.Len(t, pageA, 10)
	require.Len(t, pageB, 10)

	seen := make(map[Event]bool)
	for _, e := range append(append([]Event{}, pageA...), pageB...) {
		assert.False(t, seen[e], "event %+v duplicated across page boundary", e)
		seen[e] = true
	}
	assert.Equal(t, merged[:20], append(append([]Event{}, pageA...), pageB...))
}

func TestPageEdgeCases(t *testing.T) {
	events := []Event{{PostID: 1, At: at(1)}, {PostID: 2, At: at(2)}}

	assert.Nil(t, Page(events, 10, 5), "offset past the end is a valid empty page")
	assert.Empty(t, Page(events, 0, 0))
	assert.Len(t, Page(events, 10, 1), 1)
	assert.Empty(t, Page(nil, 10, 0))
}
