package timeline

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Event is one feed appearance of a post: either its original publish
// (RepostID zero) or a repost of it. Events are derived from current post
// state at read time, never cached as fact.
type Event struct {
	PostID     int64
	At         time.Time
	RepostID   int64
	ReposterID uuid.UUID
}

func (e Event) IsRepost() bool {
	return e.RepostID != 0
}

// Merge unions the original and repost sub-streams and orders them by event
// time descending. Ties break on PostID then RepostID (both descending) so
// that pagination over the merged stream is deterministic. A post legitimately
// appears once as an original and once per repost; Merge does not deduplicate.
func Merge(originals, reposts []Event) []Event {
	merged := make([]Event, 0, len(originals)+len(reposts))
	merged = append(merged, originals...)
	merged = append(merged, reposts...)
	sort.Slice(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if !a.At.Equal(b.At) {
			return a.At.After(b.At)
		}
		if a.PostID != b.PostID {
			return a.PostID > b.PostID
		}
		return a.RepostID > b.RepostID
	})
	return merged
}

// Page slices the merged stream. Pagination happens after the merge; slicing
// the sub-streams first would skew page boundaries toward whichever stream is
// queried first.
func Page(events []Event, limit, offset int) []Event {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	if offset >= len(events) {
		return nil
	}
	end := offset + limit
	if end > len(events) {
		end = len(events)
	}
	return events[offset:end]
}
