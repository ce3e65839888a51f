package timeline

import (
	"sort"
	"strings"

	"github.com/hadiwyne/write-space/internal/model"
)

// Score is the engagement score used by the popularity modes: likes weigh
// twice as much as comments.
func Score(likes, comments int64) int64 {
	return 2*likes + comments
}

// RankByScore orders candidates by engagement score descending. The sort is
// stable, so ties keep the order of the underlying fetch.
func RankByScore(candidates []model.PostEngagement) []model.PostEngagement {
	ranked := make([]model.PostEngagement, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i].Likes, ranked[i].Comments) > Score(ranked[j].Likes, ranked[j].Comments)
	})
	return ranked
}

// NormalizeTag lowercases and trims a tag. Tags are stored normalized and
// matched exactly, so "FICTION" and "fiction" hit the same posts while "fic"
// does not.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// CountTags tallies tag frequency across post tag sets and returns the top
// tags by descending count, ties broken alphabetically for stable output.
func CountTags(tagSets [][]string, limit int) []model.TagCount {
	counts := make(map[string]int)
	for _, tags := range tagSets {
		for _, tag := range tags {
			t := NormalizeTag(tag)
			if t != "" {
				counts[t]++
			}
		}
	}

	result := make([]model.TagCount, 0, len(counts))
	for tag, count := range counts {
		result = append(result, model.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Tag < result[j].Tag
	})

	if limit >= 0 && len(result) > limit {
		result = result[:limit]
	}
	return result
}
