// Package shard assigns keys to parallel scan segments.
package shard

import (
	"hash/fnv"
)

// Segment returns the scan segment, in [0, totalSegments), that owns key.
// With totalSegments <= 1, every key belongs to segment 0.
func Segment(key string, totalSegments int) int {
	if totalSegments <= 1 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(totalSegments))
}
