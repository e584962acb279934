// Package shuffle regroups the records of a pass by their letter-string key.
//
// It is the merge step between two passes: every record with the same key is
// routed to the same partition, and each partition is sorted by key, the way
// a distributed runtime would shuffle and sort map output before a reduce.
// The step never drops, duplicates or alters a record; with a single
// partition it only sorts.
package shuffle

import (
	"cmp"
	"hash/fnv"
	"slices"
	"strings"

	"github.com/specialistvlad/gridwords/internal/executor"
)

// KeyOf returns the grouping key of a wire-form record: everything before the
// first space. A line without a space is its own key.
func KeyOf(line string) string {
	key, _, _ := strings.Cut(line, " ")
	return key
}

// PartitionFor returns the partition index in [0, n) that owns key.
func PartitionFor(key string, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}

// Regroup redistributes the records of parts into n partitions by key.
func Regroup(parts []executor.Partition, n int) []executor.Partition {
	if n < 1 {
		n = 1
	}

	type keyed struct {
		key  string
		line string
	}
	buckets := make([][]keyed, n)
	for _, part := range parts {
		for _, line := range part {
			key := KeyOf(line)
			i := PartitionFor(key, n)
			buckets[i] = append(buckets[i], keyed{key: key, line: line})
		}
	}

	out := make([]executor.Partition, n)
	for i, bucket := range buckets {
		slices.SortStableFunc(bucket, func(a, b keyed) int {
			return cmp.Compare(a.key, b.key)
		})
		part := make(executor.Partition, len(bucket))
		for j, k := range bucket {
			part[j] = k.line
		}
		out[i] = part
	}
	return out
}

// Split cuts records into at most n partitions of near-equal size, keeping
// their order. Seed records are spread this way before the first pass.
func Split(records []string, n int) []executor.Partition {
	if n < 1 {
		n = 1
	}
	if n > len(records) && len(records) > 0 {
		n = len(records)
	}
	out := make([]executor.Partition, n)
	size := (len(records) + n - 1) / n
	for i := range out {
		lo := min(i*size, len(records))
		hi := min(lo+size, len(records))
		part := make(executor.Partition, 0, hi-lo)
		out[i] = append(part, records[lo:hi]...)
	}
	return out
}
