package shuffle

import (
	"fmt"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/gridwords/internal/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatten(parts []executor.Partition) []string {
	var all []string
	for _, p := range parts {
		all = append(all, p...)
	}
	sort.Strings(all)
	return all
}

func TestRegroup_KeepsEveryRecord(t *testing.T) {
	t.Parallel()

	in := []executor.Partition{
		{"ab [[0,0][0,1]] false", "a [[0,0]] true"},
		{"ab [[1,1][0,1]] false", "c [[1,0]] true", "not-a-record"},
		{},
	}

	for _, n := range []int{1, 2, 3, 7} {
		out := Regroup(in, n)
		require.Len(t, out, n)
		assert.Empty(t, cmp.Diff(flatten(in), flatten(out)), "n=%d", n)
	}
}

func TestRegroup_SameKeySamePartition(t *testing.T) {
	t.Parallel()

	var in executor.Partition
	for i := 0; i < 50; i++ {
		in = append(in, fmt.Sprintf("key%d [[%d,0]] false", i%10, i))
	}

	out := Regroup([]executor.Partition{in[:25], in[25:]}, 4)

	owner := map[string]int{}
	for i, part := range out {
		for _, line := range part {
			key := KeyOf(line)
			if prev, ok := owner[key]; ok {
				assert.Equal(t, prev, i, "key %s split across partitions", key)
			}
			owner[key] = i
		}
		assert.True(t, sort.SliceIsSorted(part, func(a, b int) bool { return KeyOf(part[a]) < KeyOf(part[b]) }),
			"partition %d is not sorted by key", i)
	}
	assert.Len(t, owner, 10)
}

func TestKeyOf(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "quit", KeyOf("quit [[0,0]] false"))
	assert.Equal(t, "lonely", KeyOf("lonely"))
	assert.Equal(t, "", KeyOf(""))
}

func TestSplit(t *testing.T) {
	t.Parallel()

	records := []string{"a", "b", "c", "d", "e"}

	parts := Split(records, 2)
	assert.Equal(t, []executor.Partition{{"a", "b", "c"}, {"d", "e"}}, parts)

	parts = Split(records, 10)
	assert.Len(t, parts, 5)

	parts = Split(nil, 3)
	assert.Equal(t, []executor.Partition{{}, {}, {}}, parts)
}
