package slices_test

import (
	"strconv"
	"testing"

	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/cmp"
	"github.com/amd-enterprise-ai/amd-eai-suite-sub006/pkg/utils/slices"
)

func TestMap(t *testing.T) {
	got := slices.Map([]int{1, 2, 3}, strconv.Itoa)
	if !cmp.SliceEq(got, []string{"1", "2", "3"}) {
		t.Errorf("got %v", got)
	}
}

func TestFilter(t *testing.T) {
	got := slices.Filter([]int{1, 2, 3, 4, 5}, func(v int) bool { return v%2 == 0 })
	if !cmp.SliceEq(got, []int{2, 4}) {
		t.Errorf("got %v", got)
	}
}

func TestFirst(t *testing.T) {
	t.Run("when found, it returns the first match", func(t *testing.T) {
		got, ok := slices.First([]int{1, 2, 3, 4}, func(v int) bool { return 2 < v })
		if !ok || got != 3 {
			t.Errorf("got (%d, %v)", got, ok)
		}
	})
	t.Run("when not found, it returns zero and false", func(t *testing.T) {
		got, ok := slices.First([]int{1, 2}, func(v int) bool { return 10 < v })
		if ok || got != 0 {
			t.Errorf("got (%d, %v)", got, ok)
		}
	})
}

func TestContains(t *testing.T) {
	if !slices.Contains([]string{"a", "b"}, "b") {
		t.Error("b should be found")
	}
	if slices.Contains([]string{"a", "b"}, "c") {
		t.Error("c should not be found")
	}
}

func TestToMap(t *testing.T) {
	type item struct {
		id   string
		size int
	}
	got := slices.ToMap(
		[]item{{"a", 1}, {"b", 2}, {"a", 3}},
		func(v item) string { return v.id },
	)
	want := map[string]item{"a": {"a", 3}, "b": {"b", 2}}
	if !cmp.MapEq(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestKeysOf(t *testing.T) {
	got := slices.KeysOf(map[string]int{"a": 1, "b": 2})
	if !cmp.SliceContentEq(got, []string{"a", "b"}) {
		t.Errorf("got %v", got)
	}
}
