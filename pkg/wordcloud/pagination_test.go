package wordcloud

import (
	"fmt"
	"testing"

	"github.com/soretetsu/tetsunavi/pkg/catalog"
)

func TestPageSize_Tiers(t *testing.T) {
	tests := []struct {
		width float64
		want  int
	}{
		{0, 10},
		{320, 10},
		{479, 10},
		{480, 12},
		{600, 12},
		{767, 12},
		{768, 14},
		{1024, 14},
		{3840, 14},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("w=%v", tt.width), func(t *testing.T) {
			if got := PageSize(tt.width); got != tt.want {
				t.Errorf("PageSize(%v) = %d, want %d", tt.width, got, tt.want)
			}
		})
	}
}

func TestPageSize_MonotonicNonDecreasing(t *testing.T) {
	prev := 0
	for w := 0.0; w <= 2000; w += 1 {
		size := PageSize(w)
		if size != 10 && size != 12 && size != 14 {
			t.Fatalf("PageSize(%v) = %d, not in {10,12,14}", w, size)
		}
		if size < prev {
			t.Fatalf("PageSize decreased at width %v: %d -> %d", w, prev, size)
		}
		prev = size
	}
}

func TestCompact(t *testing.T) {
	if !Compact(480) {
		t.Error("Compact(480) = false, want true")
	}
	if Compact(768) {
		t.Error("Compact(768) = true, want false")
	}
}

func tagList(n int) []catalog.Tag {
	tags := make([]catalog.Tag, n)
	for i := range tags {
		tags[i] = catalog.Tag{Name: fmt.Sprintf("tag-%02d", i), Kind: catalog.KindTheme}
	}
	return tags
}

func TestState_NextWrapsToZero(t *testing.T) {
	for _, n := range []int{0, 1, 5, 10, 23, 35, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := NewState(tagList(n), 1024)
			count := s.PageCount()
			for range count {
				s.Next()
			}
			if s.Page != 0 {
				t.Errorf("after %d Next calls Page = %d, want 0", count, s.Page)
			}
		})
	}
}

func TestState_EmptyList(t *testing.T) {
	s := NewState(nil, 1024)
	if got := s.PageCount(); got != 1 {
		t.Errorf("PageCount() = %d, want 1", got)
	}
	s.Next() // must not panic
	if items := s.CurrentItems(); len(items) != 0 {
		t.Errorf("CurrentItems() = %d items, want 0", len(items))
	}
}

func TestState_CurrentItemsClipped(t *testing.T) {
	s := NewState(tagList(25), 1024) // page size 14 -> pages of 14 and 11
	if got := len(s.CurrentItems()); got != 14 {
		t.Errorf("page 0 len = %d, want 14", got)
	}
	s.Next()
	last := s.CurrentItems()
	if got := len(last); got != 11 {
		t.Errorf("page 1 len = %d, want 11", got)
	}
	if last[0].Name != "tag-14" {
		t.Errorf("page 1 starts at %q, want tag-14", last[0].Name)
	}
}

func TestState_PagesCoverAllItemsOnce(t *testing.T) {
	s := NewState(tagList(33), 600) // page size 12
	seen := map[string]int{}
	for range s.PageCount() {
		for _, tag := range s.CurrentItems() {
			seen[tag.Name]++
		}
		s.Next()
	}
	if len(seen) != 33 {
		t.Fatalf("pages covered %d distinct items, want 33", len(seen))
	}
	for name, count := range seen {
		if count != 1 {
			t.Errorf("%s appeared %d times across pages", name, count)
		}
	}
}

func TestState_ResizeResetsPage(t *testing.T) {
	s := NewState(tagList(40), 1024)
	s.Next()
	s.Next()

	if changed := s.Resize(1200); changed {
		t.Error("Resize within the same tier should report no change")
	}
	if s.Page != 2 {
		t.Errorf("Page = %d after no-op resize, want 2", s.Page)
	}

	if changed := s.Resize(400); !changed {
		t.Error("Resize across tiers should report a change")
	}
	if s.Page != 0 {
		t.Errorf("Page = %d after resize, want 0", s.Page)
	}
	if s.PageSize != 10 {
		t.Errorf("PageSize = %d after resize, want 10", s.PageSize)
	}
}
