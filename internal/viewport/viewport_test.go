package viewport

import (
	"math/rand"
	"testing"
)

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name                           string
		scrollTop, height, rowH, total int
		want                           Range
	}{
		{"large data mid scroll", 4000, 400, 40, 100000, Range{90, 120}},
		{"top", 0, 400, 40, 100000, Range{0, 20}},
		{"near end", 40 * 995, 400, 40, 1000, Range{985, 1000}},
		{"short view", 0, 400, 40, 5, Range{0, 5}},
		{"partial row visible", 20, 90, 40, 100, Range{0, 6}},
		{"empty view", 0, 400, 40, 0, Range{}},
		{"zero row height", 0, 400, 0, 10, Range{}},
		{"negative scroll", -50, 400, 40, 100, Range{0, 20}},
		{"scrolled past end", 1 << 20, 400, 40, 10, Range{10, 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRange(tt.scrollTop, tt.height, tt.rowH, tt.total)
			if got != tt.want {
				t.Errorf("ComputeRange = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeRange_Containment(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		rowH := rng.Intn(60) + 1
		total := rng.Intn(5000)
		height := rng.Intn(1200)
		scroll := rng.Intn(total*rowH + 1)

		r := ComputeRange(scroll, height, rowH, total)
		if r.Start < 0 || r.Start > r.End || r.End > total {
			t.Fatalf("range %v out of bounds for total %d", r, total)
		}
		band := VisibleBand(scroll, height, rowH, total)
		if !band.Empty() && (band.Start < r.Start || band.End > r.End) {
			t.Fatalf("visible band %v not contained in %v (scroll=%d h=%d rowH=%d total=%d)",
				band, r, scroll, height, rowH, total)
		}
	}
}

func TestTracker(t *testing.T) {
	tr := NewTracker()
	r := Range{0, 10}

	if !tr.ShouldRender(r) {
		t.Fatal("first render must run")
	}
	if tr.ShouldRender(r) {
		t.Error("identical range without force should skip")
	}
	tr.Invalidate()
	if !tr.ShouldRender(r) {
		t.Error("forced render should run with identical range")
	}
	if tr.ShouldRender(r) {
		t.Error("force flag should clear after a render")
	}
	if !tr.ShouldRender(Range{1, 11}) {
		t.Error("changed range should render")
	}

	renders, skips := tr.Counts()
	if renders != 3 || skips != 2 {
		t.Errorf("Counts = %d renders, %d skips", renders, skips)
	}

	tr.Reset()
	if _, ok := tr.Last(); ok {
		t.Error("Reset should forget the last range")
	}
	if !tr.ShouldRender(Range{1, 11}) {
		t.Error("render after Reset must run")
	}
}

func TestViewport_Scrolling(t *testing.T) {
	v := New(10, 1)
	const total = 100

	v.ScrollToBottom(total)
	if v.ScrollTop() != 90 {
		t.Errorf("ScrollToBottom = %d, want 90", v.ScrollTop())
	}
	v.ScrollBy(50, total)
	if v.ScrollTop() != 90 {
		t.Errorf("ScrollBy past end = %d, want 90", v.ScrollTop())
	}
	v.ScrollToRow(40, total)
	if v.ScrollTop() != 40 {
		t.Errorf("ScrollToRow = %d, want 40", v.ScrollTop())
	}
	v.ScrollToTop()
	if v.ScrollTop() != 0 {
		t.Errorf("ScrollToTop = %d", v.ScrollTop())
	}
	if v.TotalHeight(total) != 100 || v.VisibleRows() != 10 {
		t.Error("TotalHeight/VisibleRows mismatch")
	}

	v.ScrollToRow(95, total)
	v.Clamp(20)
	if v.ScrollTop() != 10 {
		t.Errorf("Clamp after shrink = %d, want 10", v.ScrollTop())
	}
}

func TestViewport_EnsureVisibleMinimalScroll(t *testing.T) {
	v := New(10, 1)
	const total = 100
	v.SetScrollTop(20, total)

	tests := []struct {
		row     int
		want    int
		changed bool
	}{
		{25, 20, false},
		{29, 20, false},
		{30, 21, true},
		{19, 19, true},
		{99, 90, true},
		{-1, 90, false},
	}
	for _, tt := range tests {
		changed := v.EnsureVisible(tt.row, total)
		if v.ScrollTop() != tt.want || changed != tt.changed {
			t.Errorf("EnsureVisible(%d): scrollTop=%d changed=%v, want %d %v",
				tt.row, v.ScrollTop(), changed, tt.want, tt.changed)
		}
	}
}

func TestViewport_RangeUsesState(t *testing.T) {
	v := New(400, 40)
	v.SetScrollTop(4000, 100000)
	if got := v.Range(100000); got != (Range{90, 120}) {
		t.Errorf("Range = %v", got)
	}
	if got := v.Visible(100000); got != (Range{100, 110}) {
		t.Errorf("Visible = %v", got)
	}
}
