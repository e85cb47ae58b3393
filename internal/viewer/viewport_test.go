package viewer

import (
	"math"
	"math/rand"
	"testing"
)

func TestOnDocumentLoaded(t *testing.T) {
	v := NewViewport(DefaultScale)
	if v.Ready() {
		t.Fatal("new viewport should not be ready")
	}

	v.OnDocumentLoaded(10)
	v.NextPage(4)
	if v.CurrentPage != 5 {
		t.Fatalf("CurrentPage = %d, want 5", v.CurrentPage)
	}

	// fresh load always starts at the first page
	v.OnDocumentLoaded(3)
	if v.CurrentPage != 1 || v.TotalPages != 3 {
		t.Errorf("after reload = %d/%d, want 1/3", v.CurrentPage, v.TotalPages)
	}
}

func TestNavigationInertWithoutPages(t *testing.T) {
	v := NewViewport(DefaultScale)
	v.OnDocumentLoaded(0)

	if got := v.NextPage(1); got != 0 {
		t.Errorf("NextPage on empty document = %d, want 0", got)
	}
	if got := v.GoToPage(3); got != 0 {
		t.Errorf("GoToPage on empty document = %d, want 0", got)
	}

	v.OnDocumentLoaded(2)
	if got := v.NextPage(1); got != 2 {
		t.Errorf("NextPage after positive load = %d, want 2", got)
	}
}

func TestNextPageClamps(t *testing.T) {
	tests := []struct {
		name  string
		total int
		moves []int
		want  int
	}{
		{"forward", 10, []int{1, 1}, 3},
		{"past end", 10, []int{25}, 10},
		{"before start", 10, []int{-4}, 1},
		{"back and forth", 5, []int{3, -1, 10, -2}, 3},
		{"single page", 1, []int{1, -1, 1}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(DefaultScale)
			v.OnDocumentLoaded(tt.total)
			for _, d := range tt.moves {
				v.NextPage(d)
			}
			if v.CurrentPage != tt.want {
				t.Errorf("CurrentPage = %d, want %d", v.CurrentPage, tt.want)
			}
		})
	}
}

func TestNextPageStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	const total = 12

	v := NewViewport(DefaultScale)
	v.OnDocumentLoaded(total)
	for i := 0; i < 2000; i++ {
		v.NextPage(rng.Intn(31) - 15)
		if v.CurrentPage < 1 || v.CurrentPage > total {
			t.Fatalf("step %d: CurrentPage = %d out of [1, %d]", i, v.CurrentPage, total)
		}
	}
}

func TestSetScaleStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	v := NewViewport(DefaultScale)
	for i := 0; i < 2000; i++ {
		v.SetScale((rng.Float64() - 0.5) * 2)
		if v.Scale < MinScale || v.Scale > MaxScale {
			t.Fatalf("step %d: Scale = %v out of [%v, %v]", i, v.Scale, MinScale, MaxScale)
		}
	}
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSetScaleSteps(t *testing.T) {
	v := NewViewport(DefaultScale)

	for i := 0; i < 3; i++ {
		v.SetScale(-ScaleStep)
	}
	if !near(v.Scale, MinScale) {
		t.Errorf("Scale = %v, want %v", v.Scale, MinScale)
	}
	v.SetScale(-ScaleStep)
	if !near(v.Scale, MinScale) {
		t.Errorf("Scale below minimum = %v", v.Scale)
	}

	for i := 0; i < 30; i++ {
		v.SetScale(ScaleStep)
	}
	if !near(v.Scale, MaxScale) {
		t.Errorf("Scale = %v, want %v", v.Scale, MaxScale)
	}
	if v.ScalePercent() != 250 {
		t.Errorf("ScalePercent() = %d, want 250", v.ScalePercent())
	}

	v.ResetScale()
	if !near(v.Scale, DefaultScale) {
		t.Errorf("ResetScale() = %v, want %v", v.Scale, DefaultScale)
	}
}

func TestNewViewportClampsInitialScale(t *testing.T) {
	if v := NewViewport(9); !near(v.Scale, MaxScale) {
		t.Errorf("NewViewport(9).Scale = %v", v.Scale)
	}
	if v := NewViewport(0); !near(v.Scale, MinScale) {
		t.Errorf("NewViewport(0).Scale = %v", v.Scale)
	}
}

func TestSetScaleFineSteps(t *testing.T) {
	tests := []struct {
		name  string
		step  float64
		times int
		want  float64
	}{
		{"below a percent", 0.004, 10, 0.64},
		{"one and a half percent", 0.015, 4, 0.66},
		{"negative fine step", -0.003, 5, 0.585},
		{"fine step into minimum", -0.07, 5, MinScale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(DefaultScale)
			for i := 0; i < tt.times; i++ {
				v.SetScale(tt.step)
			}
			if !near(v.Scale, tt.want) {
				t.Errorf("Scale after %d x %v = %v, want %v", tt.times, tt.step, v.Scale, tt.want)
			}
		})
	}
}
