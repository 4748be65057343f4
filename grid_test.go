package gridview

import (
	"math"
	"testing"

	"github.com/akmonengine/gridview/geometry"
	"github.com/go-gl/mathgl/mgl64"
)

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-3, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 4}, {100, 128}, {128, 128}, {129, 256},
		{1<<33 + 1, 1 << 34}, {1 << 40, 1 << 40},
	}

	for _, tt := range tests {
		if got := nextPowerOfTwo(tt.input); got != tt.expected {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestPreviousPowerOfTwo(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-3, 1}, {0, 1}, {1, 1}, {2, 2}, {3, 2}, {100, 64}, {128, 128}, {129, 128},
		{1<<33 + 1, 1 << 33},
	}

	for _, tt := range tests {
		if got := previousPowerOfTwo(tt.input); got != tt.expected {
			t.Errorf("previousPowerOfTwo(%d) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestNewGrid_RoundsSizes(t *testing.T) {
	settings := DefaultGridSettings(100)
	settings.CellSize = 3
	g := NewGrid(settings)

	if g.Settings().MaxSize != 64 {
		t.Errorf("MaxSize = %d, want 64", g.Settings().MaxSize)
	}
	if g.CellSize() != 4 {
		t.Errorf("CellSize = %d, want 4", g.CellSize())
	}

	settings.CellSize = 100
	if got := NewGrid(settings).CellSize(); got != 64 {
		t.Errorf("CellSize at MaxSize = %d, want 64", got)
	}
}

func TestGrid_CellSizeNeverExceedsConfiguredMax(t *testing.T) {
	for _, maxSize := range []int{1, 3, 100, 128, 1000} {
		g := NewGrid(DefaultGridSettings(maxSize))

		for _, height := range []float64{0, 48, 1e3, 1e6, 2e11, 1e300} {
			if got := g.Plan(mgl64.Vec3{0, height, 0}).CellSize; got > maxSize || got < 1 {
				t.Errorf("maxSize %d, height %g: plan CellSize = %d", maxSize, height, got)
			}
		}

		for range 20 {
			g.IncreaseGridSize()
		}
		if got := g.CellSize(); got > maxSize {
			t.Errorf("maxSize %d: preferred CellSize = %d after increases", maxSize, got)
		}
	}
}

func TestGridPlan_ExtremeHeightNonPowerOfTwoMax(t *testing.T) {
	g := NewGrid(DefaultGridSettings(100))

	if got := g.Plan(mgl64.Vec3{0, 1e6, 0}).CellSize; got != 64 {
		t.Errorf("CellSize = %d, want 64", got)
	}
}

func TestGridPlan_DefaultCamera(t *testing.T) {
	g := NewGrid(DefaultGridSettings(128))
	plan := g.Plan(mgl64.Vec3{0, 24, 30})

	expected := GridPlan{
		CellSize:  1,
		Start:     geometry.Vec2i{X: -197, Y: -167},
		Count:     geometry.Vec2i{X: 396, Y: 396},
		LineStart: mgl64.Vec2{-196, -167},
		LineEnd:   mgl64.Vec2{196, 196},
		Dim:       196,
	}
	if plan != expected {
		t.Errorf("Plan() =\n%+v\nwant\n%+v", plan, expected)
	}
}

func TestGridPlan_CellSizeGrowth(t *testing.T) {
	g := NewGrid(DefaultGridSettings(128))

	tests := []struct {
		name     string
		height   float64
		expected int
	}{
		{"on the ground", 0, 1},
		{"below the ground", -24, 1},
		{"low", 24, 1},
		{"zoom 1", 48, 4},
		{"zoom 2", 96, 4},
		{"high", 1000, 64},
		{"very high", 10000, 128},
		{"extreme", 1e12, 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := g.Plan(mgl64.Vec3{0, tt.height, 0})
			if plan.CellSize != tt.expected {
				t.Errorf("CellSize = %d, want %d", plan.CellSize, tt.expected)
			}
			wantDim := math.Log2(float64(tt.expected+1)) * 196
			if math.Abs(plan.Dim-wantDim) > 1e-9 {
				t.Errorf("Dim = %v, want %v", plan.Dim, wantDim)
			}
		})
	}
}

func TestGridPlan_Monotonic(t *testing.T) {
	for _, maxSize := range []int{1, 16, 128, 1024} {
		g := NewGrid(DefaultGridSettings(maxSize))

		for _, xz := range []mgl64.Vec2{{0, 0}, {513.7, -91.2}, {-1e4, 3e3}} {
			previous := g.Plan(mgl64.Vec3{xz.X(), 1, xz.Y()})
			for height := 2.0; height < 1e9; height *= 2 {
				plan := g.Plan(mgl64.Vec3{xz.X(), height, xz.Y()})

				if plan.Dim < previous.Dim {
					t.Fatalf("max %d at height %v: Dim decreased from %v to %v", maxSize, height, previous.Dim, plan.Dim)
				}
				if plan.CellSize > maxSize || plan.CellSize < 1 {
					t.Fatalf("max %d at height %v: CellSize %d out of [1, %d]", maxSize, height, plan.CellSize, maxSize)
				}
				previous = plan
			}
		}
	}
}

func TestGridPlan_ExtentsClamped(t *testing.T) {
	g := NewGrid(DefaultGridSettings(128))

	positions := []mgl64.Vec3{{0, 24, 30}, {1000, 5, -2000}, {-77, 300, 12}, {0, 5000, 0}}
	for _, p := range positions {
		plan := g.Plan(p)
		for i := 0; i < 2; i++ {
			if plan.LineStart[i] < -plan.Dim || plan.LineEnd[i] > plan.Dim {
				t.Errorf("camera %v: extents [%v, %v] outside ±%v", p, plan.LineStart, plan.LineEnd, plan.Dim)
			}
		}
		if plan.Count.X < 4 || plan.Count.Y < 4 {
			t.Errorf("camera %v: window should always be padded, count = %v", p, plan.Count)
		}
	}
}

func TestClassifyLine(t *testing.T) {
	for k := -5; k <= 5; k++ {
		if k != 0 {
			if got := ClassifyLine(8*k, 8); got != LineMajor {
				t.Errorf("ClassifyLine(%d) = %v, want major", 8*k, got)
			}
		}
		if got := ClassifyLine(8*k+1, 8); got != LineMinor {
			t.Errorf("ClassifyLine(%d) = %v, want minor", 8*k+1, got)
		}
	}
	if got := ClassifyLine(0, 8); got != LineOrigin {
		t.Errorf("ClassifyLine(0) = %v, want origin", got)
	}
}

func TestGridLines(t *testing.T) {
	g := NewGrid(DefaultGridSettings(128))
	plan := g.Plan(mgl64.Vec3{0, 24, 30})

	counts := make(map[LineType]int)
	last := LineMinor
	for line := range g.Lines(plan) {
		if line.Type < last {
			t.Fatalf("lines must come in minor, major, origin order")
		}
		last = line.Type
		counts[line.Type]++

		if line.From.Y() != 0 || line.To.Y() != 0 {
			t.Fatalf("line %v is not on the ground plane", line)
		}
		for _, p := range []mgl64.Vec3{line.From, line.To} {
			if math.Abs(p.X()) > plan.Dim || math.Abs(p.Z()) > plan.Dim {
				t.Fatalf("line %v leaves the grid dimensions ±%v", line, plan.Dim)
			}
		}
	}

	// one origin line per axis
	if counts[LineOrigin] != 2 {
		t.Errorf("origin lines = %d, want 2", counts[LineOrigin])
	}
	// x in [-196, 196], z in [-167, 196]: indices every 8, zero excluded
	if counts[LineMajor] != 48+44 {
		t.Errorf("major lines = %d, want %d", counts[LineMajor], 48+44)
	}
	total := counts[LineMinor] + counts[LineMajor] + counts[LineOrigin]
	if total != 393+364 {
		t.Errorf("total lines = %d, want %d", total, 393+364)
	}
}

func TestGridLines_EarlyStop(t *testing.T) {
	g := NewGrid(DefaultGridSettings(128))
	n := 0
	for range g.Lines(g.Plan(mgl64.Vec3{0, 24, 30})) {
		n++
		if n == 10 {
			break
		}
	}
	if n != 10 {
		t.Errorf("expected to stop after 10 lines, got %d", n)
	}
}

func TestGridIncreaseDecrease(t *testing.T) {
	g := NewGrid(DefaultGridSettings(128))

	expected := []int{2, 4, 8, 16, 32, 64, 128, 128, 128}
	for i, want := range expected {
		g.IncreaseGridSize()
		if g.CellSize() != want {
			t.Fatalf("increase %d: CellSize = %d, want %d", i+1, g.CellSize(), want)
		}
	}

	expected = []int{64, 32, 16, 8, 4, 2, 1, 1, 1}
	for i, want := range expected {
		g.DecreaseGridSize()
		if g.CellSize() != want {
			t.Fatalf("decrease %d: CellSize = %d, want %d", i+1, g.CellSize(), want)
		}
	}
}

func TestGridPreferredSizeFeedsPlan(t *testing.T) {
	g := NewGrid(DefaultGridSettings(128))
	g.IncreaseGridSize()
	g.IncreaseGridSize()

	// low camera: no zoom growth, the preferred size is used as is
	if plan := g.Plan(mgl64.Vec3{0, 10, 0}); plan.CellSize != 4 {
		t.Errorf("CellSize = %d, want 4", plan.CellSize)
	}
	// zoom 2: 4 is already 2 units apart on screen
	if plan := g.Plan(mgl64.Vec3{0, 96, 0}); plan.CellSize != 4 {
		t.Errorf("CellSize = %d, want 4", plan.CellSize)
	}
}
