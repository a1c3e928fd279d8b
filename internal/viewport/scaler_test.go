package viewport

import (
	"errors"
	"testing"

	"github.com/vovakirdan/letterbox/internal/core"
)

func TestCompute(t *testing.T) {
	logical := core.NewSize(640, 480)

	tests := []struct {
		name     string
		surface  core.Size
		expected Viewport
	}{
		{
			name:     "pillarbox: wider surface is height constrained",
			surface:  core.NewSize(1280, 480),
			expected: Viewport{X: 320, Y: 0, W: 640, H: 480},
		},
		{
			name:     "letterbox: taller surface is width constrained",
			surface:  core.NewSize(640, 960),
			expected: Viewport{X: 0, Y: 240, W: 640, H: 480},
		},
		{
			name:     "identical size has no bars",
			surface:  core.NewSize(640, 480),
			expected: Viewport{X: 0, Y: 0, W: 640, H: 480},
		},
		{
			name:     "exact 2x upscale",
			surface:  core.NewSize(1280, 960),
			expected: Viewport{X: 0, Y: 0, W: 1280, H: 960},
		},
		{
			name:     "downscale into a wide window",
			surface:  core.NewSize(400, 150),
			expected: Viewport{X: 100, Y: 0, W: 200, H: 150},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			vp, clip, err := Compute(logical, tc.surface)
			if err != nil {
				t.Fatalf("Compute() failed: %v", err)
			}
			if vp != tc.expected {
				t.Errorf("Compute() viewport = %+v, expected %+v", vp, tc.expected)
			}
			if Viewport(clip) != vp {
				t.Errorf("Compute() clip = %+v, expected it to equal the viewport", clip)
			}
		})
	}
}

// 2:1 content in a 1280x480 surface.
func TestComputeWideContent(t *testing.T) {
	vp, _, err := Compute(core.NewSize(640, 320), core.NewSize(1280, 480))
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	expected := Viewport{X: 160, Y: 0, W: 960, H: 480}
	if vp != expected {
		t.Errorf("Compute() = %+v, expected %+v", vp, expected)
	}
}

func TestComputeRejectsZeroArea(t *testing.T) {
	tests := []struct {
		name             string
		logical, surface core.Size
	}{
		{"zero surface height", core.NewSize(640, 480), core.NewSize(800, 0)},
		{"zero surface width", core.NewSize(640, 480), core.NewSize(0, 600)},
		{"negative surface", core.NewSize(640, 480), core.NewSize(-1, 600)},
		{"zero logical height", core.NewSize(640, 0), core.NewSize(800, 600)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := Compute(tc.logical, tc.surface)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("Compute() error = %v, expected ErrInvalidGeometry", err)
			}
		})
	}
}

func TestComputeIsPure(t *testing.T) {
	logical := core.NewSize(64, 24)
	surface := core.NewSize(211, 57)

	vp1, clip1, err1 := Compute(logical, surface)
	vp2, clip2, err2 := Compute(logical, surface)
	if err1 != nil || err2 != nil {
		t.Fatalf("Compute() failed: %v / %v", err1, err2)
	}
	if vp1 != vp2 || clip1 != clip2 {
		t.Errorf("Compute() not idempotent: %+v/%+v vs %+v/%+v", vp1, clip1, vp2, clip2)
	}
}

func TestComputePreservesAspect(t *testing.T) {
	logical := core.NewSize(64, 24)
	for w := 1; w <= 300; w += 7 {
		for h := 1; h <= 120; h += 5 {
			vp, _, err := Compute(logical, core.NewSize(w, h))
			if err != nil {
				t.Fatalf("Compute(%dx%d) failed: %v", w, h, err)
			}
			got := vp.W / vp.H
			if diff := got - logical.Aspect(); diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("Compute(%dx%d) aspect = %f, expected %f", w, h, got, logical.Aspect())
			}
			if vp.X < 0 || vp.Y < 0 || vp.X+vp.W > float64(w)+1e-9 || vp.Y+vp.H > float64(h)+1e-9 {
				t.Fatalf("Compute(%dx%d) = %+v escapes the surface", w, h, vp)
			}
		}
	}
}

func TestViewportBounds(t *testing.T) {
	vp, clip, err := Compute(core.NewSize(4, 3), core.NewSize(10, 3))
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	// 4x3 content, height constrained: width 4, x offset 3.
	expected := core.NewRect(3, 0, 4, 3)
	if vp.Bounds() != expected {
		t.Errorf("Bounds() = %+v, expected %+v", vp.Bounds(), expected)
	}
	if clip.Bounds() != expected {
		t.Errorf("clip Bounds() = %+v, expected %+v", clip.Bounds(), expected)
	}
}

func TestViewportToLogical(t *testing.T) {
	logical := core.NewSize(4, 2)
	vp, _, err := Compute(logical, core.NewSize(12, 4))
	if err != nil {
		t.Fatalf("Compute() failed: %v", err)
	}
	// 2x upscale, pillarboxed by 2 cells on each side.

	tests := []struct {
		x, y   int
		lx, ly int
		ok     bool
	}{
		{0, 0, 0, 0, false}, // left bar
		{2, 0, 0, 0, true},
		{3, 1, 0, 0, true},
		{4, 2, 1, 1, true},
		{9, 3, 3, 1, true},
		{10, 0, 0, 0, false}, // right bar
	}

	for _, tc := range tests {
		lx, ly, ok := vp.ToLogical(tc.x, tc.y, logical)
		if ok != tc.ok || (ok && (lx != tc.lx || ly != tc.ly)) {
			t.Errorf("ToLogical(%d, %d) = (%d, %d, %v), expected (%d, %d, %v)", tc.x, tc.y, lx, ly, ok, tc.lx, tc.ly, tc.ok)
		}
	}

	sx, sy := vp.ToSurface(4, 2, logical)
	if sx != 10 || sy != 4 {
		t.Errorf("ToSurface(4, 2) = (%f, %f), expected (10, 4)", sx, sy)
	}
	if s := vp.Scale(logical); s != 2 {
		t.Errorf("Scale() = %f, expected 2", s)
	}
}
