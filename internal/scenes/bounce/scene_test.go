package bounce

import (
	"testing"

	"github.com/vovakirdan/letterbox/internal/core"
	"github.com/vovakirdan/letterbox/internal/registry"
)

func TestSceneDeterminism(t *testing.T) {
	s1, s2 := New(), New()
	for i := 0; i < 500; i++ {
		s1.Step(1.0 / 60)
		s2.Step(1.0 / 60)
	}
	if s1.X() != s2.X() {
		t.Errorf("X diverged: %v vs %v", s1.X(), s2.X())
	}
	if s1.Frame() != 500 {
		t.Errorf("Frame() = %d, expected 500", s1.Frame())
	}
}

func TestReset(t *testing.T) {
	s := New()
	for i := 0; i < 10; i++ {
		s.Step(0.1)
	}
	s.Reset()
	if s.X() != 250 || s.Frame() != 0 {
		t.Errorf("after Reset: X = %v, Frame = %d", s.X(), s.Frame())
	}
}

func TestRenderInitialState(t *testing.T) {
	s := New()
	screen := core.NewScreen(80, 30)
	s.Render(screen)

	// Block spans design x 250..450, y 150..350: cells 31..55 by 9..21.
	tests := []struct {
		x, y     int
		expected core.Cell
	}{
		{31, 9, core.Cell{Rune: BlockChar, Color: core.ColorBrightMagenta}},
		{55, 21, core.Cell{Rune: BlockChar, Color: core.ColorBrightMagenta}},
		{30, 9, core.Cell{Rune: ' ', Color: core.ColorDefault}},
		{56, 9, core.Cell{Rune: ' ', Color: core.ColorDefault}},
		{31, 22, core.Cell{Rune: ' ', Color: core.ColorDefault}},
		// Token at design 150,50 size 30: cells 19..22 by 3..4.
		{19, 3, core.Cell{Rune: BlockChar, Color: core.ColorBrightYellow}},
		{18, 3, core.Cell{Rune: ' ', Color: core.ColorDefault}},
	}
	for _, tt := range tests {
		if got := screen.GetCell(tt.x, tt.y); got != tt.expected {
			t.Errorf("cell (%d,%d) = %q/%v, expected %q/%v", tt.x, tt.y, got.Rune, got.Color, tt.expected.Rune, tt.expected.Color)
		}
	}
}

func TestRegistered(t *testing.T) {
	if !registry.Exists("bounce") {
		t.Fatal("bounce not registered")
	}
	s, err := registry.Create("bounce")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.Title() != "Bounce" {
		t.Errorf("Title() = %q", s.Title())
	}
}
