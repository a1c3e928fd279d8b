package registry

import (
	"testing"

	"github.com/vovakirdan/letterbox/internal/core"
)

type stubScene struct {
	id    string
	steps uint64
}

func (s *stubScene) ID() string              { return s.id }
func (s *stubScene) Title() string           { return "Stub " + s.id }
func (s *stubScene) Reset()                  { s.steps = 0 }
func (s *stubScene) Step(float64)            { s.steps++ }
func (s *stubScene) Render(dst *core.Screen) {}
func (s *stubScene) Frame() uint64           { return s.steps }

func TestRegisterAndCreate(t *testing.T) {
	Register("stub-b", func() Scene { return &stubScene{id: "stub-b"} })
	Register("stub-a", func() Scene { return &stubScene{id: "stub-a"} })

	if !Exists("stub-a") {
		t.Error("Exists(stub-a) = false")
	}
	if Exists("missing") {
		t.Error("Exists(missing) = true")
	}

	s, err := Create("stub-a")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if s.ID() != "stub-a" || s.Frame() != 0 {
		t.Errorf("Create() = %s at frame %d", s.ID(), s.Frame())
	}

	if _, err := Create("missing"); err == nil {
		t.Error("Create(missing) expected error")
	}

	list := List()
	var ids []string
	for _, info := range list {
		ids = append(ids, info.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Errorf("List() not sorted: %v", ids)
		}
	}
	for _, info := range list {
		if info.ID == "stub-b" && info.Title != "Stub stub-b" {
			t.Errorf("title = %q, expected %q", info.Title, "Stub stub-b")
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	Register("stub-dup", func() Scene { return &stubScene{id: "stub-dup"} })
	defer func() {
		if recover() == nil {
			t.Error("duplicate Register did not panic")
		}
	}()
	Register("stub-dup", func() Scene { return &stubScene{id: "stub-dup"} })
}
