package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/letterbox/internal/storage"
)

type fakeRunStore struct {
	runs      map[string][]storage.Run
	summaries []storage.SceneSummary
	err       error
	queried   []string
}

func (f *fakeRunStore) RecentRuns(sceneID string, limit int) ([]storage.Run, error) {
	f.queried = append(f.queried, sceneID)
	return f.runs[sceneID], f.err
}

func (f *fakeRunStore) SceneSummaries() ([]storage.SceneSummary, error) {
	return f.summaries, f.err
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{
		runs: map[string][]storage.Run{
			"bounce": {{SceneID: "bounce", Host: "tui", Mode: "cooperative", TickRate: 60, Frames: 120, Duration: 2 * time.Second}},
			"orbit":  {{SceneID: "orbit", Host: "term", Mode: "blocking", TickRate: 30, Frames: 30, Duration: time.Second}},
		},
		summaries: []storage.SceneSummary{
			{SceneID: "bounce", Runs: 1, Frames: 120, Duration: 2 * time.Second},
			{SceneID: "orbit", Runs: 1, Frames: 30, Duration: time.Second},
		},
	}
}

func TestStatsModelSwitchesScenes(t *testing.T) {
	store := newFakeRunStore()
	m := NewStatsModel(store, 120, 30)

	if !strings.Contains(m.View(), "bounce") {
		t.Error("View() missing first scene")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(StatsModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, expected 1", m.cursor)
	}
	if len(m.runs) != 1 || m.runs[0].SceneID != "orbit" {
		t.Errorf("runs = %+v, expected orbit runs", m.runs)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(StatsModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(StatsModel)
	if m.cursor != 1 {
		t.Errorf("cursor = %d, expected wrap to 1", m.cursor)
	}

	expected := []string{"bounce", "orbit", "bounce", "orbit"}
	if strings.Join(store.queried, ",") != strings.Join(expected, ",") {
		t.Errorf("queried = %v, expected %v", store.queried, expected)
	}
}

func TestStatsModelEmpty(t *testing.T) {
	m := NewStatsModel(&fakeRunStore{}, 80, 24)
	if !strings.Contains(m.View(), "No runs recorded yet") {
		t.Errorf("View() = %q, expected empty message", m.View())
	}
}

func TestStatsModelError(t *testing.T) {
	m := NewStatsModel(&fakeRunStore{err: errors.New("locked")}, 80, 24)
	if !strings.Contains(m.View(), "locked") {
		t.Errorf("View() = %q, expected error", m.View())
	}
}

func TestRunRow(t *testing.T) {
	row := RunRow(storage.Run{
		Host: "ssh", Mode: "cooperative", TickRate: 60, Frames: 300, Stalls: 2,
		SkippedDraws: 1, ResizeRequests: 1, ResizeSuppressed: 3, Duration: 5 * time.Second,
	})
	if len(row) != len(RunColumns()) {
		t.Fatalf("row has %d cells, expected %d", len(row), len(RunColumns()))
	}
	if row[4] != "60.0" {
		t.Errorf("FPS cell = %q, expected 60.0", row[4])
	}
	if row[7] != "1/4" {
		t.Errorf("resizes cell = %q, expected 1/4", row[7])
	}
}
