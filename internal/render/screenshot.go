package render

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vovakirdan/letterbox/internal/core"
)

// SaveScreenshot writes the plain-text contents of s to
// dir/<sceneID>_<timestamp>.txt and returns the path.
func SaveScreenshot(dir, sceneID string, s *core.Screen, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("render: create screenshot directory: %w", err)
	}

	timestamp := now.Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", sceneID, timestamp))
	if err := os.WriteFile(path, []byte(s.String()), 0o600); err != nil {
		return "", fmt.Errorf("render: write screenshot: %w", err)
	}
	return path, nil
}
