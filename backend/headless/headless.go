// Package headless implements a Backend with no display or input, for
// batch-running ROMs and capturing periodic frame snapshots.
package headless

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/astrid-emu/gbcore/backend"
	"github.com/astrid-emu/gbcore/video"
)

// SnapshotConfig controls periodic PNG frame dumps.
type SnapshotConfig struct {
	Enabled   bool
	Interval  int // save every N frames; 0 disables
	Directory string
	ROMName   string
}

// NewSnapshotConfig builds a SnapshotConfig from CLI-style parameters,
// creating directory if it doesn't already exist (or a temp directory if
// directory is empty).
func NewSnapshotConfig(interval int, directory, romPath string) (SnapshotConfig, error) {
	cfg := SnapshotConfig{Enabled: interval > 0, Interval: interval}
	if !cfg.Enabled {
		return cfg, nil
	}

	if directory == "" {
		tempDir, err := os.MkdirTemp("", "gbcore-snapshots-*")
		if err != nil {
			return cfg, fmt.Errorf("creating snapshot directory: %w", err)
		}
		cfg.Directory = tempDir
	} else {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return cfg, fmt.Errorf("creating snapshot directory: %w", err)
		}
		cfg.Directory = directory
	}

	romName := filepath.Base(romPath)
	cfg.ROMName = strings.TrimSuffix(romName, filepath.Ext(romName))
	return cfg, nil
}

// Backend runs frames with no display, for automated testing and batch
// processing.
type Backend struct {
	config     backend.Config
	frameCount int
	maxFrames  int
	snapshots  SnapshotConfig
}

// New creates a headless Backend that reports Quit after maxFrames updates.
func New(maxFrames int, snapshots SnapshotConfig) *Backend {
	return &Backend{maxFrames: maxFrames, snapshots: snapshots}
}

func (h *Backend) Init(config backend.Config) error {
	h.config = config
	if config.TestPattern {
		slog.Info("headless test pattern mode, exiting after first update")
		return nil
	}
	slog.Info("running headless",
		"frames", h.maxFrames,
		"snapshot_interval", h.snapshots.Interval,
		"snapshot_dir", h.snapshots.Directory)
	return nil
}

func (h *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	if h.config.TestPattern {
		return []backend.InputEvent{{Button: backend.Quit, Type: backend.Press}}, nil
	}

	h.frameCount++

	if h.snapshots.Enabled && h.frameCount%h.snapshots.Interval == 0 {
		h.saveSnapshot(frame)
	}

	if h.frameCount%10 == 0 {
		slog.Info("frame progress", "completed", h.frameCount, "total", h.maxFrames)
	}

	if h.frameCount >= h.maxFrames {
		if h.snapshots.Enabled && h.frameCount%h.snapshots.Interval != 0 {
			h.saveSnapshot(frame)
		}
		slog.Info("headless run completed", "frames", h.maxFrames)
		return []backend.InputEvent{{Button: backend.Quit, Type: backend.Press}}, nil
	}

	return nil, nil
}

func (h *Backend) Cleanup() error { return nil }

// saveSnapshot writes the frame as a PNG named <rom>_frame_<n>.png.
func (h *Backend) saveSnapshot(frame *video.FrameBuffer) {
	name := fmt.Sprintf("%s_frame_%d.png", h.snapshots.ROMName, h.frameCount)
	path := filepath.Join(h.snapshots.Directory, name)

	img := image.NewRGBA(image.Rect(0, 0, video.ScreenWidth, video.ScreenHeight))
	for y := 0; y < video.ScreenHeight; y++ {
		for x := 0; x < video.ScreenWidth; x++ {
			c := uint32(frame.Get(x, y))
			img.Set(x, y, color.RGBA{
				R: uint8(c >> 24),
				G: uint8(c >> 16),
				B: uint8(c >> 8),
				A: uint8(c),
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		slog.Error("failed to create snapshot file", "frame", h.frameCount, "error", err)
		return
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		slog.Error("failed to encode snapshot PNG", "frame", h.frameCount, "error", err)
	}
}
