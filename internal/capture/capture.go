// Package capture implements the live-frame driver around the detection
// core: it pulls frames from a FrameSource, runs detection at a reduced
// cadence, and relays user intent (quit, toggle overlay, save frame)
// through control flags. It contains no detection logic of its own and
// carries no measurement state between frames.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/industrial-cv/blockmeasure/internal/detect"
	"github.com/industrial-cv/blockmeasure/internal/imgio"
	"github.com/industrial-cv/blockmeasure/internal/report"
)

// FrameSource supplies frames one at a time. Next returns io.EOF when the
// source is exhausted; any other error aborts the capture loop.
type FrameSource interface {
	Next() (image.Image, error)
}

// DirSource replays the image files of a directory in name order,
// simulating a camera for testing and offline runs.
type DirSource struct {
	paths []string
	cache *imgio.Cache
	pos   int
}

// NewDirSource lists the supported image files under dir. An empty
// directory yields a source that is immediately exhausted.
func NewDirSource(dir string) (*DirSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".png", ".jpg", ".jpeg", ".gif", ".bmp":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	return &DirSource{paths: paths, cache: imgio.NewCache()}, nil
}

// Next returns the next frame in order, or io.EOF past the last file.
func (s *DirSource) Next() (image.Image, error) {
	if s.pos >= len(s.paths) {
		return nil, io.EOF
	}
	img, err := s.cache.Load(s.paths[s.pos])
	s.pos++
	return img, err
}

// Controls carries the user-intent flags a front end flips while the
// capture loop runs. All flags are safe to toggle concurrently with the
// loop.
type Controls struct {
	quit      atomic.Bool
	overlay   atomic.Bool
	saveFrame atomic.Bool
}

// NewControls returns controls with the detection overlay enabled.
func NewControls() *Controls {
	c := &Controls{}
	c.overlay.Store(true)
	return c
}

// Quit requests the loop to stop after the current frame.
func (c *Controls) Quit() { c.quit.Store(true) }

// ToggleOverlay flips whether detections are drawn on frames.
func (c *Controls) ToggleOverlay() bool {
	for {
		old := c.overlay.Load()
		if c.overlay.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// RequestSave asks the loop to persist the next processed frame.
func (c *Controls) RequestSave() { c.saveFrame.Store(true) }

// Runner drives detection over a frame stream.
type Runner struct {
	// Detector runs each measurement pass. Required.
	Detector *detect.Detector

	// Every sets the detection cadence: frames between passes. Frames in
	// between are passed through unprocessed, purely as a throughput
	// optimization. Values below 1 are treated as 1.
	Every int

	// SaveDir receives frames saved via Controls.RequestSave. Defaults
	// to the working directory.
	SaveDir string

	// OnFrame, when set, receives every outgoing frame along with the
	// most recent measurement count.
	OnFrame func(frame image.Image, blockCount int)
}

// Run consumes the source until it is exhausted, the context is
// cancelled, or ctrl.Quit is requested. Detection runs on every Nth frame
// only; annotated frames additionally carry the block-count summary label.
func (r *Runner) Run(ctx context.Context, src FrameSource, ctrl *Controls) error {
	if r.Detector == nil {
		return errors.New("capture: Runner.Detector is required")
	}
	every := r.Every
	if every < 1 {
		every = 1
	}

	frameCount := 0
	savedCount := 0
	lastBlocks := 0

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if ctrl != nil && ctrl.quit.Load() {
			return nil
		}

		frame, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("capture: frame source failed: %w", err)
		}

		overlayOn := ctrl == nil || ctrl.overlay.Load()
		if overlayOn && frameCount%every == 0 {
			result, err := r.Detector.Detect(frame, detect.DetectOptions{})
			if err != nil {
				// A bad frame is skipped, not fatal; the next frame may
				// be fine.
				log.Printf("capture: detection failed on frame %d: %v", frameCount, err)
			} else {
				lastBlocks = result.Count
				if result.Count > 0 {
					frame = report.Annotate(frame, result.Blocks, false)
				}
			}
		}

		if ctrl != nil && ctrl.saveFrame.Swap(false) {
			name := filepath.Join(r.SaveDir, fmt.Sprintf("capture_%04d.png", savedCount))
			if err := imgio.Save(frame, name); err != nil {
				log.Printf("capture: %v", err)
			} else {
				savedCount++
				log.Printf("capture: saved %s", name)
			}
		}

		if r.OnFrame != nil {
			r.OnFrame(frame, lastBlocks)
		}
		frameCount++
	}
}
