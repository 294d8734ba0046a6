package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stickerpress/stickerpress/internal/lottie"
)

// framePattern is the filename pattern the renderer binary must produce:
// one PNG per frame, zero-padded, starting at index 0.
const framePattern = "frame_%05d.png"

// ExecRenderer shells out to an external rlottie-based renderer binary.
//
// Invocation contract:
//
//	<command> --frames <n> --size <w>x<h> <input.json> <outdir>/frame
//
// The binary must write frame_00000.png through frame_<n-1>.png next to the
// given prefix. Any wrapper script honoring this contract works.
type ExecRenderer struct {
	Command   string
	MaxFrames int // Frame cap; 0 means no cap.
}

// NewExecRenderer returns a renderer invoking command for each document.
func NewExecRenderer(command string, maxFrames int) *ExecRenderer {
	return &ExecRenderer{Command: command, MaxFrames: maxFrames}
}

// RenderSequence writes the document to a private temp directory, runs the
// renderer binary, and reads the produced frames back. The temp directory
// is removed on every exit path.
func (r *ExecRenderer) RenderSequence(ctx context.Context, doc *lottie.Document) ([]*image.RGBA, error) {
	return r.render(ctx, doc, r.frameBudget(doc))
}

// RenderStill renders only the first frame of the document.
func (r *ExecRenderer) RenderStill(ctx context.Context, doc *lottie.Document) (*image.RGBA, error) {
	frames, err := r.render(ctx, doc, 1)
	if err != nil {
		return nil, err
	}
	return frames[0], nil
}

func (r *ExecRenderer) render(ctx context.Context, doc *lottie.Document, frames int) ([]*image.RGBA, error) {
	dir, err := os.MkdirTemp("", "stickerpress-render-")
	if err != nil {
		return nil, fmt.Errorf("create render dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inputPath := filepath.Join(dir, "input.json")
	if err := os.WriteFile(inputPath, doc.JSON(), 0o644); err != nil {
		return nil, fmt.Errorf("write render input: %w", err)
	}

	args := buildArgs(doc, frames, inputPath, filepath.Join(dir, "frame"))
	cmd := exec.CommandContext(ctx, r.Command, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("renderer %s: %w%s", r.Command, err, stderrTail(stderrBuf.String()))
	}

	return ReadFrames(dir, frames)
}

// frameBudget returns the number of frames to render, applying MaxFrames.
func (r *ExecRenderer) frameBudget(doc *lottie.Document) int {
	frames := doc.FrameCount()
	if r.MaxFrames > 0 && frames > r.MaxFrames {
		frames = r.MaxFrames
	}
	return frames
}

// buildArgs assembles the renderer argument list for one document.
func buildArgs(doc *lottie.Document, frames int, inputPath, outPrefix string) []string {
	return []string{
		"--frames", strconv.Itoa(frames),
		"--size", fmt.Sprintf("%dx%d", doc.Width, doc.Height),
		inputPath,
		outPrefix,
	}
}

// ReadFrames loads n rendered PNG frames from dir and normalizes each to
// RGBA. Exported for testing without a real renderer binary.
func ReadFrames(dir string, n int) ([]*image.RGBA, error) {
	frames := make([]*image.RGBA, 0, n)
	for i := 0; i < n; i++ {
		path := filepath.Join(dir, fmt.Sprintf(framePattern, i))
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("missing rendered frame %d: %w", i, err)
		}
		img, err := png.Decode(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode rendered frame %d: %w", i, err)
		}
		frames = append(frames, toRGBA(img))
	}
	return frames, nil
}

// toRGBA returns img as *image.RGBA, copying only when necessary.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// stderrTail formats the last lines of renderer stderr for error messages.
func stderrTail(stderr string) string {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return ""
	}
	lines := strings.Split(stderr, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, " | ")
}
