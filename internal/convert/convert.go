// Package convert turns decoded animation documents into encoded output
// files. The four output formats form a closed set; each has exactly one
// encoder, registered in a dispatch table so adding a format touches a
// single extension point.
package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stickerpress/stickerpress/internal/lottie"
	"github.com/stickerpress/stickerpress/internal/render"
)

// Format is a requested output encoding.
type Format string

const (
	FormatGIF    Format = "gif"    // Looping raster sequence, white matte.
	FormatPNG    Format = "png"    // Single still image, first frame.
	FormatAPNG   Format = "apng"   // Animated raster with alpha preserved.
	FormatLottie Format = "lottie" // Vector re-export of the document JSON.
)

// Formats lists all output formats in menu/delivery order.
func Formats() []Format {
	return []Format{FormatGIF, FormatPNG, FormatAPNG, FormatLottie}
}

// ParseFormat maps a user-facing format name onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatGIF, FormatPNG, FormatAPNG, FormatLottie:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q", s)
	}
}

// Ext returns the file extension (without dot) for the format.
func (f Format) Ext() string {
	if f == FormatLottie {
		return "json"
	}
	return string(f)
}

// Asset is one input animation within a batch: a decoded document plus the
// naming context that keeps multi-asset batches collision-free.
type Asset struct {
	Name  string // Caller-supplied base name (e.g. the sticker set name).
	Index int    // 1-based position within the batch.
	Doc   *lottie.Document
}

// FileName returns the output filename for this asset in the given format:
// <base>_<index>.<ext>.
func (a Asset) FileName(f Format) string {
	return fmt.Sprintf("%s_%d.%s", a.Name, a.Index, f.Ext())
}

// OutputFile describes one produced artifact on the staging area.
type OutputFile struct {
	Path   string // Absolute or staging-relative path of the written file.
	Name   string // Base filename, used inside archives.
	Size   int64  // Encoded byte length.
	Format Format
}

// ConversionError wraps any failure to convert one asset: undecodable
// input, encoder rejection, or a staging write error. Conversion failures
// are deterministic, so callers must not blindly retry.
type ConversionError struct {
	Asset  string
	Format Format
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("convert %s to %s: %v", e.Asset, e.Format, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Converter encodes assets into output files using a frame renderer for
// the raster formats.
type Converter struct {
	renderer render.Renderer
}

// New returns a Converter rendering frames through r.
func New(r render.Renderer) *Converter {
	return &Converter{renderer: r}
}

// Convert encodes asset into the requested format and writes exactly one
// file into destDir. A partial file left by a failed encode is removed
// before the error is returned.
func (c *Converter) Convert(ctx context.Context, asset Asset, format Format, destDir string) (OutputFile, error) {
	enc, ok := encoders[format]
	if !ok {
		return OutputFile{}, &ConversionError{Asset: asset.FileName(format), Format: format,
			Err: fmt.Errorf("no encoder registered")}
	}

	name := asset.FileName(format)
	path := filepath.Join(destDir, name)

	f, err := os.Create(path)
	if err != nil {
		return OutputFile{}, &ConversionError{Asset: name, Format: format, Err: err}
	}

	if err := enc(ctx, c.renderer, asset.Doc, f); err != nil {
		f.Close()
		os.Remove(path)
		return OutputFile{}, &ConversionError{Asset: name, Format: format, Err: err}
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return OutputFile{}, &ConversionError{Asset: name, Format: format, Err: err}
	}

	fi, err := os.Stat(path)
	if err != nil {
		return OutputFile{}, &ConversionError{Asset: name, Format: format, Err: err}
	}

	return OutputFile{
		Path:   path,
		Name:   name,
		Size:   fi.Size(),
		Format: format,
	}, nil
}
