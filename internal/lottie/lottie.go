// Package lottie provides decoding and typed inspection of Telegram
// animated sticker documents. A .tgs file is a gzip-compressed Lottie JSON
// document; Decode inflates it, parses the header fields needed for
// rendering decisions, and keeps the canonical JSON bytes so the document
// can be re-exported without loss.
package lottie

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/klauspost/compress/gzip"
)

// MaxDocumentBytes caps the inflated document size. Telegram rejects .tgs
// uploads above 64 KiB compressed; anything inflating past this limit is
// not a sticker.
const MaxDocumentBytes = 16 << 20

// ErrNotGzip is returned by Decode when the input lacks a gzip header.
var ErrNotGzip = errors.New("not a gzip stream (expected .tgs input)")

// Document is a decoded animation. The raw canonical JSON is retained
// verbatim; header fields are parsed out of it for convenience.
type Document struct {
	raw []byte

	Name      string  // "nm": author-assigned animation name, may be empty.
	Version   string  // "v": Bodymovin schema version.
	FrameRate float64 // "fr": frames per second.
	InPoint   float64 // "ip": first frame of the playable range.
	OutPoint  float64 // "op": one past the last frame of the playable range.
	Width     int     // "w": canvas width in pixels.
	Height    int     // "h": canvas height in pixels.
}

// header mirrors the top-level Lottie JSON fields Document needs.
type header struct {
	Name      string  `json:"nm"`
	Version   string  `json:"v"`
	FrameRate float64 `json:"fr"`
	InPoint   float64 `json:"ip"`
	OutPoint  float64 `json:"op"`
	Width     int     `json:"w"`
	Height    int     `json:"h"`
}

// Decode reads a complete .tgs stream: gunzip, then parse. The returned
// document owns its raw JSON and is immutable afterwards.
func Decode(r io.Reader) (*Document, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		if errors.Is(err, gzip.ErrHeader) {
			return nil, ErrNotGzip
		}
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(io.LimitReader(zr, MaxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("inflate document: %w", err)
	}
	if len(raw) > MaxDocumentBytes {
		return nil, fmt.Errorf("document exceeds %d bytes after inflation", MaxDocumentBytes)
	}

	return DecodeJSON(raw)
}

// DecodeJSON parses an already-inflated Lottie JSON document. Exported for
// testing and for callers that hold raw JSON rather than a .tgs stream.
func DecodeJSON(raw []byte) (*Document, error) {
	var h header
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("parse animation JSON: %w", err)
	}

	doc := &Document{
		raw:       raw,
		Name:      h.Name,
		Version:   h.Version,
		FrameRate: h.FrameRate,
		InPoint:   h.InPoint,
		OutPoint:  h.OutPoint,
		Width:     h.Width,
		Height:    h.Height,
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// validate rejects documents that cannot be rendered: non-positive frame
// rate, empty playable range, or degenerate canvas.
func (d *Document) validate() error {
	if d.FrameRate <= 0 {
		return fmt.Errorf("invalid frame rate %g", d.FrameRate)
	}
	if d.OutPoint <= d.InPoint {
		return fmt.Errorf("empty frame range [%g, %g)", d.InPoint, d.OutPoint)
	}
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("invalid canvas %dx%d", d.Width, d.Height)
	}
	return nil
}

// JSON returns the canonical document bytes exactly as decoded. Callers
// must not modify the returned slice.
func (d *Document) JSON() []byte {
	return d.raw
}

// FrameCount returns the number of frames in the playable range.
func (d *Document) FrameCount() int {
	return int(d.OutPoint - d.InPoint)
}

// Duration returns the playable length at the native frame rate.
func (d *Document) Duration() time.Duration {
	seconds := (d.OutPoint - d.InPoint) / d.FrameRate
	return time.Duration(seconds * float64(time.Second))
}
