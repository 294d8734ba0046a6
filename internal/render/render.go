// Package render defines the frame rendering boundary for animation
// documents and provides the external-renderer implementation used in
// production. Encoders consume rendered frames without knowing how they
// were produced, so tests can substitute a synthetic renderer.
package render

import (
	"context"
	"image"

	"github.com/stickerpress/stickerpress/internal/lottie"
)

// Renderer produces pixel frames for a document. RenderSequence yields the
// full frame sequence at the native frame rate; RenderStill yields only the
// first frame. Frames are RGBA with the alpha channel intact, sized to the
// document canvas, ordered from the document's in-point.
type Renderer interface {
	RenderSequence(ctx context.Context, doc *lottie.Document) ([]*image.RGBA, error)
	RenderStill(ctx context.Context, doc *lottie.Document) (*image.RGBA, error)
}
