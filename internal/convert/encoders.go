package convert

// One encoder per format. Raster encoders pull frames through the render
// boundary; the vector encoder re-emits the document's canonical JSON.

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"io"
	"math"

	"github.com/kettek/apng"

	"github.com/stickerpress/stickerpress/internal/lottie"
	"github.com/stickerpress/stickerpress/internal/render"
)

type encodeFunc func(ctx context.Context, r render.Renderer, doc *lottie.Document, w io.Writer) error

// encoders is the closed dispatch table. Adding a format means adding a
// constant, an extension, and one entry here.
var encoders = map[Format]encodeFunc{
	FormatGIF:    encodeGIF,
	FormatPNG:    encodePNG,
	FormatAPNG:   encodeAPNG,
	FormatLottie: encodeLottie,
}

// encodeGIF renders every frame and writes a looping GIF at the document's
// native frame rate. GIF has no alpha channel, so frames are composited
// onto a white matte before palette quantization.
func encodeGIF(ctx context.Context, r render.Renderer, doc *lottie.Document, w io.Writer) error {
	frames, err := r.RenderSequence(ctx, doc)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("renderer produced no frames")
	}

	delay := int(math.Round(100 / doc.FrameRate)) // centiseconds per frame
	if delay < 1 {
		delay = 1
	}

	out := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(frames)),
		Delay:     make([]int, 0, len(frames)),
		LoopCount: 0, // loop forever
	}
	for _, frame := range frames {
		out.Image = append(out.Image, quantize(frame))
		out.Delay = append(out.Delay, delay)
	}
	return gif.EncodeAll(w, out)
}

// quantize composites an RGBA frame onto white and reduces it to the
// standard 256-color palette with error-diffusion dithering.
func quantize(frame *image.RGBA) *image.Paletted {
	b := frame.Bounds()
	matte := image.NewRGBA(b)
	draw.Draw(matte, b, image.White, image.Point{}, draw.Src)
	draw.Draw(matte, b, frame, b.Min, draw.Over)

	p := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(p, b, matte, b.Min)
	return p
}

// encodePNG renders exactly the first frame and writes it as a still PNG.
// A still preview needs no animation timeline.
func encodePNG(ctx context.Context, r render.Renderer, doc *lottie.Document, w io.Writer) error {
	frame, err := r.RenderStill(ctx, doc)
	if err != nil {
		return err
	}
	return png.Encode(w, frame)
}

// encodeAPNG renders every frame and writes an animated PNG, the only
// raster target here that carries animated transparency.
func encodeAPNG(ctx context.Context, r render.Renderer, doc *lottie.Document, w io.Writer) error {
	frames, err := r.RenderSequence(ctx, doc)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("renderer produced no frames")
	}

	num, den := frameDelay(doc.FrameRate)
	out := apng.APNG{Frames: make([]apng.Frame, len(frames))}
	for i, frame := range frames {
		out.Frames[i] = apng.Frame{
			Image:            frame,
			DelayNumerator:   num,
			DelayDenominator: den,
			DisposeOp:        apng.DISPOSE_OP_BACKGROUND,
			BlendOp:          apng.BLEND_OP_SOURCE,
		}
	}
	return apng.Encode(w, out)
}

// frameDelay expresses 1/fps as an APNG delay fraction. Integral rates map
// to 1/fps directly; fractional rates (29.97) are scaled by 100.
func frameDelay(fps float64) (num, den uint16) {
	if fps == math.Trunc(fps) && fps <= math.MaxUint16 {
		return 1, uint16(fps)
	}
	scaled := math.Round(fps * 100)
	if scaled > math.MaxUint16 {
		return 1, math.MaxUint16
	}
	return 100, uint16(scaled)
}

// encodeLottie re-serializes the decoded document: a structural round-trip
// back to its canonical JSON, no pixel rendering involved.
func encodeLottie(_ context.Context, _ render.Renderer, doc *lottie.Document, w io.Writer) error {
	_, err := w.Write(doc.JSON())
	return err
}
