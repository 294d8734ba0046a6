package lottie

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/klauspost/compress/gzip"
)

const sampleJSON = `{"v":"5.5.2","nm":"wave","fr":60,"ip":0,"op":180,"w":512,"h":512,"layers":[]}`

func gzipped(t *testing.T, data string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(data)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecode_Sticker(t *testing.T) {
	doc, err := Decode(bytes.NewReader(gzipped(t, sampleJSON)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.Name != "wave" {
		t.Errorf("Name = %q", doc.Name)
	}
	if doc.FrameRate != 60 {
		t.Errorf("FrameRate = %g", doc.FrameRate)
	}
	if doc.Width != 512 || doc.Height != 512 {
		t.Errorf("canvas = %dx%d", doc.Width, doc.Height)
	}
	if got := doc.FrameCount(); got != 180 {
		t.Errorf("FrameCount = %d, want 180", got)
	}
	if got := doc.Duration(); got != 3*time.Second {
		t.Errorf("Duration = %v, want 3s", got)
	}
}

func TestDecode_RoundTripPreservesJSON(t *testing.T) {
	doc, err := Decode(bytes.NewReader(gzipped(t, sampleJSON)))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(doc.JSON()) != sampleJSON {
		t.Errorf("JSON() does not match input:\n%s", doc.JSON())
	}

	// Re-decoding the exported form yields an equivalent document.
	again, err := DecodeJSON(doc.JSON())
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if again.FrameCount() != doc.FrameCount() || again.Duration() != doc.Duration() {
		t.Errorf("round trip changed timeline: %d/%v vs %d/%v",
			again.FrameCount(), again.Duration(), doc.FrameCount(), doc.Duration())
	}
}

func TestDecode_RejectsPlainJSON(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte(sampleJSON)))
	if !errors.Is(err, ErrNotGzip) {
		t.Errorf("err = %v, want ErrNotGzip", err)
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{"not json", `gibberish`},
		{"zero frame rate", `{"fr":0,"ip":0,"op":60,"w":512,"h":512}`},
		{"negative frame rate", `{"fr":-30,"ip":0,"op":60,"w":512,"h":512}`},
		{"empty range", `{"fr":30,"ip":60,"op":60,"w":512,"h":512}`},
		{"inverted range", `{"fr":30,"ip":60,"op":0,"w":512,"h":512}`},
		{"zero canvas", `{"fr":30,"ip":0,"op":60,"w":0,"h":512}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeJSON([]byte(tt.json)); err == nil {
				t.Error("DecodeJSON = nil error, want failure")
			}
		})
	}
}

func TestDecode_FractionalFrameRange(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{"fr":29.97,"ip":0,"op":89.91,"w":100,"h":100}`))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if got := doc.FrameCount(); got != 89 {
		t.Errorf("FrameCount = %d, want 89 (truncated)", got)
	}
}
