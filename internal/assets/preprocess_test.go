package assets

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/disintegration/imaging"
)

// noisyImage fills a frame with random pixels so JPEG cannot compress
// it down to almost nothing. Deterministic seed keeps sizes stable.
func noisyImage(w, h int) image.Image {
	rnd := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rnd.Intn(256)),
				G: uint8(rnd.Intn(256)),
				B: uint8(rnd.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func TestCompressPassthroughUnderCeiling(t *testing.T) {
	data := encodeJPEG(t, noisyImage(64, 64), 90)

	res, err := Compress(data, "image/jpeg", int64(len(data))+1)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.Compressed {
		t.Fatal("file under the ceiling must pass through unchanged")
	}
	if !bytes.Equal(res.Data, data) {
		t.Fatal("passthrough must not alter the payload")
	}
	if res.ContentType != "image/jpeg" {
		t.Fatalf("content type changed: %s", res.ContentType)
	}
}

func TestCompressShrinksOversizedImage(t *testing.T) {
	// A large noisy frame encodes well past the ceiling used below.
	data := encodeJPEG(t, noisyImage(2400, 1600), 95)
	ceiling := int64(len(data)) / 2

	res, err := Compress(data, "image/jpeg", ceiling)
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !res.Compressed {
		t.Fatal("oversized image should have been compressed")
	}
	if int64(len(res.Data)) > ceiling {
		t.Fatalf("result still over ceiling: %d > %d", len(res.Data), ceiling)
	}
	if res.ContentType != "image/jpeg" {
		t.Fatalf("compressed output should be jpeg, got %s", res.ContentType)
	}

	out, err := imaging.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Bounds().Dx() > 1920 {
		t.Fatalf("output wider than the largest rung: %d", out.Bounds().Dx())
	}
}

func TestCompressRejectsOversizedNonImage(t *testing.T) {
	data := bytes.Repeat([]byte("pdf-bytes "), 1024)

	_, err := Compress(data, "application/pdf", 100)
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestCompressNonImageUnderCeilingPassesThrough(t *testing.T) {
	data := []byte("%PDF-1.7 tiny")

	res, err := Compress(data, "application/pdf", int64(len(data)))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if res.Compressed {
		t.Fatal("small non-image must pass through")
	}
}

func TestCompressUndecodablePayload(t *testing.T) {
	data := bytes.Repeat([]byte{0xde, 0xad}, 4096)

	_, err := Compress(data, "image/jpeg", 16)
	if !errors.Is(err, ErrUndecodable) {
		t.Fatalf("expected ErrUndecodable, got %v", err)
	}
}

func TestIsImage(t *testing.T) {
	if !IsImage("image/png") || !IsImage(" IMAGE/JPEG ") {
		t.Fatal("known image types rejected")
	}
	if IsImage("application/pdf") || IsImage("video/mp4") {
		t.Fatal("non-image types accepted")
	}
}
