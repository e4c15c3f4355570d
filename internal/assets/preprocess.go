// Package assets shrinks uploaded images to fit the storage ceiling.
//
// Images over the ceiling are re-encoded as JPEG through a fixed ladder
// of decreasing dimensions and quality until one rung fits. Files that
// are not images cannot be shrunk and are rejected outright when they
// exceed the ceiling.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	// ErrTooLarge reports a file over the ceiling that cannot be
	// compressed, either because it is not an image or because even
	// the smallest ladder rung did not fit.
	ErrTooLarge = errors.New("file exceeds the size limit")

	ErrUndecodable = errors.New("image could not be decoded")
)

// A rung pairs a maximum width with a JPEG quality. Rungs are tried in
// order; later rungs trade more fidelity for smaller output.
type rung struct {
	MaxWidth int
	Quality  int
}

var ladder = []rung{
	{MaxWidth: 1920, Quality: 85},
	{MaxWidth: 1600, Quality: 75},
	{MaxWidth: 1280, Quality: 70},
	{MaxWidth: 1024, Quality: 65},
}

// Result describes the outcome of preprocessing one upload.
type Result struct {
	Data        []byte
	ContentType string
	Compressed  bool
}

// Compress returns data unchanged when it already fits under maxBytes.
// Oversized images come back as JPEG from the first ladder rung that
// fits; oversized non-images fail with ErrTooLarge.
func Compress(data []byte, contentType string, maxBytes int64) (Result, error) {
	if int64(len(data)) <= maxBytes {
		return Result{Data: data, ContentType: contentType, Compressed: false}, nil
	}

	if !IsImage(contentType) {
		return Result{}, fmt.Errorf("%w: %s is not compressible", ErrTooLarge, contentType)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	for _, step := range ladder {
		resized := src
		if src.Bounds().Dx() > step.MaxWidth {
			resized = imaging.Resize(src, step.MaxWidth, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(step.Quality)); err != nil {
			return Result{}, fmt.Errorf("encode at width %d: %w", step.MaxWidth, err)
		}

		if int64(buf.Len()) <= maxBytes {
			return Result{Data: buf.Bytes(), ContentType: "image/jpeg", Compressed: true}, nil
		}
	}

	return Result{}, fmt.Errorf("%w: image still too large after compression", ErrTooLarge)
}

// IsImage reports whether the content type is one the ladder can decode.
func IsImage(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp", "image/bmp":
		return true
	}
	return false
}
