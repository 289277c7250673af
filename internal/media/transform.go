// Package media normalizes uploaded media blobs before they are attached to
// a post. Images are decoded and re-encoded into a canonical format; videos
// pass through untouched.
package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	_ "image/gif"
)

// TransformSpec describes the derivation applied to a staged blob.
type TransformSpec struct {
	MediaType string // "image" or "video", from the upload's MIME type
	Format    string // target extension for images: "jpeg" or "png"
}

// SpecFor derives the transform for an uploaded content type such as
// "image/png" or "video/mp4".
func SpecFor(contentType string) (TransformSpec, error) {
	mediaType, subtype, ok := strings.Cut(contentType, "/")
	if !ok {
		return TransformSpec{}, fmt.Errorf("malformed content type %q", contentType)
	}
	switch mediaType {
	case "image":
		format := subtype
		if format != "png" {
			format = "jpeg" // gif and everything else normalizes to jpeg
		}
		return TransformSpec{MediaType: "image", Format: format}, nil
	case "video":
		return TransformSpec{MediaType: "video", Format: subtype}, nil
	default:
		return TransformSpec{}, fmt.Errorf("unsupported media type %q", contentType)
	}
}

// Extension returns the file extension for blobs derived with this spec.
func (s TransformSpec) Extension() string {
	if s.MediaType == "image" && s.Format == "jpeg" {
		return "jpg"
	}
	return s.Format
}

// ContentType returns the MIME type of blobs derived with this spec.
func (s TransformSpec) ContentType() string {
	return s.MediaType + "/" + s.Format
}

// Transformer applies one transform. Each instance owns its scratch buffer
// and is built per invocation; nothing is cached process-wide.
type Transformer struct {
	buf bytes.Buffer
}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// Apply reads the source blob and returns the derived bytes. The returned
// reader is only valid until the next call on this Transformer.
func (t *Transformer) Apply(src io.Reader, spec TransformSpec) (io.Reader, int64, error) {
	t.buf.Reset()

	if spec.MediaType != "image" {
		n, err := io.Copy(&t.buf, src)
		if err != nil {
			return nil, 0, fmt.Errorf("copying video blob: %w", err)
		}
		return &t.buf, n, nil
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding image: %w", err)
	}

	switch spec.Format {
	case "png":
		err = png.Encode(&t.buf, img)
	default:
		err = jpeg.Encode(&t.buf, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		return nil, 0, fmt.Errorf("encoding image as %s: %w", spec.Format, err)
	}
	return &t.buf, int64(t.buf.Len()), nil
}
