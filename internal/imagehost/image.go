package imagehost

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"strings"

	_ "image/gif" // Register GIF decoder

	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
)

// Prepare checks that data is an image and, when maxWidth is non-zero and
// the image is wider, scales it down keeping the aspect ratio. It returns
// the bytes to upload and their MIME type.
func Prepare(data []byte, maxWidth uint) ([]byte, string, error) {
	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") {
		return nil, "", ErrNotImage
	}
	if maxWidth == 0 {
		return data, mtype.String(), nil
	}

	// Only re-encode formats we can write back in the same format.
	switch {
	case mtype.Is("image/jpeg"), mtype.Is("image/png"):
	default:
		return data, mtype.String(), nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if uint(img.Bounds().Dx()) <= maxWidth {
		return data, mtype.String(), nil
	}

	resized := resize.Resize(maxWidth, 0, img, resize.Lanczos3)

	var buf bytes.Buffer
	if mtype.Is("image/png") {
		err = png.Encode(&buf, resized)
	} else {
		err = jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), mtype.String(), nil
}
