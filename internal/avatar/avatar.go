// Package avatar shrinks a downloaded profile picture into the base64 JPEG
// embedded in the card.
package avatar

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrEmpty = errors.New("avatar: empty image")

// Resize decodes raw, scales it to width pixels keeping the aspect ratio and
// re-encodes it as JPEG at the given quality (1-100; 0 is treated as 1).
// Images narrower than width are not upscaled.
func Resize(raw []byte, width, quality int) ([]byte, error) {
	if len(raw) == 0 {
		return nil, ErrEmpty
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("avatar: decode: %w", err)
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmpty
	}

	w, h := b.Dx(), b.Dy()
	if width > 0 && width < w {
		h = max(1, h*width/w)
		w = width
	}

	// JPEG has no alpha, so transparent avatars are flattened onto white.
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: min(max(quality, 1), 100)}); err != nil {
		return nil, fmt.Errorf("avatar: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Encode resizes raw and returns it base64 encoded.
func Encode(raw []byte, width, quality int) (string, error) {
	out, err := Resize(raw, width, quality)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(out), nil
}
