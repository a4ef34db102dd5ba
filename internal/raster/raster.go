// Package raster turns card markup into a PNG bitmap.
package raster

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

var ErrEmptyCanvas = errors.New("raster: svg has no drawable size")

var (
	percentAttr = regexp.MustCompile(`\b(x|y|width|height)="(-?[0-9.]+)%"`)
	alphaColor  = regexp.MustCompile(`\b(fill|stroke|stop-color)="#([0-9a-fA-F]{6})([0-9a-fA-F]{2})"`)
)

var opacityAttr = map[string]string{
	"fill":       "fill-opacity",
	"stroke":     "stroke-opacity",
	"stop-color": "stop-opacity",
}

// PNG draws svg at the size of its root element. Elements the rasterizer
// does not understand, such as text and style sheets, are skipped.
func PNG(svg []byte) ([]byte, error) {
	img, err := Image(svg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("raster: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Image rasterizes svg into an RGBA image.
func Image(svg []byte) (*image.RGBA, error) {
	root, err := rootBox(svg)
	if err != nil {
		return nil, err
	}
	if root.W <= 0 || root.H <= 0 {
		return nil, ErrEmptyCanvas
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(normalize(svg, root)), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("raster: parse svg: %w", err)
	}
	// Nested <svg> elements overwrite the icon's view box while parsing.
	icon.ViewBox = root

	w := int(math.Ceil(root.W))
	h := int(math.Ceil(root.H))
	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

type box = struct{ X, Y, W, H float64 }

// rootBox reads the view box of the outermost svg element, falling back
// to its width and height.
func rootBox(svg []byte) (box, error) {
	dec := xml.NewDecoder(bytes.NewReader(svg))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return box{}, ErrEmptyCanvas
		}
		if err != nil {
			return box{}, fmt.Errorf("raster: parse svg: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "svg" {
			return box{}, fmt.Errorf("raster: root element is <%s>, want <svg>", se.Name.Local)
		}

		var b box
		var width, height float64
		for _, attr := range se.Attr {
			switch attr.Name.Local {
			case "viewBox":
				f := strings.FieldsFunc(attr.Value, func(r rune) bool { return r == ',' || r == ' ' })
				if len(f) == 4 {
					b.X, _ = strconv.ParseFloat(f[0], 64)
					b.Y, _ = strconv.ParseFloat(f[1], 64)
					b.W, _ = strconv.ParseFloat(f[2], 64)
					b.H, _ = strconv.ParseFloat(f[3], 64)
				}
			case "width":
				width, _ = strconv.ParseFloat(strings.TrimSuffix(attr.Value, "px"), 64)
			case "height":
				height, _ = strconv.ParseFloat(strings.TrimSuffix(attr.Value, "px"), 64)
			}
		}
		if b.W == 0 {
			b.W = width
		}
		if b.H == 0 {
			b.H = height
		}
		return b, nil
	}
}

// normalize rewrites markup the rasterizer cannot read: percentage lengths
// become absolute against the root box and #RRGGBBAA colors are split into
// a color and an opacity attribute.
func normalize(svg []byte, root box) []byte {
	out := percentAttr.ReplaceAllFunc(svg, func(m []byte) []byte {
		sub := percentAttr.FindSubmatch(m)
		pct, err := strconv.ParseFloat(string(sub[2]), 64)
		if err != nil {
			return m
		}
		ref := root.W
		if name := string(sub[1]); name == "y" || name == "height" {
			ref = root.H
		}
		return fmt.Appendf(nil, `%s="%s"`, sub[1], strconv.FormatFloat(pct*ref/100, 'f', -1, 64))
	})

	return alphaColor.ReplaceAllFunc(out, func(m []byte) []byte {
		sub := alphaColor.FindSubmatch(m)
		alpha, err := strconv.ParseUint(string(sub[3]), 16, 8)
		if err != nil {
			return m
		}
		opacity := strconv.FormatFloat(float64(alpha)/255, 'f', 3, 64)
		return fmt.Appendf(nil, `%s="#%s" %s="%s"`, sub[1], sub[2], opacityAttr[string(sub[1])], opacity)
	})
}
