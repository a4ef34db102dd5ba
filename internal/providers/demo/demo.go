package demo

import (
	"bytes"
	"context"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"

	"github.com/vukan322/profilecard/internal/core"
)

const (
	identiconCells = 5
	identiconCell  = 24
)

// DemoProvider serves fixed numbers so cards can be rendered offline.
type DemoProvider struct{}

func New() *DemoProvider {
	return &DemoProvider{}
}

func (d *DemoProvider) Name() string {
	return "demo"
}

func (d *DemoProvider) Fetch(ctx context.Context, handle string) (core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, err
	}

	return core.Snapshot{
		Name:                    "Demo Developer",
		Username:                handle,
		Picture:                 Identicon(handle),
		Followers:               10,
		Following:               5,
		PublicRepos:             12,
		TotalStars:              32,
		TotalForks:              8,
		TotalCommits:            1234,
		TotalPRs:                56,
		TotalPRsMerged:          48,
		TotalReviews:            21,
		TotalIssues:             17,
		TotalClosedIssues:       11,
		TotalDiscussionStarted:  4,
		TotalDiscussionAnswered: 2,
		TotalContributedTo:      6,
	}, nil
}

// Identicon draws a mirrored 5x5 block pattern seeded by handle and
// returns it PNG encoded.
func Identicon(handle string) []byte {
	h := fnv.New64a()
	_, _ = h.Write([]byte(handle))
	sum := h.Sum64()

	fg := color.NRGBA{R: uint8(sum >> 40), G: uint8(sum >> 48), B: uint8(sum >> 56), A: 255}
	bg := color.NRGBA{R: 240, G: 240, B: 240, A: 255}

	size := identiconCells * identiconCell
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for cy := range identiconCells {
		for cx := range (identiconCells + 1) / 2 {
			c := bg
			if sum>>(cy*3+cx)&1 == 1 {
				c = fg
			}
			fill(img, cx, cy, c)
			fill(img, identiconCells-1-cx, cy, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}

func fill(img *image.NRGBA, cx, cy int, c color.NRGBA) {
	for y := cy * identiconCell; y < (cy+1)*identiconCell; y++ {
		for x := cx * identiconCell; x < (cx+1)*identiconCell; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}
