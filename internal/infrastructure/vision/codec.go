package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
)

// ImagingCodec кодирует и декодирует кадры без OpenCV.
type ImagingCodec struct {
	Quality   int        // качество JPEG
	Color     color.NRGBA // цвет рамок подсветки
	Thickness int
}

// NewImagingCodec создаёт кодек с зелёной подсветкой толщиной 2 пикселя.
func NewImagingCodec() *ImagingCodec {
	return &ImagingCodec{
		Quality:   90,
		Color:     color.NRGBA{G: 255, A: 255},
		Thickness: 2,
	}
}

// Decode превращает байты изображения в BGR-кадр с учётом EXIF-ориентации.
func (c *ImagingCodec) Decode(data []byte) (entity.Frame, error) {
	if len(data) == 0 {
		return entity.Frame{}, errors.New("empty image")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return entity.Frame{}, fmt.Errorf("decode image: %w", err)
	}
	frame := entity.FrameFromImage(img)
	if frame.Empty() {
		return entity.Frame{}, entity.ErrEmptyFrame
	}
	return frame, nil
}

// Encode кодирует кадр в JPEG.
func (c *ImagingCodec) Encode(frame entity.Frame) ([]byte, error) {
	if frame.Empty() {
		return nil, entity.ErrEmptyFrame
	}
	return c.encode(frame.ToImage())
}

// Highlight рисует прямоугольники вокруг областей и возвращает новую картинку.
func (c *ImagingCodec) Highlight(frame entity.Frame, regions []entity.Region) ([]byte, error) {
	if frame.Empty() {
		return nil, entity.ErrEmptyFrame
	}

	img := imaging.Clone(frame.ToImage())
	for _, r := range regions {
		c.drawRect(img, r.Clip(frame.Width, frame.Height))
	}

	return c.encode(img)
}

func (c *ImagingCodec) drawRect(img *image.NRGBA, r entity.Region) {
	if r.Empty() {
		return
	}
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width-1, r.Y+r.Height-1
	for t := 0; t < c.Thickness; t++ {
		for x := x0; x <= x1; x++ {
			img.SetNRGBA(x, y0+t, c.Color)
			img.SetNRGBA(x, y1-t, c.Color)
		}
		for y := y0; y <= y1; y++ {
			img.SetNRGBA(x0+t, y, c.Color)
			img.SetNRGBA(x1-t, y, c.Color)
		}
	}
}

func (c *ImagingCodec) encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(c.Quality)); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

var _ port.FrameCodec = (*ImagingCodec)(nil)
