package entity

import (
	"fmt"
	"image"
	"image/color"
)

// Frame плотный буфер пикселей в раскладке OpenCV: построчно, каналы BGR
// (Channels == 3) или яркость (Channels == 1). После захвата кадр не меняется:
// этапы обработки работают с копиями.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Data     []byte
}

// NewFrame создаёт кадр поверх готового буфера и проверяет его размер
func NewFrame(width, height, channels int, data []byte) (Frame, error) {
	if width <= 0 || height <= 0 {
		return Frame{}, fmt.Errorf("invalid frame size %dx%d: %w", width, height, ErrEmptyFrame)
	}
	if channels != 1 && channels != 3 {
		return Frame{}, fmt.Errorf("unsupported channel count %d", channels)
	}
	if len(data) != width*height*channels {
		return Frame{}, fmt.Errorf("frame buffer has %d bytes, want %d", len(data), width*height*channels)
	}
	return Frame{Width: width, Height: height, Channels: channels, Data: data}, nil
}

// Empty сообщает, что кадр не содержит пикселей
func (f Frame) Empty() bool {
	return f.Width <= 0 || f.Height <= 0 || len(f.Data) == 0
}

// Clone возвращает независимую копию кадра
func (f Frame) Clone() Frame {
	data := make([]byte, len(f.Data))
	copy(data, f.Data)
	return Frame{Width: f.Width, Height: f.Height, Channels: f.Channels, Data: data}
}

// Crop копирует часть кадра. Область обрезается по границам кадра,
// пустое пересечение: ошибка.
func (f Frame) Crop(r Region) (Frame, error) {
	if f.Empty() {
		return Frame{}, ErrEmptyFrame
	}
	clipped := r.Clip(f.Width, f.Height)
	if clipped.Empty() {
		return Frame{}, fmt.Errorf("region %dx%d at (%d,%d) is outside %dx%d frame: %w",
			r.Width, r.Height, r.X, r.Y, f.Width, f.Height, ErrEmptyFrame)
	}

	rowLen := clipped.Width * f.Channels
	data := make([]byte, 0, rowLen*clipped.Height)
	for y := clipped.Y; y < clipped.Y+clipped.Height; y++ {
		start := (y*f.Width + clipped.X) * f.Channels
		data = append(data, f.Data[start:start+rowLen]...)
	}

	return Frame{Width: clipped.Width, Height: clipped.Height, Channels: f.Channels, Data: data}, nil
}

// FrameFromImage переводит image.Image в BGR-кадр
func FrameFromImage(img image.Image) Frame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	data := make([]byte, 0, w*h*3)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			data = append(data, c.B, c.G, c.R)
		}
	}
	return Frame{Width: w, Height: h, Channels: 3, Data: data}
}

// ToImage переводит кадр в image.Image (RGBA для цветного, Gray для одноканального)
func (f Frame) ToImage() image.Image {
	if f.Channels == 1 {
		img := image.NewGray(image.Rect(0, 0, f.Width, f.Height))
		copy(img.Pix, f.Data)
		return img
	}

	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i+2 < len(f.Data); i, j = i+3, j+4 {
		img.Pix[j] = f.Data[i+2]
		img.Pix[j+1] = f.Data[i+1]
		img.Pix[j+2] = f.Data[i]
		img.Pix[j+3] = 0xff
	}
	return img
}
