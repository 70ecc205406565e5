//go:build gocv
// +build gocv

package vision

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"

	"part-inspector/internal/domain/entity"
)

// ToMat копирует кадр в новый gocv.Mat. Вызывающий закрывает Mat.
func ToMat(frame entity.Frame) (gocv.Mat, error) {
	if frame.Empty() {
		return gocv.NewMat(), entity.ErrEmptyFrame
	}

	matType := gocv.MatTypeCV8UC3
	if frame.Channels == 1 {
		matType = gocv.MatTypeCV8UC1
	}

	// NewMatFromBytes не копирует буфер, поэтому клонируем, чтобы кадр остался неизменным.
	view, err := gocv.NewMatFromBytes(frame.Height, frame.Width, matType, frame.Data)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("frame to mat: %w", err)
	}
	defer view.Close()

	return view.Clone(), nil
}

// FromMat копирует содержимое Mat в кадр
func FromMat(mat gocv.Mat) (entity.Frame, error) {
	if mat.Empty() {
		return entity.Frame{}, entity.ErrEmptyFrame
	}

	channels := mat.Channels()
	if channels != 1 && channels != 3 {
		return entity.Frame{}, fmt.Errorf("unsupported channel count %d", channels)
	}

	src := mat
	if !mat.IsContinuous() {
		src = mat.Clone()
		defer src.Close()
	}

	data := src.ToBytes()
	if len(data) == 0 {
		return entity.Frame{}, errors.New("mat has no data")
	}

	return entity.NewFrame(src.Cols(), src.Rows(), channels, data)
}

// grayMat возвращает одноканальную копию (области) кадра
func grayMat(frame entity.Frame, area *entity.Region) (gocv.Mat, error) {
	src := frame
	if area != nil {
		cropped, err := frame.Crop(*area)
		if err != nil {
			return gocv.NewMat(), err
		}
		src = cropped
	}

	mat, err := ToMat(src)
	if err != nil {
		return mat, err
	}
	if mat.Channels() == 1 {
		return mat, nil
	}

	gray := gocv.NewMat()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
	mat.Close()
	return gray, nil
}
