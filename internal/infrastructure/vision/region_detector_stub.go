//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
)

type GoCVRegionDetector struct {
	GradientKernel image.Point
	CloseKernel    image.Point
	MinWidth       int
	MaxWidth       int
	MinHeight      int
	MaxHeight      int
}

// NewGoCVRegionDetector создаёт детектор-заглушку (без OpenCV).
func NewGoCVRegionDetector() *GoCVRegionDetector {
	return &GoCVRegionDetector{
		GradientKernel: image.Pt(3, 3),
		CloseKernel:    image.Pt(9, 1),
		MinWidth:       20,
		MaxWidth:       500,
		MinHeight:      10,
		MaxHeight:      100,
	}
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *GoCVRegionDetector) Detect(ctx context.Context, frame entity.Frame) ([]entity.Region, error) {
	_ = ctx
	_ = frame
	return nil, entity.ErrNativeUnavailable
}

var _ port.RegionDetector = (*GoCVRegionDetector)(nil)
