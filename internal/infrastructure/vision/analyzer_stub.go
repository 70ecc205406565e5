//go:build !gocv
// +build !gocv

package vision

import (
	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
)

type GoCVAnalyzer struct{}

// NewGoCVAnalyzer создаёт анализатор-заглушку (без OpenCV).
func NewGoCVAnalyzer() *GoCVAnalyzer {
	return &GoCVAnalyzer{}
}

func (a *GoCVAnalyzer) HasContour(frame entity.Frame, area *entity.Region, minArea, maxArea float64) (bool, error) {
	return false, entity.ErrNativeUnavailable
}

func (a *GoCVAnalyzer) HasCircle(frame entity.Frame, area *entity.Region, minRadius, maxRadius int) (bool, error) {
	return false, entity.ErrNativeUnavailable
}

func (a *GoCVAnalyzer) HasLine(frame entity.Frame, area *entity.Region, threshold int) (bool, error) {
	return false, entity.ErrNativeUnavailable
}

func (a *GoCVAnalyzer) LargestObject(frame entity.Frame) (entity.Region, bool, error) {
	return entity.Region{}, false, entity.ErrNativeUnavailable
}

func (a *GoCVAnalyzer) ColorCoverage(frame entity.Frame, area *entity.Region, band port.HSVRange) (float64, error) {
	return 0, entity.ErrNativeUnavailable
}

var _ port.ImageAnalyzer = (*GoCVAnalyzer)(nil)
