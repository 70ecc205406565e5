package port

import (
	"context"

	"part-inspector/internal/domain/entity"
)

// RegionDetector ищет на кадре области, похожие на строку текста
type RegionDetector interface {
	// Detect возвращает области по убыванию площади (возможно, пустой список)
	Detect(ctx context.Context, frame entity.Frame) ([]entity.Region, error)
}

// TextExtractor распознаёт номер детали на кадре или его части
type TextExtractor interface {
	// Extract никогда не возвращает ошибку: сбой описывается в OCRResult.Error
	Extract(ctx context.Context, frame entity.Frame, region *entity.Region) entity.OCRResult
}

// HSVRange включительные границы цвета в шкале OpenCV HSV
type HSVRange struct {
	Lower [3]float64
	Upper [3]float64
}

// ImageAnalyzer примитивы анализа изображения для правил item check.
// area == nil означает весь кадр.
type ImageAnalyzer interface {
	// HasContour ищет внешний контур с площадью в [minArea, maxArea]
	HasContour(frame entity.Frame, area *entity.Region, minArea, maxArea float64) (bool, error)

	// HasCircle ищет окружность с радиусом в [minRadius, maxRadius]
	HasCircle(frame entity.Frame, area *entity.Region, minRadius, maxRadius int) (bool, error)

	// HasLine ищет прямую, набравшую больше threshold голосов
	HasLine(frame entity.Frame, area *entity.Region, threshold int) (bool, error)

	// LargestObject возвращает рамку контура максимальной площади; found == false, если контуров нет
	LargestObject(frame entity.Frame) (box entity.Region, found bool, err error)

	// ColorCoverage возвращает долю пикселей в диапазоне, в процентах
	ColorCoverage(frame entity.Frame, area *entity.Region, band HSVRange) (float64, error)
}
