//go:build gocv
// +build gocv

package vision

import (
	"math"

	"gocv.io/x/gocv"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
)

// GoCVAnalyzer реализует примитивы правил item check на OpenCV.
type GoCVAnalyzer struct {
	BinaryThreshold float32 // фиксированный порог для контуров и размеров

	CircleDP      float64
	CircleMinDist float64
	CircleParam1  float64
	CircleParam2  float64
	CannyLow      float32
	CannyHigh     float32
	LineRho       float32
	LineTheta     float32 // шаг угла в радианах
}

// NewGoCVAnalyzer создаёт анализатор с параметрами по умолчанию.
func NewGoCVAnalyzer() *GoCVAnalyzer {
	return &GoCVAnalyzer{
		BinaryThreshold: 127,
		CircleDP:        1,
		CircleMinDist:   20,
		CircleParam1:    50,
		CircleParam2:    30,
		CannyLow:        50,
		CannyHigh:       150,
		LineRho:         1,
		LineTheta:       math.Pi / 180,
	}
}

// HasContour ищет внешний контур подходящей площади на бинаризованном изображении.
func (a *GoCVAnalyzer) HasContour(frame entity.Frame, area *entity.Region, minArea, maxArea float64) (bool, error) {
	gray, err := grayMat(frame, area)
	if err != nil {
		return false, err
	}
	defer gray.Close()

	contours := a.binaryContours(gray)
	defer contours.Close()

	for i := 0; i < contours.Size(); i++ {
		s := gocv.ContourArea(contours.At(i))
		if s >= minArea && s <= maxArea {
			return true, nil
		}
	}
	return false, nil
}

// HasCircle ищет окружности градиентным преобразованием Хафа.
func (a *GoCVAnalyzer) HasCircle(frame entity.Frame, area *entity.Region, minRadius, maxRadius int) (bool, error) {
	gray, err := grayMat(frame, area)
	if err != nil {
		return false, err
	}
	defer gray.Close()

	circles := gocv.NewMat()
	defer circles.Close()
	gocv.HoughCirclesWithParams(gray, &circles, gocv.HoughGradient,
		a.CircleDP, a.CircleMinDist, a.CircleParam1, a.CircleParam2, minRadius, maxRadius)

	return !circles.Empty() && circles.Cols() > 0, nil
}

// HasLine ищет прямые стандартным преобразованием Хафа по границам Кэнни.
func (a *GoCVAnalyzer) HasLine(frame entity.Frame, area *entity.Region, threshold int) (bool, error) {
	gray, err := grayMat(frame, area)
	if err != nil {
		return false, err
	}
	defer gray.Close()

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, a.CannyLow, a.CannyHigh)

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLines(edges, &lines, a.LineRho, a.LineTheta, threshold)

	return !lines.Empty() && lines.Rows() > 0, nil
}

// LargestObject возвращает рамку контура максимальной площади.
func (a *GoCVAnalyzer) LargestObject(frame entity.Frame) (entity.Region, bool, error) {
	gray, err := grayMat(frame, nil)
	if err != nil {
		return entity.Region{}, false, err
	}
	defer gray.Close()

	contours := a.binaryContours(gray)
	defer contours.Close()

	if contours.Size() == 0 {
		return entity.Region{}, false, nil
	}

	best, bestArea := 0, -1.0
	for i := 0; i < contours.Size(); i++ {
		if s := gocv.ContourArea(contours.At(i)); s > bestArea {
			best, bestArea = i, s
		}
	}

	return entity.RegionFromRect(gocv.BoundingRect(contours.At(best))), true, nil
}

// ColorCoverage считает процент пикселей области, попавших в HSV-диапазон.
func (a *GoCVAnalyzer) ColorCoverage(frame entity.Frame, area *entity.Region, band port.HSVRange) (float64, error) {
	src := frame
	if area != nil {
		cropped, err := frame.Crop(*area)
		if err != nil {
			return 0, err
		}
		src = cropped
	}

	mat, err := ToMat(src)
	if err != nil {
		return 0, err
	}
	if mat.Channels() == 1 {
		bgr := gocv.NewMat()
		gocv.CvtColor(mat, &bgr, gocv.ColorGrayToBGR)
		mat.Close()
		mat = bgr
	}
	defer mat.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(mat, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	lower := gocv.NewScalar(band.Lower[0], band.Lower[1], band.Lower[2], 0)
	upper := gocv.NewScalar(band.Upper[0], band.Upper[1], band.Upper[2], 0)
	gocv.InRangeWithScalar(hsv, lower, upper, &mask)

	return ratioOfMask(mask) * 100, nil
}

func (a *GoCVAnalyzer) binaryContours(gray gocv.Mat) gocv.PointsVector {
	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(gray, &binary, a.BinaryThreshold, 255, gocv.ThresholdBinary)

	return gocv.FindContours(binary, gocv.RetrievalExternal, gocv.ChainApproxSimple)
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}

var _ port.ImageAnalyzer = (*GoCVAnalyzer)(nil)
