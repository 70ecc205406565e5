//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"

	"gocv.io/x/gocv"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
)

// GoCVRegionDetector ищет строки текста морфологическим градиентом и горизонтальным замыканием.
type GoCVRegionDetector struct {
	GradientKernel image.Point // структурный элемент градиента
	CloseKernel    image.Point // вытянутый по горизонтали элемент, склеивает символы строки
	MinWidth       int
	MaxWidth       int
	MinHeight      int
	MaxHeight      int
}

// NewGoCVRegionDetector создаёт детектор с границами размеров печатной этикетки.
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

// Detect возвращает области-кандидаты по убыванию площади.
func (d *GoCVRegionDetector) Detect(ctx context.Context, frame entity.Frame) ([]entity.Region, error) {
	_ = ctx
	gray, err := grayMat(frame, nil)
	if err != nil {
		return nil, err
	}
	defer gray.Close()

	gradKernel := gocv.GetStructuringElement(gocv.MorphRect, d.GradientKernel)
	defer gradKernel.Close()

	grad := gocv.NewMat()
	defer grad.Close()
	gocv.MorphologyEx(gray, &grad, gocv.MorphGradient, gradKernel)

	// Порог Оцу подбирается по гистограмме, ручной порог не нужен.
	bw := gocv.NewMat()
	defer bw.Close()
	gocv.Threshold(grad, &bw, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	closeKernel := gocv.GetStructuringElement(gocv.MorphRect, d.CloseKernel)
	defer closeKernel.Close()

	connected := gocv.NewMat()
	defer connected.Close()
	gocv.MorphologyEx(bw, &connected, gocv.MorphClose, closeKernel)

	contours := gocv.FindContours(connected, gocv.RetrievalExternal, gocv.ChainApproxNone)
	defer contours.Close()

	regions := make([]entity.Region, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		rect := gocv.BoundingRect(contours.At(i))
		if !d.accepts(rect.Dx(), rect.Dy()) {
			continue
		}
		r := entity.RegionFromRect(rect).Clip(frame.Width, frame.Height)
		if r.Empty() {
			continue
		}
		regions = append(regions, r)
	}

	SortByArea(regions)
	return regions, nil
}

func (d *GoCVRegionDetector) accepts(w, h int) bool {
	return w >= d.MinWidth && w <= d.MaxWidth && h >= d.MinHeight && h <= d.MaxHeight
}

// Проверка реализации интерфейса
var _ port.RegionDetector = (*GoCVRegionDetector)(nil)
