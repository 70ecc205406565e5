//go:build gocv
// +build gocv

package ocr

import (
	"image"

	"gocv.io/x/gocv"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/infrastructure/vision"
)

// GoCVPreprocessor готовит кадр к OCR средствами OpenCV.
type GoCVPreprocessor struct {
	cfg Config
}

func NewGoCVPreprocessor(cfg Config) *GoCVPreprocessor {
	return &GoCVPreprocessor{cfg: cfg}
}

// Prepare: серый, увеличение мелких изображений, размытие, CLAHE, Оцу, закрытие и открытие.
func (p *GoCVPreprocessor) Prepare(frame entity.Frame) (entity.Frame, error) {
	mat, err := vision.ToMat(frame)
	if err != nil {
		mat.Close()
		return entity.Frame{}, err
	}

	gray := mat
	if mat.Channels() == 3 {
		gray = gocv.NewMat()
		gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)
		mat.Close()
	}
	defer gray.Close()

	work := gray
	if factor := p.cfg.UpscaleFactor(gray.Cols(), gray.Rows()); factor > 1 {
		scaled := gocv.NewMat()
		defer scaled.Close()
		gocv.Resize(gray, &scaled, image.Point{}, float64(factor), float64(factor), gocv.InterpolationCubic)
		work = scaled
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(work, &blurred, p.cfg.BlurKernel, 0, 0, gocv.BorderDefault)

	clahe := gocv.NewCLAHEWithParams(p.cfg.CLAHEClipLimit, p.cfg.CLAHETileGrid)
	defer clahe.Close()
	equalized := gocv.NewMat()
	defer equalized.Close()
	clahe.Apply(blurred, &equalized)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(equalized, &binary, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, p.cfg.MorphKernel)
	defer kernel.Close()

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(binary, &closed, gocv.MorphClose, kernel)

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(closed, &opened, gocv.MorphOpen, kernel)

	return vision.FromMat(opened)
}
