package ocr

import "image"

// PSMSingleBlock режим сегментации Tesseract "один блок текста"
const PSMSingleBlock = 6

// Config параметры распознавания. Передаётся в конструкторы явно.
type Config struct {
	Language       string
	Whitelist      string
	PageSegMode    int
	TessdataPrefix string

	// Токены с уверенностью не выше порога отбрасываются
	MinConfidence float64

	// Порог читаемости: меньшие изображения увеличиваются
	MinHeight  int
	MinWidth   int
	TargetSide int

	BlurKernel     image.Point
	CLAHEClipLimit float64
	CLAHETileGrid  image.Point
	MorphKernel    image.Point
}

// DefaultConfig настройки для печатных номеров деталей.
func DefaultConfig() Config {
	return Config{
		Language:       "eng",
		Whitelist:      "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_",
		PageSegMode:    PSMSingleBlock,
		MinConfidence:  30,
		MinHeight:      50,
		MinWidth:       100,
		TargetSide:     100,
		BlurKernel:     image.Pt(1, 1),
		CLAHEClipLimit: 3.0,
		CLAHETileGrid:  image.Pt(8, 8),
		MorphKernel:    image.Pt(1, 1),
	}
}

// UpscaleFactor целый коэффициент увеличения для изображения width x height;
// 1: увеличение не нужно.
func (c Config) UpscaleFactor(width, height int) int {
	if height >= c.MinHeight && width >= c.MinWidth {
		return 1
	}
	smaller := width
	if height < smaller {
		smaller = height
	}
	if smaller <= 0 {
		return 1
	}
	factor := c.TargetSide / smaller
	if factor < 2 {
		factor = 2
	}
	return factor
}
