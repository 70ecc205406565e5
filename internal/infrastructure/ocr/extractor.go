package ocr

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/partnumber"
	"part-inspector/internal/domain/port"
	"part-inspector/pkg/log"
)

// Preprocessor готовит кадр к распознаванию (яркость, масштаб, контраст, бинаризация)
type Preprocessor interface {
	Prepare(frame entity.Frame) (entity.Frame, error)
}

// Engine распознаёт слова на подготовленном кадре
type Engine interface {
	Recognize(ctx context.Context, frame entity.Frame) ([]entity.Token, error)
}

// Extractor распознаёт номер детали на кадре или в его области.
type Extractor struct {
	cfg    Config
	prep   Preprocessor
	engine Engine
}

// NewExtractor создаёт экстрактор с явной конфигурацией.
func NewExtractor(cfg Config, prep Preprocessor, engine Engine) *Extractor {
	return &Extractor{cfg: cfg, prep: prep, engine: engine}
}

// Extract распознаёт текст. Ошибки не возвращаются: при сбое результат
// содержит пустой номер, нулевую уверенность и описание в поле Error.
func (e *Extractor) Extract(ctx context.Context, frame entity.Frame, region *entity.Region) (result entity.OCRResult) {
	defer func() {
		if r := recover(); r != nil {
			result = e.failed(fmt.Errorf("ocr panic: %v", r), region)
		}
	}()

	if e.prep == nil || e.engine == nil {
		return e.failed(errors.New("ocr engine is not configured"), region)
	}
	if frame.Empty() {
		return e.failed(entity.ErrEmptyFrame, region)
	}

	src := frame
	if region != nil {
		cropped, err := frame.Crop(*region)
		if err != nil {
			return e.failed(fmt.Errorf("crop region: %w", err), region)
		}
		src = cropped
	}

	prepared, err := e.prep.Prepare(src)
	if err != nil {
		return e.failed(fmt.Errorf("preprocess: %w", err), region)
	}

	tokens, err := e.engine.Recognize(ctx, prepared)
	if err != nil {
		return e.failed(fmt.Errorf("recognize: %w", err), region)
	}

	return Summarize(tokens, e.cfg.MinConfidence)
}

// ExtractAt распознаёт текст в области, заданной координатами вручную.
func (e *Extractor) ExtractAt(ctx context.Context, frame entity.Frame, x, y, width, height int) entity.OCRResult {
	region := entity.NewRegion(x, y, width, height)
	return e.Extract(ctx, frame, &region)
}

func (e *Extractor) failed(err error, region *entity.Region) entity.OCRResult {
	fields := log.Fields{"error": err.Error()}
	if region != nil {
		fields["region"] = *region
	}
	log.Warn(fields, "[Extractor.Extract] recognition failed")
	return entity.FailedOCR(err)
}

// Summarize отбрасывает токены с уверенностью не выше minConfidence,
// склеивает остальные через пробел и выделяет номер детали.
func Summarize(tokens []entity.Token, minConfidence float64) entity.OCRResult {
	kept := make([]entity.Token, 0, len(tokens))
	texts := make([]string, 0, len(tokens))
	var sum float64

	for _, tok := range tokens {
		if tok.Confidence <= minConfidence {
			continue
		}
		text := strings.TrimSpace(tok.Text)
		if text == "" {
			continue
		}
		tok.Text = text
		kept = append(kept, tok)
		texts = append(texts, text)
		sum += tok.Confidence
	}

	raw := strings.Join(texts, " ")
	result := entity.OCRResult{
		PartNumber: partnumber.Extract(raw),
		RawText:    raw,
		Tokens:     kept,
	}
	if len(kept) > 0 {
		result.Confidence = sum / float64(len(kept))
	}
	return result
}

var _ port.TextExtractor = (*Extractor)(nil)
