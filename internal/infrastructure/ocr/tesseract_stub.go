//go:build !tesseract
// +build !tesseract

package ocr

import (
	"context"

	"part-inspector/internal/domain/entity"
)

type TesseractEngine struct {
	cfg Config
}

func NewTesseractEngine(cfg Config) *TesseractEngine {
	return &TesseractEngine{cfg: cfg}
}

// Recognize возвращает ошибку, если сборка без тега tesseract.
func (t *TesseractEngine) Recognize(ctx context.Context, frame entity.Frame) ([]entity.Token, error) {
	_ = ctx
	_ = frame
	return nil, entity.ErrNativeUnavailable
}
