//go:build !gocv
// +build !gocv

package ocr

import "part-inspector/internal/domain/entity"

type GoCVPreprocessor struct {
	cfg Config
}

func NewGoCVPreprocessor(cfg Config) *GoCVPreprocessor {
	return &GoCVPreprocessor{cfg: cfg}
}

// Prepare возвращает ошибку, если сборка без тега gocv.
func (p *GoCVPreprocessor) Prepare(frame entity.Frame) (entity.Frame, error) {
	_ = frame
	return entity.Frame{}, entity.ErrNativeUnavailable
}
