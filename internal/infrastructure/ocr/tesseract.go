//go:build tesseract
// +build tesseract

package ocr

import (
	"bytes"
	"context"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"part-inspector/internal/domain/entity"
)

// TesseractEngine распознаёт слова через libtesseract.
// Клиент создаётся на каждый вызов: gosseract.Client не потокобезопасен.
type TesseractEngine struct {
	cfg Config
}

func NewTesseractEngine(cfg Config) *TesseractEngine {
	return &TesseractEngine{cfg: cfg}
}

// Recognize возвращает слова с уверенностью 0..100 и рамками в координатах кадра.
func (t *TesseractEngine) Recognize(ctx context.Context, frame entity.Frame) ([]entity.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, frame.ToImage(), imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if t.cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(t.cfg.TessdataPrefix); err != nil {
			return nil, fmt.Errorf("set tessdata prefix: %w", err)
		}
	}
	if err := client.SetLanguage(t.cfg.Language); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if t.cfg.Whitelist != "" {
		if err := client.SetWhitelist(t.cfg.Whitelist); err != nil {
			return nil, fmt.Errorf("set whitelist: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(t.cfg.PageSegMode)); err != nil {
		return nil, fmt.Errorf("set page seg mode: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("bounding boxes: %w", err)
	}

	tokens := make([]entity.Token, 0, len(boxes))
	for _, box := range boxes {
		tokens = append(tokens, entity.Token{
			Text:       box.Word,
			Confidence: box.Confidence,
			BBox:       entity.RegionFromRect(box.Box),
		})
	}
	return tokens, nil
}
