package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/partnumber"
	"part-inspector/internal/domain/port"
	"part-inspector/pkg/log"
)

// DefaultMaxRegions сколько найденных областей распознаётся в автоматическом режиме
const DefaultMaxRegions = 5

// ImageSource откуда брать кадр: байты изображения или камера
type ImageSource struct {
	Data     []byte
	CameraID string
}

// ManualRequest ручная инспекция. Area == nil означает весь кадр;
// непустой PartNumber, введённый оператором, заменяет OCR.
type ManualRequest struct {
	Source     ImageSource
	Area       *entity.Region
	PartNumber string
}

// InspectionOutput вердикт и JPEG с подсвеченной областью номера
type InspectionOutput struct {
	Inspection  *entity.Inspection
	Highlighted []byte
}

// InspectionDeps зависимости оркестратора
type InspectionDeps struct {
	Cameras    port.CameraManager
	Codec      port.FrameCodec
	Detector   port.RegionDetector
	Extractor  port.TextExtractor
	Checks     *ItemCheckService
	Catalog    port.ProductCatalog
	Repository port.InspectionRepository
	MaxRegions int
}

// InspectionService проводит инспекцию: кадр, номер детали, валидация, каталог, item check, вердикт.
type InspectionService struct {
	cameras    port.CameraManager
	codec      port.FrameCodec
	detector   port.RegionDetector
	extractor  port.TextExtractor
	checks     *ItemCheckService
	catalog    port.ProductCatalog
	repo       port.InspectionRepository
	maxRegions int
	now        func() time.Time
}

// NewInspectionService создаёт оркестратор инспекций.
func NewInspectionService(deps InspectionDeps) *InspectionService {
	maxRegions := deps.MaxRegions
	if maxRegions <= 0 {
		maxRegions = DefaultMaxRegions
	}
	return &InspectionService{
		cameras:    deps.Cameras,
		codec:      deps.Codec,
		detector:   deps.Detector,
		extractor:  deps.Extractor,
		checks:     deps.Checks,
		catalog:    deps.Catalog,
		repo:       deps.Repository,
		maxRegions: maxRegions,
		now:        time.Now,
	}
}

// InspectManual распознаёт номер в заданной области (или берёт введённый вручную) и сохраняет вердикт.
func (s *InspectionService) InspectManual(ctx context.Context, req ManualRequest) (*InspectionOutput, error) {
	frame, err := s.frame(req.Source)
	if err != nil {
		return nil, err
	}

	var ocr entity.OCRResult
	if pn := strings.TrimSpace(req.PartNumber); pn != "" {
		ocr = entity.OCRResult{PartNumber: pn, RawText: pn, Confidence: 100, Tokens: []entity.Token{}}
	} else {
		if s.extractor == nil {
			return nil, errors.New("text extractor is not configured")
		}
		ocr = s.extractor.Extract(ctx, frame, req.Area)
	}

	insp, err := s.conclude(ctx, frame, entity.ModeManual, ocr)
	if err != nil {
		return nil, err
	}
	if req.Area != nil {
		area := req.Area.Clip(frame.Width, frame.Height)
		insp.DetectionArea = &area
	}

	return s.finish(ctx, frame, insp)
}

// InspectAuto находит области текста, распознаёт лучшие из них и сохраняет
// вердикт по кандидату с наибольшей уверенностью.
func (s *InspectionService) InspectAuto(ctx context.Context, src ImageSource) (*InspectionOutput, error) {
	frame, err := s.frame(src)
	if err != nil {
		return nil, err
	}

	candidates, err := s.DetectAndExtract(ctx, frame)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, entity.ErrNoTextRegions
	}

	best := candidates[0]
	insp, err := s.conclude(ctx, frame, entity.ModeAuto, best.OCR)
	if err != nil {
		return nil, err
	}
	area := best.Region
	insp.DetectionArea = &area
	insp.Candidates = candidates

	return s.finish(ctx, frame, insp)
}

// InspectArea проверяет указанную область без сохранения результата.
// Item check выполняются, только если номер детали прочитан.
func (s *InspectionService) InspectArea(ctx context.Context, src ImageSource, area entity.Region) (*entity.AreaInspection, error) {
	if s.extractor == nil {
		return nil, errors.New("text extractor is not configured")
	}
	frame, err := s.frame(src)
	if err != nil {
		return nil, err
	}

	ocr := s.extractor.Extract(ctx, frame, &area)
	res := &entity.AreaInspection{
		OCR:        ocr,
		Validation: partnumber.Validate(ocr.PartNumber, nil),
		Area:       area,
	}

	if ocr.PartNumber != "" {
		checks, err := s.runChecks(ctx, frame, ocr.PartNumber)
		if err != nil {
			return nil, err
		}
		res.ItemChecks = &checks
	}

	return res, nil
}

// DetectAndExtract распознаёт первые MaxRegions областей детектора и
// возвращает кандидатов с непустым номером по убыванию уверенности.
func (s *InspectionService) DetectAndExtract(ctx context.Context, frame entity.Frame) ([]entity.RegionCandidate, error) {
	if s.detector == nil {
		return nil, errors.New("region detector is not configured")
	}
	if s.extractor == nil {
		return nil, errors.New("text extractor is not configured")
	}

	regions, err := s.detector.Detect(ctx, frame)
	if err != nil {
		return nil, fmt.Errorf("detect regions: %w", err)
	}

	candidates := make([]entity.RegionCandidate, 0, s.maxRegions)
	for i, r := range regions {
		if i >= s.maxRegions {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		region := r
		ocr := s.extractor.Extract(ctx, frame, &region)
		if ocr.PartNumber == "" {
			continue
		}
		candidates = append(candidates, entity.RegionCandidate{Region: region, OCR: ocr, Index: i})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].OCR.Confidence > candidates[j].OCR.Confidence
	})

	log.Debug(log.Fields{"regions": len(regions), "candidates": len(candidates)}, "regions recognized")
	return candidates, nil
}

// Stats сводка по сохранённым инспекциям
func (s *InspectionService) Stats(ctx context.Context) (entity.InspectionStats, error) {
	if s.repo == nil {
		return entity.InspectionStats{}, nil
	}
	return s.repo.Stats(ctx)
}

// Recent последние инспекции, новые первыми
func (s *InspectionService) Recent(ctx context.Context, mode entity.InspectionMode, limit int) ([]*entity.Inspection, error) {
	if s.repo == nil {
		return []*entity.Inspection{}, nil
	}
	return s.repo.Recent(ctx, mode, limit)
}

func (s *InspectionService) frame(src ImageSource) (entity.Frame, error) {
	switch {
	case len(src.Data) > 0:
		if s.codec == nil {
			return entity.Frame{}, errors.New("frame codec is not configured")
		}
		frame, err := s.codec.Decode(src.Data)
		if err != nil {
			return entity.Frame{}, fmt.Errorf("decode image: %w", err)
		}
		return frame, nil
	case src.CameraID != "":
		if s.cameras == nil {
			return entity.Frame{}, fmt.Errorf("camera %q: %w", src.CameraID, entity.ErrCameraNotInitialized)
		}
		return s.cameras.Capture(src.CameraID)
	default:
		return entity.Frame{}, entity.ErrNoImageSource
	}
}

// conclude валидирует номер, ищет продукт, выполняет item check и выносит вердикт
func (s *InspectionService) conclude(ctx context.Context, frame entity.Frame, mode entity.InspectionMode, ocr entity.OCRResult) (*entity.Inspection, error) {
	insp := &entity.Inspection{
		ID:          uuid.NewString(),
		Mode:        mode,
		OCR:         ocr,
		Validation:  partnumber.Validate(ocr.PartNumber, nil),
		InspectedAt: s.now(),
	}

	if ocr.PartNumber != "" && s.catalog != nil {
		product, err := s.catalog.FindProduct(ctx, ocr.PartNumber)
		if err != nil {
			return nil, fmt.Errorf("find product: %w", err)
		}
		insp.Product = product
	}

	checks, err := s.runChecks(ctx, frame, ocr.PartNumber)
	if err != nil {
		return nil, err
	}
	insp.ItemChecks = checks

	insp.Passed = insp.Validation.IsValid && insp.ProductExists() && checks.OverallPass
	return insp, nil
}

func (s *InspectionService) runChecks(ctx context.Context, frame entity.Frame, pn string) (entity.AggregateCheckResult, error) {
	if s.checks == nil {
		return entity.Aggregate(nil), nil
	}
	return s.checks.RunActive(ctx, frame, pn)
}

func (s *InspectionService) finish(ctx context.Context, frame entity.Frame, insp *entity.Inspection) (*InspectionOutput, error) {
	if s.repo != nil {
		if err := s.repo.Save(ctx, insp); err != nil {
			return nil, fmt.Errorf("save inspection: %w", err)
		}
	}

	log.Info(log.Fields{
		"id":          insp.ID,
		"mode":        insp.Mode,
		"part_number": insp.OCR.PartNumber,
		"confidence":  insp.OCR.Confidence,
		"passed":      insp.Passed,
	}, "inspection completed")

	out := &InspectionOutput{Inspection: insp}
	if s.codec != nil {
		var regions []entity.Region
		if insp.DetectionArea != nil {
			regions = append(regions, *insp.DetectionArea)
		}
		highlighted, err := s.codec.Highlight(frame, regions)
		if err != nil {
			log.Warn(log.Fields{"id": insp.ID, "error": err.Error()}, "[InspectionService.finish] highlight failed")
		} else {
			out.Highlighted = highlighted
		}
	}

	return out, nil
}
