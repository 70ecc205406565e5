package container

import (
	"errors"
	"fmt"

	"part-inspector/config"
	app "part-inspector/internal/application"
	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
	"part-inspector/internal/infrastructure/camera"
	"part-inspector/internal/infrastructure/ocr"
	"part-inspector/internal/infrastructure/storage"
	"part-inspector/internal/infrastructure/vision"
	"part-inspector/pkg/log"
)

// ErrNoRulesFile каталог правил не задан в конфигурации
var ErrNoRulesFile = errors.New("rules file is not configured")

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
	ItemCheckService  *app.ItemCheckService

	Cameras *camera.Manager
	Catalog *storage.Catalog

	// CameraID пусто, если камера линии не настроена
	CameraID string
	// RulesFile путь к каталогу правил; пусто, если каталог не задан
	RulesFile string
}

// New собирает сервисы приложения по конфигурации.
func New(cfg *config.Config, userRepo port.UserRepository, inspections port.InspectionRepository) (*Container, error) {
	catalog, err := storage.LoadCatalog(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	ocrCfg := ocr.DefaultConfig()
	ocrCfg.Language = cfg.OCRLanguage
	ocrCfg.TessdataPrefix = cfg.TessdataPrefix
	ocrCfg.MinConfidence = cfg.OCRMinConfidence
	extractor := ocr.NewExtractor(ocrCfg, ocr.NewGoCVPreprocessor(ocrCfg), ocr.NewTesseractEngine(ocrCfg))

	cameras := camera.NewManager(camera.OpenVideoDevice)
	cameraID := ""
	if cfg.CameraEnabled() {
		camCfg := entity.CameraConfig{
			Index:            cfg.CameraIndex,
			ResolutionWidth:  cfg.CameraWidth,
			ResolutionHeight: cfg.CameraHeight,
			Brightness:       cfg.CameraBrightness,
			Contrast:         cfg.CameraContrast,
		}
		// Линия может работать и без камеры: фото присылают в бота.
		if err := cameras.Initialize(cfg.CameraID, camCfg); err != nil {
			log.Warn(log.Fields{"camera_id": cfg.CameraID, "error": err.Error()}, "camera is unavailable, /capture disabled")
		} else {
			cameraID = cfg.CameraID
		}
	}

	checks := app.NewItemCheckService(vision.NewGoCVAnalyzer(), catalog)
	inspectionService := app.NewInspectionService(app.InspectionDeps{
		Cameras:    cameras,
		Codec:      vision.NewImagingCodec(),
		Detector:   vision.NewGoCVRegionDetector(),
		Extractor:  extractor,
		Checks:     checks,
		Catalog:    catalog,
		Repository: inspections,
		MaxRegions: cfg.AutoMaxRegions,
	})

	return &Container{
		UserService:       app.NewUserService(userRepo),
		InspectionService: inspectionService,
		ItemCheckService:  checks,
		Cameras:           cameras,
		Catalog:           catalog,
		CameraID:          cameraID,
		RulesFile:         cfg.RulesFile,
	}, nil
}

// ReloadRules перечитывает каталог правил с диска; при ошибке прежние правила остаются.
func (c *Container) ReloadRules() error {
	if c.RulesFile == "" {
		return ErrNoRulesFile
	}
	if err := c.Catalog.Reload(c.RulesFile); err != nil {
		log.Warn(log.Fields{"path": c.RulesFile, "error": err.Error()}, "[Container.ReloadRules] reload failed")
		return err
	}
	log.Info(log.Fields{"path": c.RulesFile, "item_checks": len(c.Catalog.ItemChecks())}, "[Container.ReloadRules] catalog reloaded")
	return nil
}

// Close освобождает камеры
func (c *Container) Close() {
	c.Cameras.ReleaseAll()
}
