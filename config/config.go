package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string `validate:"required"`

	// Файл с правилами item check и каталогом продуктов (YAML или JSON).
	RulesFile string

	CameraID         string `validate:"required"`
	CameraIndex      int    `validate:"gte=-1"` // -1: камера не используется
	CameraWidth      int    `validate:"gt=0"`
	CameraHeight     int    `validate:"gt=0"`
	CameraBrightness int    `validate:"gte=0,lte=100"`
	CameraContrast   int    `validate:"gte=0,lte=100"`

	OCRLanguage      string  `validate:"required"`
	TessdataPrefix   string
	OCRMinConfidence float64 `validate:"gte=0,lte=100"`
	AutoMaxRegions   int     `validate:"gt=0"`

	LogLevel string `validate:"omitempty,oneof=debug info warn warning error"`
	LogDir   string
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:    os.Getenv("TELEGRAM_TOKEN"),
		RulesFile:        os.Getenv("RULES_FILE"),
		CameraID:         getEnv("CAMERA_ID", "main"),
		CameraIndex:      getEnvInt("CAMERA_INDEX", -1),
		CameraWidth:      getEnvInt("CAMERA_WIDTH", 640),
		CameraHeight:     getEnvInt("CAMERA_HEIGHT", 480),
		CameraBrightness: getEnvInt("CAMERA_BRIGHTNESS", 50),
		CameraContrast:   getEnvInt("CAMERA_CONTRAST", 50),
		OCRLanguage:      getEnv("OCR_LANGUAGE", "eng"),
		TessdataPrefix:   os.Getenv("TESSDATA_PREFIX"),
		OCRMinConfidence: getEnvFloat("OCR_MIN_CONFIDENCE", 30),
		AutoMaxRegions:   getEnvInt("AUTO_MAX_REGIONS", 5),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogDir:           os.Getenv("LOG_DIR"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// CameraEnabled сообщает, задан ли индекс устройства камеры.
func (c *Config) CameraEnabled() bool {
	return c.CameraIndex >= 0
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
