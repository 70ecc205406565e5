package entity

// CameraConfig параметры открытия устройства захвата
type CameraConfig struct {
	Index            int `json:"index" validate:"gte=0"`
	ResolutionWidth  int `json:"resolution_width" validate:"gt=0"`
	ResolutionHeight int `json:"resolution_height" validate:"gt=0"`
	Brightness       int `json:"brightness" validate:"gte=0,lte=100"`
	Contrast         int `json:"contrast" validate:"gte=0,lte=100"`
}

// DefaultCameraConfig значения по умолчанию для устройства с указанным индексом
func DefaultCameraConfig(index int) CameraConfig {
	return CameraConfig{
		Index:            index,
		ResolutionWidth:  640,
		ResolutionHeight: 480,
		Brightness:       50,
		Contrast:         50,
	}
}

// Validate проверяет диапазоны параметров
func (c CameraConfig) Validate() error {
	return validate.Struct(c)
}
