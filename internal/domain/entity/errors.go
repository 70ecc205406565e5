package entity

import "errors"

// Ошибки ресурсов. Деградация распознавания и проваленные проверки ошибками не являются.
var (
	ErrEmptyFrame           = errors.New("empty frame")
	ErrCameraNotInitialized = errors.New("camera not initialized")
	ErrFrameUnavailable     = errors.New("frame unavailable")
	ErrNoTextRegions        = errors.New("no text regions detected")
	ErrNoImageSource        = errors.New("no image data or camera id provided")
	ErrNativeUnavailable    = errors.New("native backend is not enabled in this build")
)
