//go:build !gocv
// +build !gocv

package camera

import "part-inspector/internal/domain/entity"

// OpenVideoDevice без тега gocv камеры недоступны.
func OpenVideoDevice(cfg entity.CameraConfig) (Device, error) {
	_ = cfg
	return nil, entity.ErrNativeUnavailable
}
