package port

import "part-inspector/internal/domain/entity"

// CameraManager владеет открытыми камерами и сериализует доступ к ним
type CameraManager interface {
	Initialize(id string, cfg entity.CameraConfig) error
	Capture(id string) (entity.Frame, error)
	Release(id string) error
}
