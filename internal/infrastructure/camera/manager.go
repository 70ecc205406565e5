// Package camera управляет устройствами захвата по строковым идентификаторам.
package camera

import (
	"fmt"
	"sort"
	"sync"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
	"part-inspector/pkg/log"
)

// Device открытое устройство захвата
type Device interface {
	// Read возвращает очередной кадр; false: кадр получить не удалось
	Read() (entity.Frame, bool)
	Close() error
}

// DeviceOpener открывает устройство по конфигурации
type DeviceOpener func(cfg entity.CameraConfig) (Device, error)

// Manager владеет открытыми камерами. Все операции сериализованы одним мьютексом,
// поэтому захват и освобождение одной камеры из разных горутин не пересекаются.
type Manager struct {
	mu      sync.Mutex
	open    DeviceOpener
	devices map[string]Device
}

// NewManager создаёт менеджер с указанным способом открытия устройств.
func NewManager(open DeviceOpener) *Manager {
	return &Manager{
		open:    open,
		devices: make(map[string]Device),
	}
}

// Initialize открывает камеру под идентификатором id. Если под ним уже есть
// устройство, оно освобождается до открытия нового.
func (m *Manager) Initialize(id string, cfg entity.CameraConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("camera %q config: %w", id, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.devices[id]; ok {
		delete(m.devices, id)
		if err := old.Close(); err != nil {
			log.Warn(log.Fields{"camera_id": id, "error": err.Error()}, "[Manager.Initialize] close previous device")
		}
	}

	dev, err := m.open(cfg)
	if err != nil {
		log.Error(log.Fields{"camera_id": id, "index": cfg.Index, "error": err.Error()}, "[Manager.Initialize] open device")
		return fmt.Errorf("open camera %q: %w", id, err)
	}

	m.devices[id] = dev
	log.Info(log.Fields{
		"camera_id": id,
		"index":     cfg.Index,
		"width":     cfg.ResolutionWidth,
		"height":    cfg.ResolutionHeight,
	}, "camera initialized")
	return nil
}

// Capture возвращает один кадр с камеры.
func (m *Manager) Capture(id string) (entity.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, ok := m.devices[id]
	if !ok {
		return entity.Frame{}, fmt.Errorf("camera %q: %w", id, entity.ErrCameraNotInitialized)
	}

	frame, ok := dev.Read()
	if !ok || frame.Empty() {
		return entity.Frame{}, fmt.Errorf("camera %q: %w", id, entity.ErrFrameUnavailable)
	}
	return frame, nil
}

// Release закрывает камеру. Неизвестный id не ошибка.
func (m *Manager) Release(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dev, ok := m.devices[id]
	if !ok {
		return nil
	}
	delete(m.devices, id)

	if err := dev.Close(); err != nil {
		return fmt.Errorf("release camera %q: %w", id, err)
	}
	log.Info(log.Fields{"camera_id": id}, "camera released")
	return nil
}

// ReleaseAll закрывает все камеры при остановке процесса.
func (m *Manager) ReleaseAll() {
	for _, id := range m.IDs() {
		if err := m.Release(id); err != nil {
			log.Warn(log.Fields{"camera_id": id, "error": err.Error()}, "[Manager.ReleaseAll] release failed")
		}
	}
}

// IDs возвращает отсортированный список открытых камер
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.devices))
	for id := range m.devices {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

var _ port.CameraManager = (*Manager)(nil)
