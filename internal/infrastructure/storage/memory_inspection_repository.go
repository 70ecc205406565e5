package storage

import (
	"context"
	"sync"

	"part-inspector/internal/domain/entity"
	"part-inspector/internal/domain/port"
)

// MemoryInspectionRepository in-memory журнал инспекций в порядке сохранения
type MemoryInspectionRepository struct {
	mu          sync.RWMutex
	inspections []*entity.Inspection
}

// NewMemoryInspectionRepository создаёт пустой журнал
func NewMemoryInspectionRepository() *MemoryInspectionRepository {
	return &MemoryInspectionRepository{}
}

// Save добавляет вердикт в журнал
func (r *MemoryInspectionRepository) Save(ctx context.Context, inspection *entity.Inspection) error {
	if inspection == nil {
		return nil
	}
	r.mu.Lock()
	r.inspections = append(r.inspections, inspection)
	r.mu.Unlock()

	return nil
}

// Recent возвращает до limit последних инспекций, новые первыми.
// limit <= 0 означает без ограничения.
func (r *MemoryInspectionRepository) Recent(ctx context.Context, mode entity.InspectionMode, limit int) ([]*entity.Inspection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Inspection, 0)
	for i := len(r.inspections) - 1; i >= 0; i-- {
		insp := r.inspections[i]
		if mode != "" && insp.Mode != mode {
			continue
		}
		out = append(out, insp)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}

// Stats считает сводку; текущий номер детали берётся из последней инспекции
func (r *MemoryInspectionRepository) Stats(ctx context.Context) (entity.InspectionStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var stats entity.InspectionStats
	for _, insp := range r.inspections {
		stats.Total++
		if insp.Passed {
			stats.OK++
		} else {
			stats.NG++
		}
		switch insp.Mode {
		case entity.ModeAuto:
			stats.Auto++
		case entity.ModeManual:
			stats.Manual++
		}
	}

	if stats.Total > 0 {
		stats.OKPercentage = float64(stats.OK) / float64(stats.Total) * 100
		stats.NGPercentage = float64(stats.NG) / float64(stats.Total) * 100
		stats.CurrentPartNumber = r.inspections[len(r.inspections)-1].OCR.PartNumber
	}

	return stats, nil
}

// Проверка реализации интерфейса
var _ port.InspectionRepository = (*MemoryInspectionRepository)(nil)
