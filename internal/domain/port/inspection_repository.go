package port

import (
	"context"

	"part-inspector/internal/domain/entity"
)

// InspectionRepository хранилище вердиктов инспекции
type InspectionRepository interface {
	// Save сохраняет вердикт
	Save(ctx context.Context, inspection *entity.Inspection) error

	// Recent возвращает последние инспекции, новые первыми; пустой mode: все режимы
	Recent(ctx context.Context, mode entity.InspectionMode, limit int) ([]*entity.Inspection, error)

	// Stats считает сводку по всем инспекциям
	Stats(ctx context.Context) (entity.InspectionStats, error)
}
