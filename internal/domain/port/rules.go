package port

import (
	"context"

	"part-inspector/internal/domain/entity"
)

// RuleSource источник описаний item check
type RuleSource interface {
	// ActiveRules возвращает снимок активных правил в заданном порядке
	ActiveRules(ctx context.Context) ([]entity.CheckRule, error)
}

// ProductCatalog справочник известных номеров деталей
type ProductCatalog interface {
	// FindProduct возвращает nil, nil если номер не найден
	FindProduct(ctx context.Context, partNumber string) (*entity.Product, error)
}
