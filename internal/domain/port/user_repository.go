package port

import (
	"context"

	"part-inspector/internal/domain/entity"
)

// UserRepository хранилище операторов бота и их состояния диалога
type UserRepository interface {
	// Get возвращает копию записи оператора; при первом обращении заводит её
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет запись целиком
	Save(ctx context.Context, user *entity.User) error

	// UpdateState меняет только состояние диалога
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
