package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu            UserState = "main_menu"             // В главном меню
	StateAwaitingManualPhoto UserState = "awaiting_manual_photo" // Ожидание фото для ручной инспекции
	StateAwaitingAutoPhoto   UserState = "awaiting_auto_photo"   // Ожидание фото для автоматической инспекции
	StateProcessing          UserState = "processing"            // Обработка изображения
)

// User представляет оператора бота
type User struct {
	ID     int64     // Telegram User ID
	ChatID int64     // Telegram Chat ID
	State  UserState // Текущее состояние пользователя
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// AwaitingPhoto сообщает, ждёт ли бот фото от пользователя
func (u *User) AwaitingPhoto() bool {
	return u.State == StateAwaitingManualPhoto || u.State == StateAwaitingAutoPhoto
}
