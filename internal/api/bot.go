package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "part-inspector/internal/application"
	"part-inspector/internal/container"
	"part-inspector/internal/domain/entity"
	"part-inspector/internal/infrastructure/storage"
	"part-inspector/pkg/log"
)

const (
	msgStart = `👋 Привет! Я бот для инспекции деталей по номеру.

📸 Отправьте фото детали: я прочитаю номер, сверю его с каталогом и выполню проверки.

📋 Команды:
/check — ручная инспекция (номер в указанной области или на всём кадре)
/auto — автоматический поиск номера на фото
/capture — снимок с камеры линии и автоматическая инспекция
/stats — статистика инспекций
/recent — последние инспекции (/recent auto или /recent manual)
/rules — список проверок, /reload — перечитать их из файла
/testchecks — прогнать проверки на пустом кадре (/testchecks ABC-123)
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Выберите режим: /check или /auto
2️⃣ Отправьте фото детали
3️⃣ Получите вердикт OK/NG и фото с подсвеченной областью номера

✏️ Подпись к фото в режиме /check:
• x,y,w,h — область, где напечатан номер
• test x,y,w,h — проверить область без сохранения
• ABC-1234 — ввести номер вручную вместо распознавания

🛠 Проверки:
• /rules — какие проверки настроены
• /reload — перечитать файл проверок после правки
• /testchecks [номер] — прогнать активные проверки на чёрном кадре 640x480

💡 Рекомендации:
• Снимайте при хорошем освещении
• Номер должен быть в фокусе и не перекрыт`

	msgAwaitingManual  = "📸 Отправьте фото детали. В подписи можно указать область x,y,w,h или номер вручную."
	msgAwaitingAuto    = "📸 Отправьте фото детали, номер будет найден автоматически."
	msgCancelled       = "❌ Операция отменена. Отправьте /check или /auto для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото детали. Справка: /help"
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgNoTextRegions   = "🔍 На фото не найдено ни одного номера детали. Попробуйте /check с указанием области."
	msgCameraDisabled  = "📷 Камера линии не настроена."
	msgCameraError     = "📷 Не удалось получить кадр с камеры. Попробуйте ещё раз."
	msgBadCaption      = "✏️ Не понял подпись: %v. Формат области: x,y,w,h"
	msgBadMode         = "❓ Режим может быть auto или manual: /recent auto"
	msgNoRulesFile     = "📋 Файл проверок не задан в конфигурации."
	msgReloadFailed    = "⚠️ Не удалось перечитать проверки, действуют прежние: %v"
	msgReloaded        = "🔄 Проверки перечитаны."

	recentLimit = 10
)

// Bot Telegram-интерфейс оператора линии
type Bot struct {
	api         *tgbotapi.BotAPI
	users       *app.UserService
	inspections *app.InspectionService
	checks      *app.ItemCheckService
	catalog     *storage.Catalog
	reloadRules func() error
	cameraID    string
	client      *http.Client
}

// NewBot создаёт нового бота. Пустой CameraID контейнера отключает /capture.
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info(log.Fields{"account": api.Self.UserName}, "bot authorized")

	return &Bot{
		api:         api,
		users:       c.UserService,
		inspections: c.InspectionService,
		checks:      c.ItemCheckService,
		catalog:     c.Catalog,
		reloadRules: c.ReloadRules,
		cameraID:    c.CameraID,
		client:      &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Run опрашивает Telegram до отмены контекста. Ошибки опроса не фатальны:
// повтор с задержкой до 15 секунд.
func (b *Bot) Run(ctx context.Context) error {
	offset := 0
	delay := time.Second

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		u := tgbotapi.NewUpdate(offset)
		u.Timeout = 30

		updates, err := b.api.GetUpdates(u)
		if err != nil {
			log.Warn(log.Fields{"error": err.Error(), "retry_in": delay.String()}, "[Bot.Run] polling failed")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(delay):
			}
			if delay < 15*time.Second {
				delay *= 2
			}
			continue
		}
		delay = time.Second

		for _, update := range updates {
			if update.UpdateID >= offset {
				offset = update.UpdateID + 1
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Error(log.Fields{"user_id": msg.From.ID, "error": err.Error()}, "[Bot.handleMessage] get user")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.cancel(ctx, user)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		if _, err := b.users.BeginManual(ctx, user.ID, user.ChatID); err != nil {
			log.Error(log.Fields{"user_id": user.ID, "error": err.Error()}, "[Bot.handleCommand] begin manual")
		}
		b.sendMessage(chatID, msgAwaitingManual)

	case "auto":
		if _, err := b.users.BeginAuto(ctx, user.ID, user.ChatID); err != nil {
			log.Error(log.Fields{"user_id": user.ID, "error": err.Error()}, "[Bot.handleCommand] begin auto")
		}
		b.sendMessage(chatID, msgAwaitingAuto)

	case "capture":
		b.handleCapture(ctx, chatID)

	case "stats":
		stats, err := b.inspections.Stats(ctx)
		if err != nil {
			log.Error(log.Fields{"error": err.Error()}, "[Bot.handleCommand] stats")
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, formatStats(stats))

	case "recent":
		b.handleRecent(ctx, chatID, msg.CommandArguments())

	case "rules":
		b.sendMessage(chatID, formatRules(b.catalog.ItemChecks()))

	case "reload":
		b.handleReload(chatID)

	case "testchecks":
		b.handleTestChecks(ctx, chatID, msg.CommandArguments())

	case "cancel":
		b.cancel(ctx, user)
		b.sendMessage(chatID, msgCancelled)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleCapture снимает кадр с камеры линии и запускает автоматическую инспекцию
func (b *Bot) handleCapture(ctx context.Context, chatID int64) {
	if b.cameraID == "" {
		b.sendMessage(chatID, msgCameraDisabled)
		return
	}

	b.sendMessage(chatID, msgProcessing)
	out, err := b.inspections.InspectAuto(ctx, app.ImageSource{CameraID: b.cameraID})
	if err != nil {
		b.replyError(chatID, err)
		return
	}
	b.sendInspection(chatID, out)
}

// handleRecent показывает последние инспекции, при необходимости одного режима
func (b *Bot) handleRecent(ctx context.Context, chatID int64, arg string) {
	mode, err := parseMode(arg)
	if err != nil {
		b.sendMessage(chatID, msgBadMode)
		return
	}

	list, err := b.inspections.Recent(ctx, mode, recentLimit)
	if err != nil {
		log.Error(log.Fields{"mode": mode, "error": err.Error()}, "[Bot.handleRecent] recent inspections")
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	b.sendMessage(chatID, formatRecent(list))
}

// handleReload перечитывает файл проверок и показывает новый список
func (b *Bot) handleReload(chatID int64) {
	if err := b.reloadRules(); err != nil {
		if errors.Is(err, container.ErrNoRulesFile) {
			b.sendMessage(chatID, msgNoRulesFile)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgReloadFailed, err))
		return
	}
	b.sendMessage(chatID, msgReloaded+"\n\n"+formatRules(b.catalog.ItemChecks()))
}

// handleTestChecks прогоняет активные проверки на пустом кадре
func (b *Bot) handleTestChecks(ctx context.Context, chatID int64, arg string) {
	partNumber := strings.ToUpper(strings.TrimSpace(arg))
	if partNumber == "" {
		partNumber = app.DefaultTestPartNumber
	}

	agg, err := b.checks.RunTest(ctx, partNumber)
	if err != nil {
		log.Error(log.Fields{"part_number": partNumber, "error": err.Error()}, "[Bot.handleTestChecks] run checks")
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	b.sendMessage(chatID, formatTestChecks(partNumber, agg))
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	chatID := msg.Chat.ID
	mode := user.State

	capt, err := parseCaption(msg.Caption)
	if err != nil {
		b.sendMessage(chatID, fmt.Sprintf(msgBadCaption, err))
		return
	}

	if _, err := b.users.StartProcessing(ctx, user.ID, user.ChatID); err != nil {
		log.Error(log.Fields{"user_id": user.ID, "error": err.Error()}, "[Bot.handlePhoto] start processing")
	}
	defer b.cancel(ctx, user)

	b.sendMessage(chatID, msgProcessing)

	// Берём файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.Error(log.Fields{"file_id": photo.FileID, "error": err.Error()}, "[Bot.handlePhoto] download")
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	src := app.ImageSource{Data: imageData}

	switch {
	case mode == entity.StateAwaitingAutoPhoto && capt.kind == captionNone:
		out, err := b.inspections.InspectAuto(ctx, src)
		if err != nil {
			b.replyError(chatID, err)
			return
		}
		b.sendInspection(chatID, out)

	case capt.kind == captionDryRun:
		res, err := b.inspections.InspectArea(ctx, src, capt.area)
		if err != nil {
			b.replyError(chatID, err)
			return
		}
		b.sendMessage(chatID, formatArea(res))

	default:
		req := app.ManualRequest{Source: src}
		switch capt.kind {
		case captionArea:
			area := capt.area
			req.Area = &area
		case captionPartNumber:
			req.PartNumber = capt.partNumber
		}
		out, err := b.inspections.InspectManual(ctx, req)
		if err != nil {
			b.replyError(chatID, err)
			return
		}
		b.sendInspection(chatID, out)
	}
}

// cancel возвращает оператора в главное меню
func (b *Bot) cancel(ctx context.Context, user *entity.User) {
	if _, err := b.users.Cancel(ctx, user.ID, user.ChatID); err != nil {
		log.Error(log.Fields{"user_id": user.ID, "error": err.Error()}, "[Bot.cancel] save user")
	}
}

// replyError переводит ошибку инспекции в сообщение оператору
func (b *Bot) replyError(chatID int64, err error) {
	log.Warn(log.Fields{"chat_id": chatID, "error": err.Error()}, "[Bot] inspection failed")

	switch {
	case errors.Is(err, entity.ErrNoTextRegions):
		b.sendMessage(chatID, msgNoTextRegions)
	case errors.Is(err, entity.ErrCameraNotInitialized), errors.Is(err, entity.ErrFrameUnavailable):
		b.sendMessage(chatID, msgCameraError)
	default:
		b.sendMessage(chatID, msgProcessingError)
	}
}

// sendInspection отправляет фото с подсветкой и подробный отчёт
func (b *Bot) sendInspection(chatID int64, out *app.InspectionOutput) {
	text := formatInspection(out.Inspection)

	if len(out.Highlighted) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "inspection.jpg", Bytes: out.Highlighted})
		photo.Caption = verdict(out.Inspection.Passed)
		if _, err := b.api.Send(photo); err != nil {
			log.Warn(log.Fields{"chat_id": chatID, "error": err.Error()}, "[Bot.sendInspection] send photo")
		}
	}

	b.sendMessage(chatID, text)
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Warn(log.Fields{"chat_id": chatID, "error": err.Error()}, "[Bot.sendMessage] send")
	}
}
