package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

type Handler struct {
	bot             *tgbotapi.BotAPI
	logger          *zap.Logger
	progressService ProgressService
	sessionService  SessionService
	validator       AnswerValidator
	catalog         CategoryCatalog
	sessions        SessionStorage
	reminders       ReminderStorage
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	progressService ProgressService,
	sessionService SessionService,
	validator AnswerValidator,
	catalog CategoryCatalog,
	sessions SessionStorage,
	reminders ReminderStorage,
) *Handler {
	return &Handler{
		bot:             bot,
		logger:          logger,
		progressService: progressService,
		sessionService:  sessionService,
		validator:       validator,
		catalog:         catalog,
		sessions:        sessions,
		reminders:       reminders,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil || update.Message.From == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	from := update.Message.From
	chatID := update.Message.Chat.ID

	created, err := h.progressService.RegisterLearner(ctx, from.ID, chatID)
	if err != nil {
		h.logger.Error("failed to register learner",
			zap.Int64("user_id", from.ID),
			zap.Error(err),
		)
	} else if created {
		h.logger.Info("new learner", zap.Int64("user_id", from.ID))
	}

	if update.Message.Document != nil {
		_ = h.withErrorHandling(h.handleImport(from.ID, update.Message.Document))(ctx, chatID)
		return
	}

	if update.Message.IsCommand() {
		var fn HandlerFunc

		switch update.Message.Command() {
		case "start":
			fn = h.handleStart()
		case "help":
			fn = h.handleHelp()
		case "practice":
			fn = h.handlePractice(from.ID)
		case "stats":
			fn = h.handleStats(from.ID)
		case "level":
			fn = h.handleLevel(from.ID)
		case "export":
			fn = h.handleExport(from.ID)
		case "import":
			fn = h.handleImportHint()
		case "reset":
			fn = h.handleReset()
		case "boost":
			fn = h.handleBoost(from.ID, update.Message.CommandArguments())
		default:
			fn = h.handleUnknown()
		}

		_ = h.withErrorHandling(fn)(ctx, chatID)
		return
	}

	_ = h.withErrorHandling(h.handleTextAnswer(from.ID, update.Message.Text))(ctx, chatID)
}

func (h *Handler) sendError(chatID int64, err string) {
	_ = h.send(newHTMLMessage(chatID, err))
}

func (h *Handler) send(c tgbotapi.Chattable) error {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
		return err
	}
	return nil
}
