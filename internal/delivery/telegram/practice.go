package telegram

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/leitner-vocab-bot/internal/domain/entities"
	"github.com/aliskhannn/leitner-vocab-bot/internal/service"
)

// handlePractice starts a new session, replacing a running one.
func (h *Handler) handlePractice(userID int64) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		session, err := h.sessionService.Start(ctx, userID)
		if errors.Is(err, service.ErrNothingToPractice) {
			return h.send(newHTMLMessage(chatID, msgNothingToPractice))
		}
		if err != nil {
			return fmt.Errorf("start session: %w", err)
		}

		h.sessions.Store(userID, session)
		h.reminders.Delete(userID)

		h.logger.Debug("session started",
			zap.Int64("user_id", userID),
			zap.Int("items", len(session.Items)),
		)

		item, _ := session.Current()
		return h.sendQuestion(chatID, *session, item)
	}
}

// handleTextAnswer checks a typed translation of the current item.
func (h *Handler) handleTextAnswer(userID int64, text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		item, ok := h.sessions.Current(userID)
		if !ok {
			return h.send(newHTMLMessage(chatID, msgNoActiveSession))
		}

		correct := h.validator.Validate(text, item.Translation)
		return h.answer(ctx, chatID, userID, item.ID, correct)
	}
}

// answer records the outcome of itemID and moves the session on.
// The session stays on itemID until the answer is saved, so a failed save
// leaves the question open. Updates are handled one at a time by Run.
func (h *Handler) answer(ctx context.Context, chatID, userID int64, itemID string, correct bool) error {
	current, ok := h.sessions.Current(userID)
	if !ok || current.ID != itemID {
		return nil
	}

	res, err := h.progressService.RecordAnswer(ctx, userID, itemID, correct)
	if err != nil {
		return fmt.Errorf("record answer: %w", err)
	}

	session, moved := h.sessions.Advance(userID, itemID, correct)
	if !moved {
		return nil
	}

	if err := h.send(newHTMLMessage(chatID, formatAnswerFeedback(res))); err != nil {
		return err
	}

	if res.LevelUp {
		_ = h.send(newHTMLMessage(chatID, fmt.Sprintf(msgLevelUp, res.Level.CurrentLevel)))
	}

	next, ok := session.Current()
	if !ok {
		msg := newHTMLMessage(chatID, formatSessionSummary(session, res.Stats.Streak))
		msg.ReplyMarkup = buildSessionDoneKeyboard()
		return h.send(msg)
	}

	return h.sendQuestion(chatID, session, next)
}

func (h *Handler) sendQuestion(chatID int64, session entities.PracticeSession, item entities.Item) error {
	msg := newHTMLMessage(chatID, formatQuestion(session, item))
	msg.ReplyMarkup = buildQuestionKeyboard(item.ID)
	return h.send(msg)
}
