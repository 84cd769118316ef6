package telegram

import (
	"context"

	"github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/vribeiro/investwatch/internal/domain"
	"go.uber.org/zap"
)

func NewAPI(token string) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(token)
}

// Notifier delivers price-alert notifications to a fixed chat. The enabled
// flag is the delivery permission gate: when it is off, Notify suppresses
// the message instead of failing.
type Notifier struct {
	api     *tgbotapi.BotAPI
	chatID  int64
	enabled bool
	logger  *zap.Logger
}

func NewNotifier(api *tgbotapi.BotAPI, chatID int64, enabled bool, logger *zap.Logger) *Notifier {
	return &Notifier{api: api, chatID: chatID, enabled: enabled, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, title, message, topic string) error {
	if !n.enabled {
		n.logger.Debug("notification suppressed", zap.String("topic", topic))
		return domain.ErrNotificationsDisabled
	}

	n.logger.Info("telegram notify send", zap.String("topic", topic), zap.String("title", title))
	msg := tgbotapi.NewMessage(n.chatID, title+"\n"+message)
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Warn("failed to notify", zap.String("topic", topic), zap.Error(err))
		return err
	}
	return nil
}
