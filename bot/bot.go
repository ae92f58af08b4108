package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"livraison-telegram/config"
	"livraison-telegram/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Bot ingests free-form messages from coordination group chats and feeds
// them through the classification/transition pipeline. It holds no state
// of its own: every message is one synchronous unit of work.
type Bot struct {
	api *tgbotapi.BotAPI
	cfg *config.Config
}

func New(cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, cfg: cfg}, nil
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		msg := update.Message
		if msg == nil || msg.Text == "" {
			continue
		}
		b.handleMessage(context.Background(), msg)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	agency, err := services.EnsureAgency(ctx, msg.Chat.ID, msg.Chat.Title)
	if err != nil {
		log.Printf("ensure agency for chat %d: %v", msg.Chat.ID, err)
		return
	}

	res, err := services.ProcessIncomingMessage(ctx, agency, senderLabel(msg), msg.Text)
	if err != nil {
		log.Printf("process message in chat %d: %v", msg.Chat.ID, err)
		b.reportToAdmin(fmt.Sprintf("Erreur chat %d: %v", msg.Chat.ID, err))
		return
	}

	switch res.Action {
	case services.ActionNotFound:
		b.reportToAdmin(fmt.Sprintf("Livraison introuvable (chat %d): %s", msg.Chat.ID, firstLine(msg.Text)))
	case services.ActionIgnored:
		return
	}
	b.confirm(ctx, msg.Chat.ID, res)
}

// confirm replies in the group when enabled by configuration. Duplicate
// chat posts within 30 seconds produce a single confirmation.
func (b *Bot) confirm(ctx context.Context, chatID int64, res *services.ProcessResult) {
	if !b.cfg.Delivery.ConfirmEnabled {
		return
	}
	text := services.ConfirmationText(res)
	if text == "" {
		return
	}
	meta := map[string]interface{}{"sent_via": "delivery_confirm", "action": res.Action}
	if res.Delivery != nil {
		dup, err := services.SentConfirmationWithin30s(ctx, res.Delivery.ID, res.Action)
		if err == nil && dup {
			return
		}
		meta["delivery_id"] = strconv.FormatInt(res.Delivery.ID, 10)
	}
	b.send(chatID, text)
	if err := services.SaveOutboundMessage(ctx, chatID, text, meta); err != nil {
		log.Printf("save outbound message: %v", err)
	}
}

func (b *Bot) reportToAdmin(text string) {
	if b.cfg.Telegram.AdminChatID == 0 {
		return
	}
	b.send(b.cfg.Telegram.AdminChatID, text)
}

func (b *Bot) send(chatID int64, text string) {
	m := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(m); err != nil {
		log.Printf("send to %d: %v", chatID, err)
	}
}

// senderLabel is the history actor for chat-driven changes: the telegram
// username when set, the numeric user id otherwise.
func senderLabel(msg *tgbotapi.Message) string {
	if msg.From == nil {
		return "telegram"
	}
	if msg.From.UserName != "" {
		return "tg:" + msg.From.UserName
	}
	return fmt.Sprintf("tg:%d", msg.From.ID)
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i]
		}
	}
	return s
}
