package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"fw_trader/internal/domain/entity"
)

type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

// Run запускает обработку покупок из канала.
func (b *TelegramBot) Run(ctx context.Context, purchases <-chan entity.PurchaseResult) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-purchases:
			if !ok {
				return nil
			}
			if err := b.SendPurchase(ctx, res); err != nil {
				logger(ctx).Error("failed to send purchase", "error", err)
			}
		}
	}
}

func (b *TelegramBot) SendPurchase(ctx context.Context, res entity.PurchaseResult) error {
	text := fmt.Sprintf(
		"💰 <b>GEKAUFT!</b>\n\n"+
			"🗡 <b>Name:</b> %s\n"+
			"🏷 <b>Kategorie:</b> %s\n"+
			"💸 <b>Preis:</b> %d Gold\n"+
			"📈 <b>Marge:</b> %d Gold",
		res.Offer.Name,
		res.Offer.Category,
		res.Offer.Cost,
		res.Offer.Profit,
	)

	msg := tu.Message(
		tu.ID(b.chatID),
		text,
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}
