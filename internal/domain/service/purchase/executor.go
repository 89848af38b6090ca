package purchase

import (
	"context"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/pkg/errcodes"
	"fw_trader/pkg/logx"
)

type GameClient interface {
	OpenCategoryMenu(ctx context.Context, category entity.Category) (bool, error)
	ClickPurchaseReference(ctx context.Context, ref string) (bool, error)
	ClickConfirm(ctx context.Context) (bool, error)
	ExitMenu(ctx context.Context) error
}

// Executor проводит одну покупку: открыть меню категории, найти ссылку
// лота, подтвердить. Исчезнувший лот — ожидаемый исход ("не куплено"),
// все остальные срывы — структурные ошибки состояния UI.
type Executor struct {
	client GameClient
}

func NewExecutor(client GameClient) *Executor {
	return &Executor{client: client}
}

// Execute returns whether the offer was bought. On any failure the client is
// returned to a neutral menu state before reporting.
func (e *Executor) Execute(ctx context.Context, offer entity.Offer) (bool, error) {
	opened, err := e.client.OpenCategoryMenu(ctx, offer.Category)
	if err != nil || !opened {
		e.neutralize(ctx)
		return false, domain.WrapError(err, errcodes.MenuNotOpened,
			"category menu did not open for purchase")
	}

	clicked, err := e.client.ClickPurchaseReference(ctx, offer.Ref)
	if err != nil || !clicked {
		// Лот перекупили или ассортимент сменился между сканом и покупкой.
		logger(ctx).Info("listing vanished before purchase",
			logx.FieldItemName, offer.Name,
			logx.FieldItemID, offer.ItemID,
			"error", err,
		)
		e.neutralize(ctx)
		return false, domain.WrapError(err, errcodes.ListingVanished,
			"purchase reference no longer on page")
	}

	confirmed, err := e.client.ClickConfirm(ctx)
	if err != nil || !confirmed {
		e.neutralize(ctx)
		return false, domain.WrapError(err, errcodes.ConfirmMissing,
			"confirmation prompt absent after purchase click")
	}

	logger(ctx).Info("💰 bought",
		logx.FieldItemName, offer.Name,
		logx.FieldCost, offer.Cost,
		logx.FieldProfit, offer.Profit,
	)

	return true, nil
}

func (e *Executor) neutralize(ctx context.Context) {
	if err := e.client.ExitMenu(ctx); err != nil {
		logger(ctx).Warn("failed to return client to neutral menu", "error", err)
	}
}
