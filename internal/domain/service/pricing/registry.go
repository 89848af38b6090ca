package pricing

// TradeRegistry решает, кому предмет вообще продаётся. По умолчанию каждый
// предмет принимает магазин; явно зарегистрированные предметы уходят только
// игрокам, если их отдельно не пометили как принимаемые и магазином тоже.
type TradeRegistry struct {
	playerTradeable map[string]struct{}
	catalogSellable map[string]struct{}
}

func NewTradeRegistry() *TradeRegistry {
	return &TradeRegistry{
		playerTradeable: make(map[string]struct{}),
		catalogSellable: make(map[string]struct{}),
	}
}

// DefaultTradeRegistry covers the items the shop refuses to take back.
func DefaultTradeRegistry() *TradeRegistry {
	r := NewTradeRegistry()

	r.RegisterPlayerTradeable("Seelenkapsel von Wesen", false)
	r.RegisterPlayerTradeable("Blutprobe von Wesen", false)
	r.RegisterPlayerTradeable("Ölfass", false)
	r.RegisterPlayerTradeable("Zyanklee", true)

	return r
}

// RegisterPlayerTradeable marks a canonical name as sold player-to-player;
// alsoCatalog keeps the shop as an accepted buyer anyway.
func (r *TradeRegistry) RegisterPlayerTradeable(name string, alsoCatalog bool) {
	r.playerTradeable[name] = struct{}{}
	if alsoCatalog {
		r.catalogSellable[name] = struct{}{}
	}
}

// CatalogSellable reports whether the shop buys the item.
func (r *TradeRegistry) CatalogSellable(name string) bool {
	if _, ok := r.playerTradeable[name]; !ok {
		return true
	}

	_, ok := r.catalogSellable[name]
	return ok
}
