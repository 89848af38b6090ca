package listing

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/pkg/errcodes"
	"fw_trader/pkg/logx"
)

// Текстовые разделители одного лота. Формат жёсткий: пропавшая пара
// разделителей — это сломанная страница, а не повод парсить дальше.
const (
	boldOpen   = "<b>"
	boldClose  = "</b>"
	costPrefix = " für "
	costSuffix = " Gold"
	refOpen    = `<a href="`
	refClose   = `"`
	itemIDKey  = "mit_item="
	magicMark  = "(magisch)"
)

var lineBreakPattern = regexp.MustCompile(`<br\s*/?>|\r?\n`)

type PriceResolver interface {
	Basis(ctx context.Context, name string) (*entity.PriceBasis, error)
	Profit(basis *entity.PriceBasis, cost int64) (int64, error)
}

// Parser turns one category page's raw text into priced offers.
type Parser struct {
	prices PriceResolver
	accept Acceptor
}

func NewParser(prices PriceResolver) *Parser {
	return &Parser{
		prices: prices,
		accept: MinProfitAcceptor(1, nil),
	}
}

// WithAcceptor replaces the acceptance predicate. The predicate is policy,
// not parsing; anything callers can express over a built offer works.
func (p *Parser) WithAcceptor(accept Acceptor) *Parser {
	p.accept = accept
	return p
}

// Parse isolates the listing section of the category page, splits it into
// item lines and builds an accepted offer per parsable line. A pricing gap
// skips the single line; a structural violation fails the whole call.
func (p *Parser) Parse(ctx context.Context, category entity.Category, raw string) ([]entity.Offer, error) {
	nav := category.Nav()

	section, err := between(raw, nav.SectionStart, nav.SectionEnd)
	if err != nil {
		return nil, domain.WrapError(err, errcodes.FormatError,
			fmt.Sprintf("listing section of %s not found", category))
	}

	var offers []entity.Offer

	for _, line := range lineBreakPattern.Split(section, -1) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, boldOpen) {
			continue
		}

		offer, err := p.parseLine(ctx, category, line)
		if err != nil {
			if domain.IsPricingGap(err) {
				logger(ctx).Debug("offer skipped, no resale basis",
					logx.FieldCategory, category.String(), "line", line)
				continue
			}
			return nil, err
		}

		if p.accept(offer) {
			offers = append(offers, offer)
		}
	}

	return offers, nil
}

func (p *Parser) parseLine(ctx context.Context, category entity.Category, line string) (entity.Offer, error) {
	name, err := between(line, boldOpen, boldClose)
	if err != nil {
		return entity.Offer{}, domain.WrapError(err, errcodes.FormatError, "item name missing")
	}

	costRaw, err := between(line, costPrefix, costSuffix)
	if err != nil {
		return entity.Offer{}, domain.WrapError(err, errcodes.FormatError, "asking cost missing")
	}

	cost, err := strconv.ParseInt(strings.ReplaceAll(costRaw, ".", ""), 10, 64)
	if err != nil {
		return entity.Offer{}, domain.WrapError(err, errcodes.FormatError,
			fmt.Sprintf("asking cost %q not numeric", costRaw))
	}

	ref, err := between(line, refOpen, refClose)
	if err != nil {
		return entity.Offer{}, domain.WrapError(err, errcodes.FormatError, "purchase reference missing")
	}

	itemID, err := itemIDFromRef(ref)
	if err != nil {
		return entity.Offer{}, domain.WrapError(err, errcodes.FormatError, "item id missing in reference")
	}

	basis, err := p.prices.Basis(ctx, strings.TrimSpace(name))
	if err != nil {
		return entity.Offer{}, fmt.Errorf("prices.Basis: %w", err)
	}

	profit, err := p.prices.Profit(basis, cost)
	if err != nil {
		return entity.Offer{}, fmt.Errorf("prices.Profit: %w", err)
	}

	return entity.Offer{
		ItemID:   itemID,
		Name:     strings.TrimSpace(name),
		Cost:     cost,
		Category: category,
		Magical:  strings.Contains(line, magicMark),
		Profit:   profit,
		Basis:    basis,
		Ref:      ref,
	}, nil
}

// between cuts the text enclosed by the first open/close delimiter pair.
func between(s, open, close string) (string, error) {
	start := strings.Index(s, open)
	if start < 0 {
		return "", fmt.Errorf("delimiter %q not found", open)
	}

	rest := s[start+len(open):]

	end := strings.Index(rest, close)
	if end < 0 {
		return "", fmt.Errorf("delimiter %q not closed by %q", open, close)
	}

	return rest[:end], nil
}

// itemIDFromRef extracts the numeric identifier embedded in the purchase
// reference, e.g. "...&mit_item=42&...".
func itemIDFromRef(ref string) (int64, error) {
	idx := strings.Index(ref, itemIDKey)
	if idx < 0 {
		return 0, fmt.Errorf("marker %q not found in %q", itemIDKey, ref)
	}

	digits := ref[idx+len(itemIDKey):]

	end := 0
	for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
		end++
	}

	if end == 0 {
		return 0, fmt.Errorf("no digits after %q in %q", itemIDKey, ref)
	}

	id, err := strconv.ParseInt(digits[:end], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("strconv.ParseInt: %w", err)
	}

	return id, nil
}
