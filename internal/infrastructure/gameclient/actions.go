package gameclient

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/chromedp/chromedp"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/pkg/errcodes"
)

const confirmLabel = "Ja, kaufen"

// Очки действий на игровом экране, ноль значит ждать.
var actionPointsPattern = regexp.MustCompile(`Aktionspunkte:\s*(\d+)`)

// clickAnchorByText ищет ссылку с точным текстом и кликает её.
// Возвращает false, если такой ссылки на странице нет.
const clickAnchorByTextJS = `(() => {
	const label = %s;
	for (const a of document.querySelectorAll('a')) {
		if (a.textContent.trim() === label) { a.click(); return true; }
	}
	return false;
})()`

// clickAnchorByHrefJS кликает ссылку по точному href.
const clickAnchorByHrefJS = `(() => {
	const href = %s;
	for (const a of document.querySelectorAll('a')) {
		if (a.getAttribute('href') === href) { a.click(); return true; }
	}
	return false;
})()`

// OpenCategoryMenu clicks the category link on the merchant screen and
// verifies the section header actually rendered.
func (c *Client) OpenCategoryMenu(ctx context.Context, category entity.Category) (bool, error) {
	nav := category.Nav()

	clicked, err := c.clickAnchorByText(ctx, nav.MenuLabel)
	if err != nil {
		return false, ioError(err, "category menu click failed")
	}
	if !clicked {
		return false, nil
	}

	body, err := c.ReadCurrentPageText(ctx)
	if err != nil {
		return false, err
	}

	return strings.Contains(body, nav.SectionStart), nil
}

// ReadCurrentPageText returns the raw body markup of the current screen.
func (c *Client) ReadCurrentPageText(ctx context.Context) (string, error) {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx,
		chromedp.OuterHTML("body", &html, chromedp.ByQuery),
	); err != nil {
		return "", ioError(err, "failed to read page")
	}

	return html, nil
}

// ClickPurchaseReference follows the exact listing href captured during the
// sweep. A missing href means the listing vanished.
func (c *Client) ClickPurchaseReference(ctx context.Context, ref string) (bool, error) {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var clicked bool
	script := fmt.Sprintf(clickAnchorByHrefJS, strconv.Quote(ref))
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, ioError(err, "purchase click failed")
	}

	return clicked, nil
}

// ClickConfirm answers the purchase confirmation prompt.
func (c *Client) ClickConfirm(ctx context.Context) (bool, error) {
	clicked, err := c.clickAnchorByText(ctx, confirmLabel)
	if err != nil {
		return false, ioError(err, "confirm click failed")
	}

	return clicked, nil
}

// ExitMenu returns to the merchant overview screen.
func (c *Client) ExitMenu(ctx context.Context) error {
	return c.Reset(ctx)
}

// CanActNow reports whether the character has action points to spend.
func (c *Client) CanActNow(ctx context.Context) (bool, error) {
	body, err := c.ReadCurrentPageText(ctx)
	if err != nil {
		return false, err
	}

	match := actionPointsPattern.FindStringSubmatch(body)
	if match == nil {
		return false, domain.NewError(errcodes.StateError, "action points not on screen")
	}

	points, err := strconv.Atoi(match[1])
	if err != nil {
		return false, domain.WrapError(err, errcodes.FormatError, "unreadable action points")
	}

	return points > 0, nil
}

// ChatHistory returns the visible chat lines, oldest first. The chat screen
// is only visited while the trader idles, the game screen is restored after.
func (c *Client) ChatHistory(ctx context.Context) ([]string, error) {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var text string
	err := chromedp.Run(runCtx,
		chromedp.Navigate(c.chatURL()),
		chromedp.Text("body", &text, chromedp.ByQuery),
	)
	if err != nil {
		return nil, ioError(err, "failed to read chat")
	}

	if err := c.Reset(ctx); err != nil {
		return nil, err
	}

	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	return lines, nil
}

func (c *Client) clickAnchorByText(ctx context.Context, label string) (bool, error) {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	var clicked bool
	script := fmt.Sprintf(clickAnchorByTextJS, strconv.Quote(label))
	if err := chromedp.Run(runCtx, chromedp.Evaluate(script, &clicked)); err != nil {
		return false, err
	}

	return clicked, nil
}
