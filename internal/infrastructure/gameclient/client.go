package gameclient

import (
	"context"
	"errors"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"fw_trader/internal/domain"
	"fw_trader/pkg/errcodes"
)

const (
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	defaultActionTimeout = 15 * time.Second
)

// Client управляет браузерной сессией игры через chromedp.
// Все игровые действия идут через один живой браузерный контекст.
type Client struct {
	baseURL  string
	world    string
	username string
	password string

	browserCtx context.Context
	cancel     context.CancelFunc

	actionTimeout time.Duration
}

type Options struct {
	BaseURL  string
	World    string
	Username string
	Password string
	Headless bool
	Debug    bool
}

// NewClient запускает браузер и открывает стартовую страницу игры.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx,
		browserFlags(opts.Headless, defaultUserAgent)...)

	zl := zap.NewNop()
	if opts.Debug {
		zl = zap.Must(zap.NewDevelopment())
	}

	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(zl.Sugar().Debugf),
		chromedp.WithErrorf(zl.Sugar().Errorf),
	)

	cancel := func() {
		browserCancel()
		allocCancel()
	}

	// Ассортимент меняется между тиками, кэшированные страницы врут.
	if err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetCacheDisabled(true),
		chromedp.Navigate(opts.BaseURL),
	); err != nil {
		cancel()
		return nil, domain.WrapError(err, errcodes.TransientIO, "failed to open game page")
	}

	return &Client{
		baseURL:       opts.BaseURL,
		world:         opts.World,
		username:      opts.Username,
		password:      opts.Password,
		browserCtx:    browserCtx,
		cancel:        cancel,
		actionTimeout: defaultActionTimeout,
	}, nil
}

// Login проходит форму входа и ждёт игровой экран.
func (c *Client) Login(ctx context.Context) error {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	err := chromedp.Run(runCtx,
		chromedp.Navigate(c.baseURL+"/login.php"),
		chromedp.WaitVisible(`input[name="name"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="name"]`, c.username, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="password"]`, c.password, chromedp.ByQuery),
		chromedp.Click(`input[type="submit"]`, chromedp.NodeVisible, chromedp.ByQuery),
		chromedp.WaitVisible(`#main`, chromedp.ByQuery),
	)
	if err != nil {
		return domain.WrapError(err, errcodes.StateError, "login flow failed")
	}

	logger(ctx).Info("🔑 logged in", "world", c.world, "user", c.username)

	return nil
}

// Reset возвращает браузер на игровой экран.
func (c *Client) Reset(ctx context.Context) error {
	runCtx, cancel := c.runContext(ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Navigate(c.mainURL())); err != nil {
		return ioError(err, "failed to reset game page")
	}

	return nil
}

func (c *Client) Close() {
	c.cancel()
}

func (c *Client) mainURL() string {
	return c.baseURL + "/main.php"
}

func (c *Client) chatURL() string {
	return c.baseURL + "/chathistory.php"
}

// ioError классифицирует срыв браузерного действия: истёкший дедлайн
// получает собственный код, остальное — транзиентный сбой транспорта.
func ioError(err error, message string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.WrapError(err, errcodes.TimeoutExceeded, message)
	}
	return domain.WrapError(err, errcodes.TransientIO, message)
}

// runContext binds a chromedp action to both the caller's deadline and the
// browser session lifetime.
func (c *Client) runContext(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithTimeout(c.browserCtx, c.actionTimeout)

	stop := context.AfterFunc(ctx, cancel)

	return runCtx, func() {
		stop()
		cancel()
	}
}
