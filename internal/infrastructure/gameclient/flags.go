package gameclient

import "github.com/chromedp/chromedp"

// browserFlags — набор флагов под быструю загрузку страниц игры.
// Картинки не отключаем, игра прячет часть ссылок за иконками.
func browserFlags(headless bool, userAgent string) []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),

		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),

		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("exclude-switches", "enable-automation"),

		chromedp.Flag("disable-audio-output", true),
		chromedp.Flag("disable-logging", true),
		chromedp.Flag("log-level", "3"),

		chromedp.Flag("user-agent", userAgent),
	)
}
