package domain

import (
	"errors"
	"fmt"

	"git.appkode.ru/pub/go/failure"

	"fw_trader/pkg/errcodes"
)

// AppError представляет доменную ошибку приложения.
type AppError struct {
	Code    failure.ErrorCode
	Message string
	cause   error
}

// Error реализует интерфейс error.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap возвращает обёрнутую ошибку для errors.Is/As.
func (e *AppError) Unwrap() error {
	return e.cause
}

// NewError создаёт новую доменную ошибку.
func NewError(code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// WrapError оборачивает существующую ошибку с доменным контекстом.
func WrapError(err error, code failure.ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   err,
	}
}

// GetCode извлекает код ошибки, если это AppError.
func GetCode(err error) (failure.ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return "", false
}

func hasCode(err error, codes ...failure.ErrorCode) bool {
	code, ok := GetCode(err)
	if !ok {
		return false
	}
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}

// IsFormatError: текст страницы нарушил структурный контракт парсера.
// Всегда фатально для этого вызова парсера.
func IsFormatError(err error) bool {
	return hasCode(err, errcodes.FormatError)
}

// IsStateError: клиент игры не достиг ожидаемого состояния UI.
func IsStateError(err error) bool {
	return hasCode(err, errcodes.StateError, errcodes.MenuNotOpened, errcodes.ConfirmMissing)
}

// IsStructural: ошибка, из-за которой внешний сервис ставит problem-флаг
// и загоняет рутину в awaiting_delivery до ручного сброса.
func IsStructural(err error) bool {
	return IsFormatError(err) || IsStateError(err)
}

// IsPricingGap: для принятого лота не нашлось базы перепродажи.
// Фатально только для этого лота, не для всего скана категории.
func IsPricingGap(err error) bool {
	return hasCode(err, errcodes.PricingGap)
}

// IsTransientIO: сбой удалённого сервиса, деградируем до "нет данных".
// Истёкший дедлайн действия — тот же класс: данные просто не пришли.
func IsTransientIO(err error) bool {
	return hasCode(err, errcodes.TransientIO, errcodes.TimeoutExceeded)
}

// IsListingVanished: лот пропал между сканом и кликом покупки.
// Ожидаемый исход гонки с другими игроками, не структурный сбой.
func IsListingVanished(err error) bool {
	return hasCode(err, errcodes.ListingVanished)
}
