package errcodes

import "git.appkode.ru/pub/go/failure"

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Ошибки ядра торгового цикла
	FormatError     failure.ErrorCode = "FormatError"     // Текст страницы нарушает структурный контракт
	StateError      failure.ErrorCode = "StateError"      // Ожидаемое состояние UI не достигнуто
	PricingGap      failure.ErrorCode = "PricingGap"      // Нет базы для расчёта перепродажи
	TransientIO     failure.ErrorCode = "TransientIO"     // Сбой удалённого сервиса цен
	MenuNotOpened   failure.ErrorCode = "MenuNotOpened"   // Меню категории не открылось
	ConfirmMissing  failure.ErrorCode = "ConfirmMissing"  // Диалог подтверждения не появился
	ListingVanished failure.ErrorCode = "ListingVanished" // Лот исчез между сканом и покупкой
)
