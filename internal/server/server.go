package server

// Данный сервер просто объединяет специфичные HTTP сервера.
// Пока у нас только TraderServer, но их может быть несколько.
type Server struct {
	TraderServer
}

func NewServer(
	traderServer TraderServer,
) Server {
	return Server{
		TraderServer: traderServer,
	}
}
