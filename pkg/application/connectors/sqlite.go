package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	_ "modernc.org/sqlite" // pure-Go sqlite driver

	"fw_trader/pkg/logx"
)

type Sqlite struct {
	value *sqlx.DB
	Path  string
	init  sync.Once
}

func (s *Sqlite) Client(ctx context.Context) *sqlx.DB {
	s.init.Do(func() {
		lo.Must0(os.MkdirAll(filepath.Dir(s.Path), 0o750))

		dsn := fmt.Sprintf(
			"file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)",
			s.Path,
		)

		s.value = lo.Must(sqlx.ConnectContext(ctx, "sqlite", dsn))

		// Единственный писатель, WAL обслуживает читателей.
		s.value.SetMaxOpenConns(1)
		s.value.SetConnMaxLifetime(0)

		logger(ctx).Info(
			"sqlite connected",
			slog.String("path", s.Path),
		)
	})

	return s.value
}

func (s *Sqlite) Close(ctx context.Context) {
	if err := s.value.Close(); err != nil {
		logger(ctx).Error("sqliteClient.Close", logx.Error(err))
	}

	logger(ctx).Info(
		"sqlite disconnected",
		slog.String("path", s.Path),
	)
}
