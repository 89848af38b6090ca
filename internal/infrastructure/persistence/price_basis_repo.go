package persistence

import (
	"context"
	"fmt"
	"time"

	"fw_trader/internal/domain"
	"fw_trader/internal/domain/entity"
	"fw_trader/pkg/errcodes"

	"github.com/jmoiron/sqlx"
)

// PriceBasisRepository хранит кэш ценовых основ в локальной sqlite-базе.
type PriceBasisRepository struct {
	db *sqlx.DB
}

// NewPriceBasisRepository создаёт новый экземпляр репозитория.
func NewPriceBasisRepository(db *sqlx.DB) *PriceBasisRepository {
	return &PriceBasisRepository{db: db}
}

// Migrate создаёт таблицу кэша, если её ещё нет.
func (r *PriceBasisRepository) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS price_basis (
			name               TEXT NOT NULL,
			world              TEXT NOT NULL,
			shop_price         INTEGER,
			player_price       INTEGER,
			player_observed_at TIMESTAMP,
			player_world       TEXT,
			fetched_at         TIMESTAMP NOT NULL,
			PRIMARY KEY (name, world)
		)`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to migrate price_basis")
	}

	return nil
}

// withTx выполняет функцию в транзакции.
func (r *PriceBasisRepository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to begin transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return domain.WrapError(
				fmt.Errorf("%w; rollback: %v", err, rbErr),
				errcodes.InternalServerError,
				"transaction failed",
			)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to commit")
	}

	return nil
}

// Upsert сохраняет или обновляет ценовую основу предмета.
func (r *PriceBasisRepository) Upsert(ctx context.Context, world string, basis *entity.PriceBasis) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		return r.upsertTx(ctx, tx, world, basis)
	})
}

// UpsertBatch сохраняет массив ценовых основ атомарно.
func (r *PriceBasisRepository) UpsertBatch(ctx context.Context, world string, bases []*entity.PriceBasis) error {
	if len(bases) == 0 {
		return nil
	}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		for i, basis := range bases {
			if err := r.upsertTx(ctx, tx, world, basis); err != nil {
				return domain.WrapError(err, errcodes.InternalServerError,
					fmt.Sprintf("failed at index %d", i))
			}
		}
		return nil
	})
}

// LoadAll возвращает все сохранённые основы для указанного мира.
func (r *PriceBasisRepository) LoadAll(ctx context.Context, world string) ([]*entity.PriceBasis, error) {
	query := `
		SELECT name, world, shop_price, player_price, player_observed_at, player_world, fetched_at
		FROM price_basis
		WHERE world = $1`

	var schemas []priceBasisSchema
	if err := r.db.SelectContext(ctx, &schemas, query, world); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to load price basis cache")
	}

	bases := make([]*entity.PriceBasis, 0, len(schemas))
	for i := range schemas {
		bases = append(bases, schemas[i].toDomain())
	}

	return bases, nil
}

// Prune удаляет записи, полученные раньше указанного момента.
func (r *PriceBasisRepository) Prune(ctx context.Context, world string, before time.Time) (int64, error) {
	query := `DELETE FROM price_basis WHERE world = $1 AND fetched_at < $2`

	res, err := r.db.ExecContext(ctx, query, world, before)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to prune price basis cache")
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to check affected rows")
	}

	return rows, nil
}

// upsertTx — внутренний метод вставки в рамках транзакции.
func (r *PriceBasisRepository) upsertTx(ctx context.Context, tx *sqlx.Tx, world string, basis *entity.PriceBasis) error {
	query := `
		INSERT INTO price_basis (name, world, shop_price, player_price, player_observed_at, player_world, fetched_at)
		VALUES (:name, :world, :shop_price, :player_price, :player_observed_at, :player_world, :fetched_at)
		ON CONFLICT (name, world) DO UPDATE SET
			shop_price         = excluded.shop_price,
			player_price       = excluded.player_price,
			player_observed_at = excluded.player_observed_at,
			player_world       = excluded.player_world,
			fetched_at         = excluded.fetched_at`

	if _, err := tx.NamedExecContext(ctx, query, fromBasis(world, basis)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to upsert price basis")
	}

	return nil
}
