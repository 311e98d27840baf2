// Package backend abre el almacén configurado (DB_DRIVER) y expone sus puertos.
package backend

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/sqlite"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// Catalog alta de productos (seed y herramientas; el ledger solo los lee).
type Catalog interface {
	UpsertProduct(ctx context.Context, p entity.Product) error
}

// Backend puertos del almacén abierto.
type Backend struct {
	Driver   string
	Movement repository.MovementRepository
	Prices   repository.PriceLookup
	Stock    repository.StockRepository
	Labels   repository.LabelCounterRepository
	Catalog  Catalog
	close    func()
}

// Close libera conexiones.
func (b *Backend) Close() {
	if b.close != nil {
		b.close()
	}
}

// Open conecta al driver configurado.
func Open(ctx context.Context, cfg config.DBConfig) (*Backend, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		products := postgres.NewProductRepository(pool)
		return &Backend{
			Driver:   cfg.Driver,
			Movement: postgres.NewMovementRepository(pool),
			Prices:   products,
			Stock:    postgres.NewStockRepository(pool),
			Labels:   postgres.NewLabelCounterRepository(pool),
			Catalog:  products,
			close:    pool.Close,
		}, nil

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "." && cfg.SQLitePath != ":memory:" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("crear directorio sqlite: %w", err)
			}
		}
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Backend{
			Driver:   cfg.Driver,
			Movement: store,
			Prices:   store,
			Stock:    store,
			Labels:   store,
			Catalog:  store,
			close:    func() { _ = store.Close() },
		}, nil

	case config.DriverMemory:
		store := memory.New()
		return &Backend{
			Driver:   cfg.Driver,
			Movement: store,
			Prices:   store,
			Stock:    store,
			Labels:   store,
			Catalog:  store,
		}, nil
	}
	return nil, fmt.Errorf("DB_DRIVER desconocido: %q", cfg.Driver)
}
