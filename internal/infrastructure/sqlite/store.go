// Package sqlite implementación de los puertos del ledger sobre SQLite (desarrollo local y pruebas
// de integración). El esquema se crea en New. Precios y totales se guardan como TEXT decimal.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.MovementRepository     = (*Store)(nil)
	_ repository.PriceLookup            = (*Store)(nil)
	_ repository.StockRepository        = (*Store)(nil)
	_ repository.LabelCounterRepository = (*Store)(nil)
)

const timeLayout = time.RFC3339Nano

// Store adaptador SQLite.
type Store struct {
	db *sql.DB
}

// New abre (o crea) la base en path. ":memory:" crea una base en memoria.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// Una sola conexión: SQLite admite un escritor y ":memory:" es por conexión.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrar sqlite: %w", err)
	}
	return s, nil
}

// Close cierra la base.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		sku TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price TEXT NOT NULL,
		min_stock INTEGER NOT NULL DEFAULT 0,
		barcode_attribute TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS movements (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		reference TEXT NOT NULL DEFAULT '',
		customer_name TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		performed_by TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS movement_lines (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		movement_id TEXT NOT NULL REFERENCES movements(id),
		sku TEXT NOT NULL REFERENCES products(sku),
		quantity INTEGER NOT NULL,
		unit_price TEXT NOT NULL,
		total TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_movement_lines_movement ON movement_lines(movement_id);
	CREATE INDEX IF NOT EXISTS idx_movement_lines_sku ON movement_lines(sku);

	CREATE TABLE IF NOT EXISTS label_counters (
		sku TEXT PRIMARY KEY REFERENCES products(sku),
		labeled_count INTEGER NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

// UpsertProduct crea o reemplaza un producto.
func (s *Store) UpsertProduct(ctx context.Context, p entity.Product) error {
	p.SKU = entity.NormalizeSKU(p.SKU)
	if p.SKU == "" {
		return domain.Invalid("sku", "obligatorio")
	}
	if p.Price.IsNegative() {
		return domain.Invalid("price", "no puede ser negativo")
	}
	now := time.Now().UTC().Format(timeLayout)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO products (sku, name, price, min_stock, barcode_attribute, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(sku) DO UPDATE SET
			name = excluded.name,
			price = excluded.price,
			min_stock = excluded.min_stock,
			barcode_attribute = excluded.barcode_attribute,
			updated_at = excluded.updated_at`,
		p.SKU, p.Name, p.Price.String(), p.MinStock, p.BarcodeAttribute, now, now)
	if err != nil {
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetProductPrice precio vigente del SKU.
func (s *Store) GetProductPrice(ctx context.Context, sku string) (decimal.Decimal, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT price FROM products WHERE sku = ?`, entity.NormalizeSKU(sku)).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, &domain.NotFoundError{Resource: "producto", Key: sku}
		}
		return decimal.Zero, fmt.Errorf("get product price: %w", err)
	}
	return decimal.NewFromString(raw)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

// InsertMovementHeader persiste la cabecera.
func (s *Store) InsertMovementHeader(ctx context.Context, m *entity.Movement) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO movements (id, type, reference, customer_name, notes, performed_by, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, string(m.Type), m.Reference, m.CustomerName, m.Notes, m.PerformedBy, string(m.Status),
		m.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintPrimaryKey) || isConstraint(err, sqlite3.ErrConstraintUnique) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert movement header: %w", err)
	}
	return nil
}

// DeleteMovementHeader borra la cabecera; si no existe no es error.
func (s *Store) DeleteMovementHeader(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM movements WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete movement header: %w", err)
	}
	return nil
}

// InsertMovementLine persiste una línea; cabecera y producto deben existir.
func (s *Store) InsertMovementLine(ctx context.Context, l *entity.MovementLine) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO movement_lines (id, movement_id, sku, quantity, unit_price, total, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.MovementID, l.SKU, l.Quantity, l.UnitPrice.String(), l.Total.String(),
		l.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			// SQLite no informa qué FK falló.
			if s.exists(ctx, `SELECT 1 FROM movements WHERE id = ?`, l.MovementID) {
				return &domain.NotFoundError{Resource: "producto", Key: l.SKU}
			}
			return &domain.NotFoundError{Resource: "movimiento", Key: l.MovementID}
		}
		return fmt.Errorf("insert movement line: %w", err)
	}
	return nil
}

// DeleteMovementLinesForMovement borra todas las líneas del movimiento.
func (s *Store) DeleteMovementLinesForMovement(ctx context.Context, movementID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM movement_lines WHERE movement_id = ?`, movementID); err != nil {
		return fmt.Errorf("delete movement lines: %w", err)
	}
	return nil
}

// UpdateMovementStatus cambia el estado de la cabecera si sigue en from.
func (s *Store) UpdateMovementStatus(ctx context.Context, id string, from, to entity.MovementStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE movements SET status = ? WHERE id = ? AND status = ?`, string(to), id, string(from))
	if err != nil {
		return fmt.Errorf("update movement status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update movement status: %w", err)
	}
	if n > 0 {
		return nil
	}
	var current string
	err = s.db.QueryRowContext(ctx, `SELECT status FROM movements WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Resource: "movimiento", Key: id}
	}
	if err != nil {
		return fmt.Errorf("read movement status: %w", err)
	}
	return domain.StatusMismatch(current, string(from))
}

// GetMovement cabecera con sus líneas en orden de inserción.
func (s *Store) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	var (
		m                  entity.Movement
		typ, status, stamp string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, type, reference, customer_name, notes, performed_by, status, created_at
		FROM movements WHERE id = ?`, id).
		Scan(&m.ID, &typ, &m.Reference, &m.CustomerName, &m.Notes, &m.PerformedBy, &status, &stamp)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.NotFoundError{Resource: "movimiento", Key: id}
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	m.Type = entity.MovementType(typ)
	m.Status = entity.MovementStatus(status)
	if m.CreatedAt, err = time.Parse(timeLayout, stamp); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, movement_id, sku, quantity, unit_price, total, created_at
		FROM movement_lines WHERE movement_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			l                  entity.MovementLine
			price, total, when string
		)
		if err := rows.Scan(&l.ID, &l.MovementID, &l.SKU, &l.Quantity, &price, &total, &when); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		if l.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse unit_price: %w", err)
		}
		if l.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parse total: %w", err)
		}
		if l.CreatedAt, err = time.Parse(timeLayout, when); err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		m.Lines = append(m.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movement lines: %w", err)
	}
	return &m, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock y etiquetas
// ──────────────────────────────────────────────────────────────────────────────

// QueryCurrentStock suma las líneas de movimientos no cancelados por producto.
func (s *Store) QueryCurrentStock(ctx context.Context, filter repository.StockFilter) ([]entity.CurrentStock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.sku, p.name, p.price, p.min_stock, p.barcode_attribute,
		       COALESCE(SUM(CASE WHEN m.status <> 'cancelled' THEN l.quantity END), 0) AS on_hand
		FROM products p
		LEFT JOIN movement_lines l ON l.sku = p.sku
		LEFT JOIN movements m ON m.id = l.movement_id
		WHERE (? = '' OR p.sku = ?)
		GROUP BY p.sku
		ORDER BY p.name, p.sku`, entity.NormalizeSKU(filter.SKU), entity.NormalizeSKU(filter.SKU))
	if err != nil {
		return nil, fmt.Errorf("query current stock: %w", err)
	}
	defer rows.Close()

	var out []entity.CurrentStock
	for rows.Next() {
		var (
			row   entity.CurrentStock
			price string
		)
		if err := rows.Scan(&row.SKU, &row.Name, &price, &row.MinStock, &row.BarcodeAttribute, &row.OnHand); err != nil {
			return nil, fmt.Errorf("scan current stock: %w", err)
		}
		if row.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("parse price: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetLabeledCount devuelve 0 si el SKU nunca se etiquetó.
func (s *Store) GetLabeledCount(ctx context.Context, sku string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT labeled_count FROM label_counters WHERE sku = ?`, entity.NormalizeSKU(sku)).Scan(&n)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("get labeled count: %w", err)
	}
	return n, nil
}

// SetLabeledCount reemplaza el conteo.
func (s *Store) SetLabeledCount(ctx context.Context, sku string, count int) error {
	if count < 0 {
		return domain.Invalid("count", "no puede ser negativo")
	}
	sku = entity.NormalizeSKU(sku)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO label_counters (sku, labeled_count, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(sku) DO UPDATE SET labeled_count = excluded.labeled_count, updated_at = excluded.updated_at`,
		sku, count, time.Now().UTC().Format(timeLayout))
	if err != nil {
		if isConstraint(err, sqlite3.ErrConstraintForeignKey) {
			return &domain.NotFoundError{Resource: "producto", Key: sku}
		}
		return fmt.Errorf("set labeled count: %w", err)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, query string, args ...any) bool {
	var one int
	return s.db.QueryRowContext(ctx, query, args...).Scan(&one) == nil
}

func isConstraint(err error, code sqlite3.ErrNoExtended) bool {
	var sqlErr sqlite3.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.ExtendedCode == code
	}
	return false
}
