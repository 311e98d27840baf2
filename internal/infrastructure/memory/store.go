// Package memory implementación en memoria de los puertos del ledger (tests y DB_DRIVER=memory).
// Cada método es atómico por sí solo, igual que una fila en el almacén remoto; no ofrece transacciones.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.MovementRepository     = (*Store)(nil)
	_ repository.PriceLookup            = (*Store)(nil)
	_ repository.StockRepository        = (*Store)(nil)
	_ repository.LabelCounterRepository = (*Store)(nil)
)

// Store guarda productos, cabeceras y líneas en mapas protegidos por un RWMutex.
type Store struct {
	mu       sync.RWMutex
	products map[string]entity.Product
	headers  map[string]entity.Movement
	order    []string // ids de cabecera en orden de inserción
	lines    map[string][]entity.MovementLine
	labeled  map[string]int
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		headers:  make(map[string]entity.Movement),
		lines:    make(map[string][]entity.MovementLine),
		labeled:  make(map[string]int),
	}
}

// UpsertProduct registra o reemplaza un producto del catálogo.
func (s *Store) UpsertProduct(_ context.Context, p entity.Product) error {
	p.SKU = entity.NormalizeSKU(p.SKU)
	if p.SKU == "" {
		return domain.Invalid("sku", "obligatorio")
	}
	if p.Price.IsNegative() {
		return domain.Invalid("price", "no puede ser negativo")
	}
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.products[p.SKU]; ok {
		p.CreatedAt = prev.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	s.products[p.SKU] = p
	return nil
}

// GetProductPrice devuelve el precio vigente del SKU.
func (s *Store) GetProductPrice(_ context.Context, sku string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[entity.NormalizeSKU(sku)]
	if !ok {
		return decimal.Zero, &domain.NotFoundError{Resource: "producto", Key: sku}
	}
	return p.Price, nil
}

// InsertMovementHeader persiste la cabecera sin líneas.
func (s *Store) InsertMovementHeader(_ context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.headers[m.ID]; ok {
		return domain.ErrConflict
	}
	h := *m
	h.Lines = nil
	s.headers[m.ID] = h
	s.order = append(s.order, m.ID)
	return nil
}

// DeleteMovementHeader borra la cabecera. Borrar una inexistente no es error.
func (s *Store) DeleteMovementHeader(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.headers[id]; !ok {
		return nil
	}
	delete(s.headers, id)
	for i, x := range s.order {
		if x == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// InsertMovementLine persiste una línea; la cabecera debe existir (integridad referencial).
func (s *Store) InsertMovementLine(_ context.Context, l *entity.MovementLine) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.headers[l.MovementID]; !ok {
		return &domain.NotFoundError{Resource: "movimiento", Key: l.MovementID}
	}
	s.lines[l.MovementID] = append(s.lines[l.MovementID], *l)
	return nil
}

// DeleteMovementLinesForMovement borra todas las líneas del movimiento.
func (s *Store) DeleteMovementLinesForMovement(_ context.Context, movementID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.lines, movementID)
	return nil
}

// UpdateMovementStatus cambia el estado de la cabecera si sigue en from.
func (s *Store) UpdateMovementStatus(_ context.Context, id string, from, to entity.MovementStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.headers[id]
	if !ok {
		return &domain.NotFoundError{Resource: "movimiento", Key: id}
	}
	if h.Status != from {
		return domain.StatusMismatch(string(h.Status), string(from))
	}
	h.Status = to
	s.headers[id] = h
	return nil
}

// GetMovement devuelve una copia de la cabecera con sus líneas.
func (s *Store) GetMovement(_ context.Context, id string) (*entity.Movement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.headers[id]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "movimiento", Key: id}
	}
	h.Lines = append([]entity.MovementLine(nil), s.lines[id]...)
	return &h, nil
}

// QueryCurrentStock proyecta el stock desde el log en cada lectura.
func (s *Store) QueryCurrentStock(_ context.Context, filter repository.StockFilter) ([]entity.CurrentStock, error) {
	sku := entity.NormalizeSKU(filter.SKU)

	s.mu.RLock()
	products := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		if sku == "" || p.SKU == sku {
			products = append(products, p)
		}
	}
	movements := make([]entity.Movement, 0, len(s.order))
	for _, id := range s.order {
		m := s.headers[id]
		m.Lines = s.lines[id]
		movements = append(movements, m)
	}
	rows := inventory.Project(products, movements)
	s.mu.RUnlock()

	return rows, nil
}

// GetLabeledCount devuelve el conteo de unidades etiquetadas.
func (s *Store) GetLabeledCount(_ context.Context, sku string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.labeled[entity.NormalizeSKU(sku)], nil
}

// SetLabeledCount reemplaza el conteo de unidades etiquetadas.
func (s *Store) SetLabeledCount(_ context.Context, sku string, count int) error {
	if count < 0 {
		return domain.Invalid("count", "no puede ser negativo")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.labeled[entity.NormalizeSKU(sku)] = count
	return nil
}

// Counts número de cabeceras y líneas persistidas (verificación de residuos en tests).
func (s *Store) Counts() (headers, lines int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ls := range s.lines {
		lines += len(ls)
	}
	return len(s.headers), lines
}
