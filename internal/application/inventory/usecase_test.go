package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Doble de prueba: envuelve el store en memoria, cuenta llamadas por primitiva
// y permite hacer fallar la N-ésima llamada de cualquiera de ellas.
// ──────────────────────────────────────────────────────────────────────────────

var errBoom = errors.New("fallo remoto simulado")

type faultyStore struct {
	*memory.Store
	calls  map[string]int
	failAt map[string]int // primitiva -> número de llamada que falla (1-based)
}

func newFaultyStore() *faultyStore {
	return &faultyStore{Store: memory.New(), calls: map[string]int{}, failAt: map[string]int{}}
}

func (f *faultyStore) hit(op string) error {
	f.calls[op]++
	if n, ok := f.failAt[op]; ok && f.calls[op] == n {
		return errBoom
	}
	return nil
}

func (f *faultyStore) totalCalls() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *faultyStore) InsertMovementHeader(ctx context.Context, m *entity.Movement) error {
	if err := f.hit("insertHeader"); err != nil {
		return err
	}
	return f.Store.InsertMovementHeader(ctx, m)
}

func (f *faultyStore) DeleteMovementHeader(ctx context.Context, id string) error {
	if err := f.hit("deleteHeader"); err != nil {
		return err
	}
	return f.Store.DeleteMovementHeader(ctx, id)
}

func (f *faultyStore) InsertMovementLine(ctx context.Context, l *entity.MovementLine) error {
	if err := f.hit("insertLine"); err != nil {
		return err
	}
	return f.Store.InsertMovementLine(ctx, l)
}

func (f *faultyStore) DeleteMovementLinesForMovement(ctx context.Context, id string) error {
	if err := f.hit("deleteLines"); err != nil {
		return err
	}
	return f.Store.DeleteMovementLinesForMovement(ctx, id)
}

func (f *faultyStore) UpdateMovementStatus(ctx context.Context, id string, from, to entity.MovementStatus) error {
	if err := f.hit("updateStatus"); err != nil {
		return err
	}
	return f.Store.UpdateMovementStatus(ctx, id, from, to)
}

func (f *faultyStore) GetProductPrice(ctx context.Context, sku string) (decimal.Decimal, error) {
	if err := f.hit("getPrice"); err != nil {
		return decimal.Zero, err
	}
	return f.Store.GetProductPrice(ctx, sku)
}

type recordedMetrics struct {
	movements     map[string]int
	types         map[entity.MovementType]int
	compensations map[string]int
}

func newRecordedMetrics() *recordedMetrics {
	return &recordedMetrics{movements: map[string]int{}, types: map[entity.MovementType]int{}, compensations: map[string]int{}}
}

func (m *recordedMetrics) MovementRecorded(t entity.MovementType, outcome string) {
	m.types[t]++
	m.movements[outcome]++
}
func (m *recordedMetrics) CompensationFinished(outcome string) { m.compensations[outcome]++ }

func setup(t *testing.T) (*faultyStore, *inventory.RecordMovementUseCase, *inventory.CurrentStockUseCase, *recordedMetrics) {
	t.Helper()
	store := newFaultyStore()
	ctx := context.Background()
	require.NoError(t, store.UpsertProduct(ctx, entity.Product{SKU: "ABC", Name: "Aceite", Price: decimal.NewFromInt(100), MinStock: 2, BarcodeAttribute: "1L"}))
	require.NoError(t, store.UpsertProduct(ctx, entity.Product{SKU: "XYZ", Name: "Zumo", Price: decimal.RequireFromString("2.50")}))
	require.NoError(t, store.UpsertProduct(ctx, entity.Product{SKU: "QRS", Name: "Queso", Price: decimal.NewFromInt(7)}))

	metrics := newRecordedMetrics()
	uc := inventory.NewRecordMovementUseCase(store, store, inventory.WithMetrics(metrics))
	return store, uc, inventory.NewCurrentStockUseCase(store.Store), metrics
}

func input(t entity.MovementType, lines ...inventory.LineInput) inventory.MovementInput {
	return inventory.MovementInput{Type: t, Lines: lines, Metadata: inventory.Metadata{PerformedBy: "user-1"}}
}

func ln(sku string, qty int64) inventory.LineInput {
	return inventory.LineInput{SKU: sku, Quantity: qty}
}

func onHand(t *testing.T, stock *inventory.CurrentStockUseCase, sku string) int64 {
	t.Helper()
	row, err := stock.GetProductStock(context.Background(), sku)
	require.NoError(t, err)
	return row.OnHand
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios A y B
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaLuegoVenta(t *testing.T) {
	_, uc, stock, _ := setup(t)
	ctx := context.Background()

	in, err := uc.RecordMovement(ctx, input(entity.MovementTypeInbound, ln("ABC", 10)))
	require.NoError(t, err)
	require.Len(t, in.Lines, 1)
	assert.Equal(t, entity.MovementStatusCompleted, in.Status)
	assert.Equal(t, int64(10), in.Lines[0].Quantity)
	assert.True(t, in.Lines[0].Total.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, int64(10), onHand(t, stock, "ABC"))

	sale, err := uc.RecordMovement(ctx, input(entity.MovementTypeSale, ln("abc", 3)))
	require.NoError(t, err)
	assert.Equal(t, int64(-3), sale.Lines[0].Quantity)
	assert.Equal(t, "ABC", sale.Lines[0].SKU, "el SKU se normaliza")
	assert.Equal(t, int64(7), onHand(t, stock, "ABC"))
}

func TestRecordMovement_NormalizacionDeSigno(t *testing.T) {
	cases := []struct {
		typ  entity.MovementType
		in   int64
		want int64
	}{
		{entity.MovementTypeInbound, 5, 5},
		{entity.MovementTypeInbound, -5, 5},
		{entity.MovementTypeOutbound, 5, -5},
		{entity.MovementTypeOutbound, -5, -5},
		{entity.MovementTypeSale, 5, -5},
		{entity.MovementTypeSale, -5, -5},
		{entity.MovementTypeAdjustment, 5, 5},
		{entity.MovementTypeAdjustment, -5, -5},
		{entity.MovementTypeTransfer, 5, 5},
		{entity.MovementTypeTransfer, -5, -5},
	}
	for _, tc := range cases {
		t.Run(string(tc.typ), func(t *testing.T) {
			store, uc, _, _ := setup(t)
			mov, err := uc.RecordMovement(context.Background(), input(tc.typ, ln("ABC", tc.in)))
			require.NoError(t, err)

			persisted, err := store.GetMovement(context.Background(), mov.ID)
			require.NoError(t, err)
			require.Len(t, persisted.Lines, 1)
			assert.Equal(t, tc.want, persisted.Lines[0].Quantity)
		})
	}
}

// La suma de líneas persistidas coincide con OnHand tras una secuencia de movimientos.
func TestRecordMovement_OnHandEsSumaDeLineas(t *testing.T) {
	store, uc, stock, _ := setup(t)
	ctx := context.Background()

	seq := []inventory.MovementInput{
		input(entity.MovementTypeInbound, ln("ABC", 20), ln("XYZ", 8)),
		input(entity.MovementTypeSale, ln("ABC", 4)),
		input(entity.MovementTypeAdjustment, ln("XYZ", -3), ln("ABC", 2)),
		input(entity.MovementTypeOutbound, ln("XYZ", 10)),
		input(entity.MovementTypeTransfer, ln("ABC", -1)),
	}
	var ids []string
	for _, in := range seq {
		mov, err := uc.RecordMovement(ctx, in)
		require.NoError(t, err)
		ids = append(ids, mov.ID)
	}

	sums := map[string]int64{}
	for _, id := range ids {
		mov, err := store.GetMovement(ctx, id)
		require.NoError(t, err)
		for _, l := range mov.Lines {
			sums[l.SKU] += l.Quantity
		}
	}
	assert.Equal(t, sums["ABC"], onHand(t, stock, "ABC"))
	assert.Equal(t, sums["XYZ"], onHand(t, stock, "XYZ"))
	assert.Equal(t, int64(-5), onHand(t, stock, "XYZ"), "el stock puede quedar negativo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación (Escenario D)
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_ValidacionSinLlamadasAlStore(t *testing.T) {
	cases := []struct {
		name string
		in   inventory.MovementInput
	}{
		{"sin líneas", input(entity.MovementTypeInbound)},
		{"cantidad cero", input(entity.MovementTypeInbound, ln("ABC", 0))},
		{"sku vacío", input(entity.MovementTypeSale, ln("ABC", 1), ln("  ", 2))},
		{"tipo desconocido", input(entity.MovementType("GIFT"), ln("ABC", 1))},
		{"cantidad fuera de rango", input(entity.MovementTypeInbound, ln("ABC", math.MinInt64))},
		{"cantidad fuera de rango en venta", input(entity.MovementTypeSale, ln("ABC", 1), ln("XYZ", math.MinInt64))},
		{"sin usuario", inventory.MovementInput{Type: entity.MovementTypeInbound, Lines: []inventory.LineInput{ln("ABC", 1)}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, uc, _, _ := setup(t)

			mov, err := uc.RecordMovement(context.Background(), tc.in)
			assert.Nil(t, mov)

			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
			assert.Zero(t, store.totalCalls(), "la validación no debe tocar el almacén")
		})
	}
}

func TestRecordMovement_TipoDesconocidoNoAbreSeries(t *testing.T) {
	_, uc, _, metrics := setup(t)
	for i := 0; i < 20; i++ {
		_, err := uc.RecordMovement(context.Background(), input(entity.MovementType(fmt.Sprintf("junk-%d", i)), ln("ABC", 1)))
		require.Error(t, err)
	}
	_, err := uc.RecordMovement(context.Background(), input(entity.MovementTypeInbound, ln("ABC", 1)))
	require.NoError(t, err)

	assert.Equal(t, map[entity.MovementType]int{
		inventory.UnknownMovementType: 20,
		entity.MovementTypeInbound:    1,
	}, metrics.types)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rollback
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_FalloEnLineaNRevierteTodo(t *testing.T) {
	for failing := 1; failing <= 3; failing++ {
		store, uc, stock, metrics := setup(t)
		store.failAt["insertLine"] = failing

		mov, err := uc.RecordMovement(context.Background(),
			input(entity.MovementTypeInbound, ln("ABC", 1), ln("XYZ", 2), ln("QRS", 3)))
		assert.Nil(t, mov)

		var pw *domain.PartialWriteError
		require.ErrorAs(t, err, &pw, "línea %d", failing)
		assert.ErrorIs(t, err, errBoom)
		assert.Equal(t, domain.KindPartialWrite, domain.KindOf(err))

		headers, lines := store.Counts()
		assert.Zero(t, headers, "no debe quedar cabecera (falla línea %d)", failing)
		assert.Zero(t, lines, "no deben quedar líneas (falla línea %d)", failing)
		assert.Equal(t, 1, store.calls["deleteLines"])
		assert.Equal(t, 1, store.calls["deleteHeader"])
		assert.Equal(t, int64(0), onHand(t, stock, "ABC"))
		assert.Equal(t, 1, metrics.compensations[inventory.CompensationOK])
		assert.Equal(t, 1, metrics.movements[string(domain.KindPartialWrite)])
	}
}

func TestRecordMovement_SKUSinPrecioPrimeraLinea(t *testing.T) {
	store, uc, _, _ := setup(t)

	_, err := uc.RecordMovement(context.Background(), input(entity.MovementTypeInbound, ln("NOPE", 1)))

	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "NOPE", nf.Key)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))

	headers, lines := store.Counts()
	assert.Zero(t, headers)
	assert.Zero(t, lines)
	assert.Equal(t, 1, store.calls["deleteHeader"])
	assert.Zero(t, store.calls["deleteLines"], "no había líneas que compensar")
	assert.Zero(t, store.calls["insertLine"])
}

func TestRecordMovement_SKUSinPrecioLineaPosterior(t *testing.T) {
	store, uc, _, _ := setup(t)

	_, err := uc.RecordMovement(context.Background(),
		input(entity.MovementTypeInbound, ln("ABC", 1), ln("NOPE", 1)))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	headers, lines := store.Counts()
	assert.Zero(t, headers)
	assert.Zero(t, lines)
	assert.Equal(t, 1, store.calls["deleteLines"])
}

func TestRecordMovement_FalloConsultandoPrecio(t *testing.T) {
	store, uc, _, _ := setup(t)
	store.failAt["getPrice"] = 2

	_, err := uc.RecordMovement(context.Background(),
		input(entity.MovementTypeInbound, ln("ABC", 1), ln("XYZ", 1)))
	assert.ErrorIs(t, err, domain.ErrPartialWrite)

	headers, lines := store.Counts()
	assert.Zero(t, headers)
	assert.Zero(t, lines)
}

func TestRecordMovement_FalloAlCompletarCabecera(t *testing.T) {
	store, uc, _, _ := setup(t)
	store.failAt["updateStatus"] = 1

	_, err := uc.RecordMovement(context.Background(), input(entity.MovementTypeInbound, ln("ABC", 1)))
	var pw *domain.PartialWriteError
	require.ErrorAs(t, err, &pw)
	assert.Equal(t, "completar", pw.Step)

	headers, lines := store.Counts()
	assert.Zero(t, headers)
	assert.Zero(t, lines)
}

func TestRecordMovement_FalloInsertandoCabecera(t *testing.T) {
	store, uc, _, _ := setup(t)
	store.failAt["insertHeader"] = 1

	_, err := uc.RecordMovement(context.Background(), input(entity.MovementTypeInbound, ln("ABC", 1)))
	assert.ErrorIs(t, err, errBoom)
	assert.Equal(t, domain.KindInternal, domain.KindOf(err))
	assert.Equal(t, 1, store.calls["deleteHeader"], "se compensa por si la fila llegó a escribirse")
	assert.Zero(t, store.calls["insertLine"])
}

// El driver escribe la cabecera pero el caller recibe timeout.
type lateHeaderStore struct{ *faultyStore }

func (s lateHeaderStore) InsertMovementHeader(ctx context.Context, m *entity.Movement) error {
	if err := s.faultyStore.InsertMovementHeader(ctx, m); err != nil {
		return err
	}
	return context.DeadlineExceeded
}

func TestRecordMovement_TimeoutTrasEscribirCabeceraNoDejaResiduo(t *testing.T) {
	store, _, _, metrics := setup(t)
	uc := inventory.NewRecordMovementUseCase(lateHeaderStore{store}, store, inventory.WithMetrics(metrics))

	_, err := uc.RecordMovement(context.Background(), input(entity.MovementTypeInbound, ln("ABC", 1)))
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	headers, lines := store.Counts()
	assert.Zero(t, headers, "la cabecera escrita se borra")
	assert.Zero(t, lines)
	assert.Equal(t, 1, metrics.compensations[inventory.CompensationOK])
}

// El ID ya existe: la fila es de otro movimiento.
type conflictHeaderStore struct{ *faultyStore }

func (s conflictHeaderStore) InsertMovementHeader(context.Context, *entity.Movement) error {
	return fmt.Errorf("insert movement header: %w", domain.ErrConflict)
}

func TestRecordMovement_ConflictoDeIDNoBorraAjeno(t *testing.T) {
	store, _, _, _ := setup(t)
	uc := inventory.NewRecordMovementUseCase(conflictHeaderStore{store}, store)

	_, err := uc.RecordMovement(context.Background(), input(entity.MovementTypeInbound, ln("ABC", 1)))
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, store.calls["deleteHeader"])
}

func TestRecordMovement_ContextoCanceladoIgualCompensa(t *testing.T) {
	store := newFaultyStore()
	require.NoError(t, store.UpsertProduct(context.Background(), entity.Product{SKU: "ABC", Name: "A", Price: decimal.NewFromInt(1)}))
	ctx, cancel := context.WithCancel(context.Background())

	// El precio de la segunda línea cancela el request y falla.
	prices := priceFunc(func(c context.Context, sku string) (decimal.Decimal, error) {
		if sku == "XYZ" {
			cancel()
			return decimal.Zero, c.Err()
		}
		return decimal.NewFromInt(1), nil
	})
	uc := inventory.NewRecordMovementUseCase(ctxAwareStore{store}, prices)

	_, err := uc.RecordMovement(ctx, input(entity.MovementTypeInbound, ln("ABC", 1), ln("XYZ", 1)))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, domain.ErrPartialWrite)

	headers, lines := store.Counts()
	assert.Zero(t, headers, "la compensación corre con un contexto propio")
	assert.Zero(t, lines)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallo de compensación
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_FalloDeCompensacionEsFatal(t *testing.T) {
	store, uc, _, metrics := setup(t)
	store.failAt["insertLine"] = 2
	store.failAt["deleteLines"] = 1

	_, err := uc.RecordMovement(context.Background(),
		input(entity.MovementTypeInbound, ln("ABC", 1), ln("XYZ", 2)))

	var cf *domain.CompensationFailure
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, domain.KindCompensation, domain.KindOf(err))
	assert.Equal(t, []string{"líneas", "cabecera"}, cf.Pending)
	assert.ErrorIs(t, err, domain.ErrPartialWrite, "conserva la causa original")
	assert.Zero(t, store.calls["deleteHeader"], "no se borra la cabecera con líneas presentes")
	assert.Equal(t, 1, metrics.compensations[inventory.CompensationFailed])

	headers, lines := store.Counts()
	assert.Equal(t, 1, headers, "el residuo queda visible para conciliación")
	assert.Equal(t, 1, lines)
}

func TestRecordMovement_FalloBorrandoCabecera(t *testing.T) {
	store, uc, _, _ := setup(t)
	store.failAt["insertLine"] = 1
	store.failAt["deleteHeader"] = 1

	_, err := uc.RecordMovement(context.Background(), input(entity.MovementTypeInbound, ln("ABC", 1)))

	var cf *domain.CompensationFailure
	require.ErrorAs(t, err, &cf)
	assert.Equal(t, []string{"cabecera"}, cf.Pending)
	assert.Equal(t, 1, store.calls["deleteLines"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Precio congelado, cancelación y consulta
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_PrecioCongeladoEnLinea(t *testing.T) {
	store, uc, stock, _ := setup(t)
	ctx := context.Background()

	mov, err := uc.RecordMovement(ctx, input(entity.MovementTypeInbound, ln("ABC", 10)))
	require.NoError(t, err)

	require.NoError(t, store.UpsertProduct(ctx, entity.Product{SKU: "ABC", Name: "Aceite", Price: decimal.NewFromInt(150), MinStock: 2}))

	persisted, err := uc.GetMovement(ctx, mov.ID)
	require.NoError(t, err)
	assert.True(t, persisted.Lines[0].UnitPrice.Equal(decimal.NewFromInt(100)), "la línea conserva el precio histórico")

	row, err := stock.GetProductStock(ctx, "ABC")
	require.NoError(t, err)
	assert.True(t, row.TotalValue.Equal(decimal.NewFromInt(1500)), "el valor usa el precio vivo")
}

func TestCancelMovement_SaleDelStock(t *testing.T) {
	_, uc, stock, _ := setup(t)
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, input(entity.MovementTypeInbound, ln("ABC", 10)))
	require.NoError(t, err)
	sale, err := uc.RecordMovement(ctx, input(entity.MovementTypeSale, ln("ABC", 4)))
	require.NoError(t, err)
	require.Equal(t, int64(6), onHand(t, stock, "ABC"))

	cancelled, err := uc.CancelMovement(ctx, sale.ID, "user-2")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementStatusCancelled, cancelled.Status)
	assert.Equal(t, int64(10), onHand(t, stock, "ABC"))

	_, err = uc.CancelMovement(ctx, sale.ID, "user-2")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "no se cancela dos veces")

	_, err = uc.CancelMovement(ctx, "no-existe", "user-2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.CancelMovement(ctx, sale.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelMovement_ConcurrenteSoloUnoGana(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.UpsertProduct(ctx, entity.Product{SKU: "ABC", Name: "Aceite", Price: decimal.NewFromInt(1)}))
	uc := inventory.NewRecordMovementUseCase(store, store)
	mov, err := uc.RecordMovement(ctx, input(entity.MovementTypeInbound, ln("ABC", 5)))
	require.NoError(t, err)

	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, lost int
	)
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := uc.CancelMovement(ctx, mov.ID, "user-2")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInvalidInput) {
				lost++
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, ok, "una sola cancelación aplica")
	assert.Equal(t, workers-1, lost)
}

// Otro cancel gana entre la lectura y la escritura.
type racedCancelStore struct{ *memory.Store }

func (s racedCancelStore) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	mov, err := s.Store.GetMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Store.UpdateMovementStatus(ctx, id, entity.MovementStatusCompleted, entity.MovementStatusCancelled); err != nil {
		return nil, err
	}
	return mov, nil
}

func TestCancelMovement_EstadoCambiadoTrasLectura(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.UpsertProduct(ctx, entity.Product{SKU: "ABC", Name: "Aceite", Price: decimal.NewFromInt(1)}))
	mov, err := inventory.NewRecordMovementUseCase(store, store).RecordMovement(ctx, input(entity.MovementTypeInbound, ln("ABC", 5)))
	require.NoError(t, err)

	_, err = inventory.NewRecordMovementUseCase(racedCancelStore{store}, store).CancelMovement(ctx, mov.ID, "user-2")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Field)
}

func TestRecordMovementFromRequest_AliasDeTipo(t *testing.T) {
	_, uc, _, _ := setup(t)

	mov, err := uc.RecordMovementFromRequest(context.Background(), "user-9", dto.RecordMovementRequest{
		Type:         "stock-out",
		Lines:        []dto.MovementLineRequest{{SKU: "abc", Quantity: 2}},
		Reference:    " FAC-001 ",
		CustomerName: "Ana",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeOutbound, mov.Type)
	assert.Equal(t, "FAC-001", mov.Reference)
	assert.Equal(t, "user-9", mov.PerformedBy)
	assert.Equal(t, int64(-2), mov.Lines[0].Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// helpers
// ──────────────────────────────────────────────────────────────────────────────

type priceFunc func(ctx context.Context, sku string) (decimal.Decimal, error)

func (f priceFunc) GetProductPrice(ctx context.Context, sku string) (decimal.Decimal, error) {
	return f(ctx, sku)
}

// ctxAwareStore rechaza escrituras con contexto cancelado, como lo haría un driver remoto.
type ctxAwareStore struct{ *faultyStore }

func (s ctxAwareStore) DeleteMovementHeader(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.faultyStore.DeleteMovementHeader(ctx, id)
}

func (s ctxAwareStore) DeleteMovementLinesForMovement(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.faultyStore.DeleteMovementLinesForMovement(ctx, id)
}
