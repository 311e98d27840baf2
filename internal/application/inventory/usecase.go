package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

const defaultCompensationTimeout = 10 * time.Second

// RecordMovementUseCase registra movimientos (cabecera + líneas) sobre un almacén sin transacciones
// multi-tabla. Cada escritura tiene su compensación; ante un fallo se revierte todo lo escrito
// en orden inverso antes de devolver el error.
type RecordMovementUseCase struct {
	movements           repository.MovementRepository
	prices              repository.PriceLookup
	metrics             Metrics
	log                 *logger.Logger
	compensationTimeout time.Duration
	now                 func() time.Time
}

// Option configura el caso de uso.
type Option func(*RecordMovementUseCase)

// WithMetrics reporta resultados a m.
func WithMetrics(m Metrics) Option {
	return func(uc *RecordMovementUseCase) {
		if m != nil {
			uc.metrics = m
		}
	}
}

// WithLogger usa log para compensaciones y fallos.
func WithLogger(log *logger.Logger) Option {
	return func(uc *RecordMovementUseCase) {
		if log != nil {
			uc.log = log
		}
	}
}

// WithCompensationTimeout plazo de los borrados de reversa.
func WithCompensationTimeout(d time.Duration) Option {
	return func(uc *RecordMovementUseCase) {
		if d > 0 {
			uc.compensationTimeout = d
		}
	}
}

// WithClock reemplaza el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(uc *RecordMovementUseCase) { uc.now = now }
}

// NewRecordMovementUseCase construye el caso de uso.
func NewRecordMovementUseCase(
	movements repository.MovementRepository,
	prices repository.PriceLookup,
	opts ...Option,
) *RecordMovementUseCase {
	uc := &RecordMovementUseCase{
		movements:           movements,
		prices:              prices,
		metrics:             nopMetrics{},
		log:                 logger.Nop(),
		compensationTimeout: defaultCompensationTimeout,
		now:                 func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// LineInput línea capturada: SKU y cantidad tal como la digitó el usuario.
type LineInput struct {
	SKU      string
	Quantity int64
}

// Metadata datos de la cabecera. PerformedBy es obligatorio y lo entrega el caller
// (no se lee de ninguna sesión global).
type Metadata struct {
	PerformedBy  string
	Reference    string
	Notes        string
	CustomerName string
}

// MovementInput entrada de RecordMovement.
type MovementInput struct {
	Type     entity.MovementType
	Lines    []LineInput
	Metadata Metadata
}

// Validate revisa la entrada sin tocar el almacén.
func (in MovementInput) Validate() error {
	if !in.Type.Valid() {
		return domain.Invalid("type", fmt.Sprintf("tipo de movimiento desconocido %q", in.Type))
	}
	if strings.TrimSpace(in.Metadata.PerformedBy) == "" {
		return domain.Invalid("performed_by", "obligatorio")
	}
	if len(in.Lines) == 0 {
		return domain.Invalid("lines", "debe tener al menos una línea")
	}
	for i, l := range in.Lines {
		if entity.NormalizeSKU(l.SKU) == "" {
			return domain.Invalid(fmt.Sprintf("lines[%d].sku", i), "obligatorio")
		}
		if l.Quantity == 0 {
			return domain.Invalid(fmt.Sprintf("lines[%d].quantity", i), "no puede ser cero")
		}
		// -MinInt64 no existe en int64; el signo normalizado quedaría invertido.
		if l.Quantity == math.MinInt64 {
			return domain.Invalid(fmt.Sprintf("lines[%d].quantity", i), "fuera de rango")
		}
	}
	return nil
}

// RecordMovement inserta la cabecera en estado pending, luego cada línea en el orden recibido
// (precio vigente consultado por línea, signo normalizado por tipo) y por último marca la cabecera
// completed. Si un paso falla se compensa lo escrito y se devuelve un único error tipado:
//   - *domain.ValidationError: entrada inválida, no se hizo ninguna llamada al almacén.
//   - *domain.NotFoundError: un SKU sin precio; ya se revirtió.
//   - *domain.PartialWriteError: falló una escritura o consulta remota; ya se revirtió.
//   - *domain.CompensationFailure: la reversa falló; quedan residuos para conciliación manual.
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	mov, err := uc.record(ctx, in)
	outcome := "ok"
	if err != nil {
		outcome = string(domain.KindOf(err))
	}
	// Tipos desconocidos vienen del request: no pueden abrir series nuevas.
	movementType := in.Type
	if !movementType.Valid() {
		movementType = UnknownMovementType
	}
	uc.metrics.MovementRecorded(movementType, outcome)
	return mov, err
}

func (uc *RecordMovementUseCase) record(ctx context.Context, in MovementInput) (*entity.Movement, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := uc.now()
	header := &entity.Movement{
		ID:           uuid.New().String(),
		Type:         in.Type,
		Reference:    strings.TrimSpace(in.Metadata.Reference),
		CustomerName: strings.TrimSpace(in.Metadata.CustomerName),
		Notes:        strings.TrimSpace(in.Metadata.Notes),
		PerformedBy:  strings.TrimSpace(in.Metadata.PerformedBy),
		Status:       entity.MovementStatusPending,
		CreatedAt:    now,
	}
	// Igual que con las líneas: un timeout puede dejar la cabecera escrita, así que la
	// compensación va antes del insert. Borrar una cabecera inexistente no es error.
	sg := newSaga(header.ID)
	sg.record("cabecera", func(ctx context.Context) error {
		return uc.movements.DeleteMovementHeader(ctx, header.ID)
	})
	if err := uc.movements.InsertMovementHeader(ctx, header); err != nil {
		cause := fmt.Errorf("insertar cabecera de movimiento: %w", err)
		if errors.Is(err, domain.ErrConflict) {
			// El ID pertenece a otra fila: no se borra.
			return nil, cause
		}
		return nil, uc.abort(ctx, sg, cause)
	}

	lines := make([]entity.MovementLine, 0, len(in.Lines))
	for i, li := range in.Lines {
		sku := entity.NormalizeSKU(li.SKU)
		price, err := uc.prices.GetProductPrice(ctx, sku)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, uc.abort(ctx, sg, &domain.NotFoundError{Resource: "producto", Key: sku})
			}
			return nil, uc.abort(ctx, sg, &domain.PartialWriteError{
				MovementID: header.ID,
				Step:       fmt.Sprintf("precio línea %d", i+1),
				Err:        err,
			})
		}

		qty := in.Type.Normalize(li.Quantity)
		line := entity.MovementLine{
			ID:         uuid.New().String(),
			MovementID: header.ID,
			SKU:        sku,
			Quantity:   qty,
			UnitPrice:  price,
			Total:      entity.LineTotal(qty, price),
			CreatedAt:  now,
		}
		// La compensación de líneas se registra antes del primer insert: un timeout puede
		// dejar la fila escrita aunque el caller reciba error.
		if i == 0 {
			sg.record("líneas", func(ctx context.Context) error {
				return uc.movements.DeleteMovementLinesForMovement(ctx, header.ID)
			})
		}
		if err := uc.movements.InsertMovementLine(ctx, &line); err != nil {
			return nil, uc.abort(ctx, sg, &domain.PartialWriteError{
				MovementID: header.ID,
				Step:       fmt.Sprintf("línea %d", i+1),
				Err:        err,
			})
		}
		lines = append(lines, line)
	}

	if err := uc.movements.UpdateMovementStatus(ctx, header.ID, entity.MovementStatusPending, entity.MovementStatusCompleted); err != nil {
		return nil, uc.abort(ctx, sg, &domain.PartialWriteError{MovementID: header.ID, Step: "completar", Err: err})
	}

	header.Status = entity.MovementStatusCompleted
	header.Lines = lines
	return header, nil
}

// abort revierte la saga con un contexto propio: si el request ya expiró, los borrados igual deben correr.
func (uc *RecordMovementUseCase) abort(ctx context.Context, sg *saga, cause error) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.compensationTimeout)
	defer cancel()

	uc.log.Warn().
		Str("movement_id", sg.movementID).
		Err(cause).
		Msg("revirtiendo movimiento")

	if err := sg.rollback(cctx, cause); err != nil {
		uc.metrics.CompensationFinished(CompensationFailed)
		var cf *domain.CompensationFailure
		if errors.As(err, &cf) {
			uc.log.Error().
				Str("movement_id", cf.MovementID).
				Strs("pending", cf.Pending).
				AnErr("cause", cf.Cause).
				Err(cf.Err).
				Msg("compensación fallida: requiere conciliación manual")
		}
		return err
	}
	uc.metrics.CompensationFinished(CompensationOK)
	return cause
}

// GetMovement devuelve la cabecera con sus líneas.
func (uc *RecordMovementUseCase) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.Invalid("id", "obligatorio")
	}
	return uc.movements.GetMovement(ctx, id)
}

// CancelMovement marca como cancelled un movimiento completado. Es un cambio de estado, no un borrado;
// sus líneas dejan de contar en el stock actual.
func (uc *RecordMovementUseCase) CancelMovement(ctx context.Context, id, performedBy string) (*entity.Movement, error) {
	if strings.TrimSpace(performedBy) == "" {
		return nil, domain.Invalid("performed_by", "obligatorio")
	}
	mov, err := uc.GetMovement(ctx, id)
	if err != nil {
		return nil, err
	}
	switch mov.Status {
	case entity.MovementStatusCancelled:
		return nil, domain.Invalid("status", "el movimiento ya está cancelado")
	case entity.MovementStatusPending:
		return nil, domain.Invalid("status", "el movimiento no está completado")
	}
	// Otro cancel concurrente pudo ganar entre la lectura y aquí; el adapter lo detecta.
	if err := uc.movements.UpdateMovementStatus(ctx, mov.ID, entity.MovementStatusCompleted, entity.MovementStatusCancelled); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cancelar movimiento: %w", err)
	}
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("performed_by", performedBy).
		Msg("movimiento cancelado")

	mov.Status = entity.MovementStatusCancelled
	return mov, nil
}
