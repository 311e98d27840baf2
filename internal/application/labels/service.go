package labels

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/barcode"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// StockReader fila de stock actual de un SKU (lo implementa el proyector de inventario).
type StockReader interface {
	GetProductStock(ctx context.Context, sku string) (*entity.CurrentStock, error)
}

// Metrics observa planes y advertencias. outcome es "ok" o un domain.ErrorKind.
type Metrics interface {
	LabelPlanned(outcome string)
	LabelWarning(w entity.LabelWarning)
}

type nopMetrics struct{}

func (nopMetrics) LabelPlanned(string) {}
func (nopMetrics) LabelWarning(entity.LabelWarning) {}

// Service orquesta el planificador con el stock vivo y el contador de unidades etiquetadas.
type Service struct {
	stock    StockReader
	counters repository.LabelCounterRepository
	planner  *Planner
	codes    *barcode.UnitCodeService
	metrics  Metrics
	log      *logger.Logger
}

// NewService construye el servicio. metrics y log pueden ser nil.
func NewService(stock StockReader, counters repository.LabelCounterRepository, planner *Planner, metrics Metrics, log *logger.Logger) *Service {
	if planner == nil {
		planner = NewPlanner(nil, DefaultApproachingLimit)
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		stock:    stock,
		counters: counters,
		planner:  planner,
		codes:    planner.codes,
		metrics:  metrics,
		log:      log,
	}
}

// PlanForProduct lee stock y conteo previo del SKU y planifica la tanda. No modifica el contador:
// eso ocurre en MarkPrinted cuando la impresión se confirma.
func (s *Service) PlanForProduct(ctx context.Context, sku string, start, quantity int) (*entity.LabelPlan, error) {
	plan, err := s.plan(ctx, sku, start, quantity)
	outcome := "ok"
	if err != nil {
		outcome = string(domain.KindOf(err))
	}
	s.metrics.LabelPlanned(outcome)
	return plan, err
}

func (s *Service) plan(ctx context.Context, sku string, start, quantity int) (*entity.LabelPlan, error) {
	product, err := s.stock.GetProductStock(ctx, sku)
	if err != nil {
		return nil, err
	}
	prev, err := s.counters.GetLabeledCount(ctx, product.SKU)
	if err != nil {
		return nil, fmt.Errorf("leer conteo de etiquetas: %w", err)
	}
	plan, err := s.planner.PlanLabels(*product, start, quantity, prev)
	if err != nil {
		return nil, err
	}
	for _, w := range plan.Warnings {
		s.metrics.LabelWarning(w)
	}
	if len(plan.Warnings) > 0 {
		warnings := make([]string, 0, len(plan.Warnings))
		for _, w := range plan.Warnings {
			warnings = append(warnings, string(w))
		}
		s.log.Debug().
			Str("sku", plan.SKU).
			Int("start_unit", plan.StartUnit).
			Int("end_unit", plan.EndUnit).
			Strs("warnings", warnings).
			Msg("plan de etiquetas con advertencias")
	}
	return plan, nil
}

// MarkPrinted registra que se imprimieron etiquetas hasta endUnit. Reimprimir unidades viejas
// nunca baja el contador. Devuelve el conteo resultante.
func (s *Service) MarkPrinted(ctx context.Context, sku string, endUnit int) (int, error) {
	sku = entity.NormalizeSKU(sku)
	if sku == "" {
		return 0, domain.Invalid("sku", "obligatorio")
	}
	if endUnit < barcode.MinUnit {
		return 0, domain.Invalid("end_unit", fmt.Sprintf("debe ser >= %d", barcode.MinUnit))
	}
	if endUnit > barcode.MaxUnit {
		return 0, &domain.ExhaustionError{Requested: endUnit, Limit: barcode.MaxUnit}
	}
	if _, err := s.stock.GetProductStock(ctx, sku); err != nil {
		return 0, err
	}
	prev, err := s.counters.GetLabeledCount(ctx, sku)
	if err != nil {
		return 0, fmt.Errorf("leer conteo de etiquetas: %w", err)
	}
	if endUnit <= prev {
		return prev, nil
	}
	if err := s.counters.SetLabeledCount(ctx, sku, endUnit); err != nil {
		return 0, fmt.Errorf("guardar conteo de etiquetas: %w", err)
	}
	s.log.Info().Str("sku", sku).Int("labeled_count", endUnit).Msg("etiquetas impresas")
	return endUnit, nil
}

// LabeledCount conteo actual de unidades etiquetadas del SKU.
func (s *Service) LabeledCount(ctx context.Context, sku string) (int, error) {
	sku = entity.NormalizeSKU(sku)
	if sku == "" {
		return 0, domain.Invalid("sku", "obligatorio")
	}
	return s.counters.GetLabeledCount(ctx, sku)
}

// CodeFor código de una unidad puntual (reimpresión de una etiqueta).
func (s *Service) CodeFor(sku, attribute string, unit int) (string, error) {
	return s.codes.CodeFor(sku, attribute, unit)
}
