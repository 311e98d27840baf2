package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// CurrentStockUseCase proyector de stock actual. Solo lectura: no guarda caché entre llamadas,
// cada consulta relee el almacén.
type CurrentStockUseCase struct {
	stock repository.StockRepository
}

// NewCurrentStockUseCase construye el proyector.
func NewCurrentStockUseCase(stock repository.StockRepository) *CurrentStockUseCase {
	return &CurrentStockUseCase{stock: stock}
}

// GetCurrentStock devuelve OnHand y valor (precio vivo) por producto, ordenado por nombre.
// sku vacío = todos los productos.
func (uc *CurrentStockUseCase) GetCurrentStock(ctx context.Context, sku string) ([]entity.CurrentStock, error) {
	rows, err := uc.stock.QueryCurrentStock(ctx, repository.StockFilter{SKU: entity.NormalizeSKU(sku)})
	if err != nil {
		return nil, fmt.Errorf("consultar stock actual: %w", err)
	}
	domaininv.Finalize(rows)
	return rows, nil
}

// GetProductStock devuelve la fila de un solo SKU o NotFoundError.
func (uc *CurrentStockUseCase) GetProductStock(ctx context.Context, sku string) (*entity.CurrentStock, error) {
	sku = entity.NormalizeSKU(sku)
	if sku == "" {
		return nil, domain.Invalid("sku", "obligatorio")
	}
	rows, err := uc.GetCurrentStock(ctx, sku)
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].SKU == sku {
			return &rows[i], nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "producto", Key: sku}
}
