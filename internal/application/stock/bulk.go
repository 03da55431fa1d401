package stock

import (
	"context"

	"github.com/tu-usuario/estokia-api/internal/application/dto"
)

// BulkAdjust aplica una lista de ajustes en orden, aislando fallos por ítem:
// cada ajuste es su propia unidad atómica y un error se registra en el
// resultado sin abortar el resto (no es una transacción multi-ítem).
// Processed siempre es el largo del input; Success global solo si todos pasaron.
func (uc *LedgerUseCase) BulkAdjust(ctx context.Context, userID string, in dto.BulkAdjustRequest) (*dto.BulkAdjustResponse, error) {
	results := make([]dto.BulkAdjustItemResult, 0, len(in.Adjustments))
	allOK := true

	for _, item := range in.Adjustments {
		res, err := uc.Adjust(ctx, MovementInput{
			ProductID: item.ProductID,
			UserID:    userID,
			Type:      item.Type,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Reason:    item.Reason,
			Notes:     item.Notes,
		})
		if err != nil {
			allOK = false
			results = append(results, dto.BulkAdjustItemResult{
				ProductID: item.ProductID,
				Success:   false,
				Error:     err.Error(),
			})
			continue
		}
		results = append(results, dto.BulkAdjustItemResult{
			ProductID:    item.ProductID,
			Success:      true,
			CurrentStock: res.Product.CurrentStock,
		})
	}

	return &dto.BulkAdjustResponse{
		Success:   allOK,
		Processed: len(results),
		Results:   results,
	}, nil
}
