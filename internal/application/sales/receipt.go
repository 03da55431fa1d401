package sales

import (
	"context"

	"github.com/tu-usuario/estokia-api/internal/domain"
)

// GetReceiptPDF genera el comprobante PDF de una venta, con las líneas
// enriquecidas con nombre y SKU del producto al momento de la consulta.
func (uc *SalesUseCase) GetReceiptPDF(ctx context.Context, saleID string) ([]byte, error) {
	if uc.receipts == nil {
		return nil, domain.ErrInvalidInput
	}
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}

	lines := make([]ReceiptLine, 0, len(sale.Items))
	for _, item := range sale.Items {
		line := ReceiptLine{
			ProductName: item.ProductID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		}
		if product, err := uc.productRepo.GetByID(item.ProductID); err == nil && product != nil {
			line.ProductName = product.Name
			line.SKU = product.SKU
		}
		lines = append(lines, line)
	}
	return uc.receipts.GenerateSaleReceipt(ctx, sale, lines)
}
