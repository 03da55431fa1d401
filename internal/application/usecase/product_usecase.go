package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/estokia-api/internal/application/dto"
	appstock "github.com/tu-usuario/estokia-api/internal/application/stock"
	"github.com/tu-usuario/estokia-api/internal/domain"
	"github.com/tu-usuario/estokia-api/internal/domain/entity"
	"github.com/tu-usuario/estokia-api/internal/domain/repository"
	domstock "github.com/tu-usuario/estokia-api/internal/domain/stock"
)

// ProductUseCase casos de uso CRUD para productos. CurrentStock no se edita
// por acá: solo se mueve vía el ledger de movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	ledger       *appstock.LedgerUseCase
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo}
}

// WithLedger habilita el asiento del stock inicial como movimiento ADJUSTMENT.
func (uc *ProductUseCase) WithLedger(ledger *appstock.LedgerUseCase) *ProductUseCase {
	uc.ledger = ledger
	return uc
}

// Create crea un producto con stock 0 y, si se pidió stock inicial, lo asienta
// como un ADJUSTMENT en el ledger para que el stock quede derivable del journal.
// SKU duplicado devuelve ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CostPrice.LessThan(decimal.Zero) || in.SellingPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.CurrentStock < 0 || in.MinimumStock < 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.MaximumStock != nil && *in.MaximumStock < in.MinimumStock {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.CategoryID != "" {
		category, err := uc.categoryRepo.GetByID(in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
	}

	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		CostPrice:     in.CostPrice,
		SellingPrice:  in.SellingPrice,
		CurrentStock:  0,
		MinimumStock:  in.MinimumStock,
		MaximumStock:  in.MaximumStock,
		UnitOfMeasure: in.UnitOfMeasure,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}

	if in.CurrentStock > 0 && uc.ledger != nil {
		res, err := uc.ledger.Adjust(ctx, appstock.MovementInput{
			ProductID: product.ID,
			UserID:    userID,
			Type:      domstock.TypeADJUSTMENT,
			Quantity:  in.CurrentStock,
			Reason:    "Initial stock",
		})
		if err != nil {
			return nil, err
		}
		product.CurrentStock = res.Product.CurrentStock
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos editables de un producto. CurrentStock nunca:
// el stock solo se mueve vía ledger. SKU nuevo se valida contra duplicados.
func (uc *ProductUseCase) Update(id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.SKU != nil && *in.SKU != product.SKU {
		existing, _ := uc.repo.GetBySKU(*in.SKU)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		product.SKU = *in.SKU
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil {
		if *in.CategoryID != "" {
			category, err := uc.categoryRepo.GetByID(*in.CategoryID)
			if err != nil {
				return nil, err
			}
			if category == nil {
				return nil, domain.ErrNotFound
			}
		}
		product.CategoryID = *in.CategoryID
	}
	if in.CostPrice != nil {
		if in.CostPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.CostPrice = *in.CostPrice
	}
	if in.SellingPrice != nil {
		if in.SellingPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.SellingPrice = *in.SellingPrice
	}
	if in.UnitOfMeasure != nil {
		product.UnitOfMeasure = *in.UnitOfMeasure
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(includeInactive bool, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(includeInactive, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete desactiva un producto (soft delete: el historial de movimientos
// referencia productos y debe sobrevivir).
func (uc *ProductUseCase) Delete(id string) error {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		CurrentStock:  p.CurrentStock,
		MinimumStock:  p.MinimumStock,
		MaximumStock:  p.MaximumStock,
		UnitOfMeasure: p.UnitOfMeasure,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
