package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-peinture-api/internal/domain/inventory"
)

// CreateProductRequest entrada para crear un producto. SKU vacío se genera a partir del nombre.
// Price 0 se guarda como null (comportamiento heredado, ver ProductUseCase.Create).
type CreateProductRequest struct {
	Name         string           `json:"name" validate:"required,min=1,max=200"`
	SKU          string           `json:"sku" validate:"omitempty,max=64"`
	CategoryID   string           `json:"category_id" validate:"omitempty,uuid"`
	Description  string           `json:"description" validate:"max=2000"`
	ImageURL     string           `json:"image_url" validate:"omitempty,url"`
	StockCurrent int              `json:"stock_current" validate:"min=0"`
	StockMin     int              `json:"stock_min" validate:"min=0"`
	StockMax     int              `json:"stock_max" validate:"min=0"`
	Price        *decimal.Decimal `json:"price"`
}

// UpdateProductRequest campos nil no se modifican. El stock solo cambia vía movimientos.
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	SKU         *string          `json:"sku" validate:"omitempty,min=1,max=64"`
	CategoryID  *string          `json:"category_id"`
	Description *string          `json:"description" validate:"omitempty,max=2000"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	StockMin    *int             `json:"stock_min" validate:"omitempty,min=0"`
	StockMax    *int             `json:"stock_max" validate:"omitempty,min=0"`
	Price       *decimal.Decimal `json:"price"`
}

// ProductListRequest filtros de listado (query string).
type ProductListRequest struct {
	Search          string `query:"search"`
	CategoryID      string `query:"category_id" validate:"omitempty,uuid"`
	IncludeArchived bool   `query:"include_archived"`
	PageRequest
}

// ProductResponse salida de un producto con su indicador de salud de stock.
type ProductResponse struct {
	ID           string           `json:"id"`
	CategoryID   string           `json:"category_id,omitempty"`
	Name         string           `json:"name"`
	SKU          string           `json:"sku"`
	Description  string           `json:"description"`
	ImageURL     string           `json:"image_url"`
	StockCurrent int              `json:"stock_current"`
	StockMin     int              `json:"stock_min"`
	StockMax     int              `json:"stock_max"`
	StockScore   int              `json:"stock_score"`
	StockBand    string           `json:"stock_band"`
	Price        *decimal.Decimal `json:"price"`
	ArchivedAt   *time.Time       `json:"archived_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductStatsResponse agregados del catálogo.
type ProductStatsResponse = inventory.ProductStats
