package domain

import "time"

// ShelfStock places a quantity of one product on one shelf. A product can
// sit on many shelves, but each (product, shelf) pair appears once.
type ShelfStock struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	ProductID       uint       `json:"product_id" gorm:"not null;uniqueIndex:ux_shelf_stock_pair"`
	ShelfID         uint       `json:"shelf_id" gorm:"not null;uniqueIndex:ux_shelf_stock_pair"`
	Quantity        int        `json:"quantity" gorm:"not null;default:0"`
	LastRestockedAt *time.Time `json:"last_restocked_at,omitempty"`
}

// TableName specifies the table name
func (ShelfStock) TableName() string {
	return "shelf_stocks"
}

// SalesEvent is one recorded sale. The table is append-only; velocity
// estimation reads it aggregated by calendar day.
type SalesEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;index:idx_sales_product_day"`
	StoreID   uint      `json:"store_id" gorm:"not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	SoldAt    time.Time `json:"sold_at" gorm:"not null;index:idx_sales_product_day"`
}

// TableName specifies the table name
func (SalesEvent) TableName() string {
	return "sales_events"
}

// ShelfStockRepository defines data access for shelf stock rows
type ShelfStockRepository interface {
	Create(stock *ShelfStock) error
	FindByID(id uint) (*ShelfStock, error)
	FindByPair(productID, shelfID uint) (*ShelfStock, error)
	FindAll(limit, offset int) ([]ShelfStock, error)
	Update(stock *ShelfStock) error
	Delete(id uint) error
}

// SalesEventRepository defines data access for sales events
type SalesEventRepository interface {
	Create(event *SalesEvent) error
	FindSince(since time.Time, limit, offset int) ([]SalesEvent, error)
}
