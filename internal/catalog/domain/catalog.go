package domain

import "time"

// Store represents a retail store location
type Store struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Store) TableName() string {
	return "stores"
}

// Category represents a product category. Shelves are bound to a category
// and only accept products from it.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;uniqueIndex"`
}

// TableName specifies the table name
func (Category) TableName() string {
	return "categories"
}

// Product represents a sellable product
type Product struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	CategoryID uint      `json:"category_id" gorm:"not null;index"`
	Price      float64   `json:"price" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Shelf represents a physical shelf in a store
type Shelf struct {
	ID                  uint   `json:"id" gorm:"primaryKey"`
	ShelfCode           string `json:"shelf_code" gorm:"not null;uniqueIndex"`
	StoreID             uint   `json:"store_id" gorm:"not null;index"`
	CategoryID          uint   `json:"category_id" gorm:"not null;index"`
	LocationDescription string `json:"location_description"`
	Capacity            int    `json:"capacity" gorm:"not null"`
}

// TableName specifies the table name
func (Shelf) TableName() string {
	return "shelves"
}

// Staff roles
const (
	RoleStaff     = "staff"
	RoleManager   = "manager"
	RoleWarehouse = "warehouse"
)

// Staff represents a store employee. The password hash never leaves the
// JSON boundary.
type Staff struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	StoreID      uint      `json:"store_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:'staff'"`
	Email        string    `json:"email" gorm:"not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Staff) TableName() string {
	return "staff"
}

// StoreRepository defines data access for stores
type StoreRepository interface {
	Create(store *Store) error
	FindByID(id uint) (*Store, error)
	FindAll(limit, offset int) ([]Store, error)
	Update(store *Store) error
	Delete(id uint) error
}

// CategoryRepository defines data access for categories
type CategoryRepository interface {
	Create(category *Category) error
	FindByID(id uint) (*Category, error)
	FindAll(limit, offset int) ([]Category, error)
	Delete(id uint) error
}

// ProductRepository defines data access for products
type ProductRepository interface {
	Create(product *Product) error
	FindByID(id uint) (*Product, error)
	FindAll(limit, offset int) ([]Product, error)
	Update(product *Product) error
	Delete(id uint) error
}

// ShelfRepository defines data access for shelves
type ShelfRepository interface {
	Create(shelf *Shelf) error
	FindByID(id uint) (*Shelf, error)
	FindAll(limit, offset int) ([]Shelf, error)
	Update(shelf *Shelf) error
	Delete(id uint) error
}

// StaffRepository defines data access for staff
type StaffRepository interface {
	Create(staff *Staff) error
	FindByID(id uint) (*Staff, error)
	FindByEmail(email string) (*Staff, error)
	FindAll(limit, offset int) ([]Staff, error)
	Update(staff *Staff) error
	Delete(id uint) error
}
