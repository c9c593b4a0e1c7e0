package repository

import (
	"time"

	"github.com/shelfsense/backend/internal/stock/domain"
	"gorm.io/gorm"
)

type GormShelfStockRepository struct{ db *gorm.DB }

func NewGormShelfStockRepository(db *gorm.DB) *GormShelfStockRepository {
	return &GormShelfStockRepository{db: db}
}

func (r *GormShelfStockRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.ShelfStock{}, &domain.SalesEvent{})
}

func (r *GormShelfStockRepository) Create(stock *domain.ShelfStock) error {
	return r.db.Create(stock).Error
}

func (r *GormShelfStockRepository) FindByID(id uint) (*domain.ShelfStock, error) {
	var stock domain.ShelfStock
	if err := r.db.First(&stock, id).Error; err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *GormShelfStockRepository) FindByPair(productID, shelfID uint) (*domain.ShelfStock, error) {
	var stock domain.ShelfStock
	err := r.db.Where("product_id = ? AND shelf_id = ?", productID, shelfID).First(&stock).Error
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *GormShelfStockRepository) FindAll(limit, offset int) ([]domain.ShelfStock, error) {
	var stocks []domain.ShelfStock
	err := r.db.Limit(limit).Offset(offset).Find(&stocks).Error
	return stocks, err
}

func (r *GormShelfStockRepository) Update(stock *domain.ShelfStock) error {
	return r.db.Save(stock).Error
}

func (r *GormShelfStockRepository) Delete(id uint) error {
	return r.db.Delete(&domain.ShelfStock{}, id).Error
}

type GormSalesEventRepository struct{ db *gorm.DB }

func NewGormSalesEventRepository(db *gorm.DB) *GormSalesEventRepository {
	return &GormSalesEventRepository{db: db}
}

func (r *GormSalesEventRepository) Create(event *domain.SalesEvent) error {
	return r.db.Create(event).Error
}

func (r *GormSalesEventRepository) FindSince(since time.Time, limit, offset int) ([]domain.SalesEvent, error) {
	var events []domain.SalesEvent
	q := r.db.Order("sold_at DESC").Limit(limit).Offset(offset)
	if !since.IsZero() {
		q = q.Where("sold_at >= ?", since)
	}
	err := q.Find(&events).Error
	return events, err
}
