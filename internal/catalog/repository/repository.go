package repository

import (
	"github.com/shelfsense/backend/internal/catalog/domain"
	"gorm.io/gorm"
)

// GormCatalogRepository implements every catalog repository contract over
// one database handle
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&domain.Store{},
		&domain.Category{},
		&domain.Product{},
		&domain.Shelf{},
		&domain.Staff{},
	)
}

// Stores

type GormStoreRepository struct{ db *gorm.DB }

func NewGormStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

func (r *GormStoreRepository) Create(store *domain.Store) error {
	return r.db.Create(store).Error
}

func (r *GormStoreRepository) FindByID(id uint) (*domain.Store, error) {
	var store domain.Store
	if err := r.db.First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

func (r *GormStoreRepository) FindAll(limit, offset int) ([]domain.Store, error) {
	var stores []domain.Store
	err := r.db.Limit(limit).Offset(offset).Find(&stores).Error
	return stores, err
}

func (r *GormStoreRepository) Update(store *domain.Store) error {
	return r.db.Save(store).Error
}

func (r *GormStoreRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Store{}, id).Error
}

// Categories

type GormCategoryRepository struct{ db *gorm.DB }

func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

func (r *GormCategoryRepository) Create(category *domain.Category) error {
	return r.db.Create(category).Error
}

func (r *GormCategoryRepository) FindByID(id uint) (*domain.Category, error) {
	var category domain.Category
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *GormCategoryRepository) FindAll(limit, offset int) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.Limit(limit).Offset(offset).Find(&categories).Error
	return categories, err
}

func (r *GormCategoryRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Category{}, id).Error
}

// Products

type GormProductRepository struct{ db *gorm.DB }

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(product *domain.Product) error {
	return r.db.Create(product).Error
}

func (r *GormProductRepository) FindByID(id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.Limit(limit).Offset(offset).Find(&products).Error
	return products, err
}

func (r *GormProductRepository) Update(product *domain.Product) error {
	return r.db.Save(product).Error
}

func (r *GormProductRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Product{}, id).Error
}

// Shelves

type GormShelfRepository struct{ db *gorm.DB }

func NewGormShelfRepository(db *gorm.DB) *GormShelfRepository {
	return &GormShelfRepository{db: db}
}

func (r *GormShelfRepository) Create(shelf *domain.Shelf) error {
	return r.db.Create(shelf).Error
}

func (r *GormShelfRepository) FindByID(id uint) (*domain.Shelf, error) {
	var shelf domain.Shelf
	if err := r.db.First(&shelf, id).Error; err != nil {
		return nil, err
	}
	return &shelf, nil
}

func (r *GormShelfRepository) FindAll(limit, offset int) ([]domain.Shelf, error) {
	var shelves []domain.Shelf
	err := r.db.Limit(limit).Offset(offset).Find(&shelves).Error
	return shelves, err
}

func (r *GormShelfRepository) Update(shelf *domain.Shelf) error {
	return r.db.Save(shelf).Error
}

func (r *GormShelfRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Shelf{}, id).Error
}

// Staff

type GormStaffRepository struct{ db *gorm.DB }

func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

func (r *GormStaffRepository) Create(staff *domain.Staff) error {
	return r.db.Create(staff).Error
}

func (r *GormStaffRepository) FindByID(id uint) (*domain.Staff, error) {
	var staff domain.Staff
	if err := r.db.First(&staff, id).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *GormStaffRepository) FindByEmail(email string) (*domain.Staff, error) {
	var staff domain.Staff
	if err := r.db.Where("email = ?", email).First(&staff).Error; err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *GormStaffRepository) FindAll(limit, offset int) ([]domain.Staff, error) {
	var staff []domain.Staff
	err := r.db.Limit(limit).Offset(offset).Find(&staff).Error
	return staff, err
}

func (r *GormStaffRepository) Update(staff *domain.Staff) error {
	return r.db.Save(staff).Error
}

func (r *GormStaffRepository) Delete(id uint) error {
	return r.db.Delete(&domain.Staff{}, id).Error
}
