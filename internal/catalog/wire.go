//go:build wireinject
// +build wireinject

package catalog

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/shelfsense/backend/internal/catalog/delivery/http"
	"github.com/shelfsense/backend/internal/catalog/domain"
	"github.com/shelfsense/backend/internal/catalog/repository"
)

// ProvideStoreRepository provides the store repository
func ProvideStoreRepository(db *gorm.DB) domain.StoreRepository {
	return repository.NewGormStoreRepository(db)
}

// ProvideCategoryRepository provides the category repository
func ProvideCategoryRepository(db *gorm.DB) domain.CategoryRepository {
	return repository.NewGormCategoryRepository(db)
}

// ProvideProductRepository provides the product repository
func ProvideProductRepository(db *gorm.DB) domain.ProductRepository {
	return repository.NewGormProductRepository(db)
}

// ProvideShelfRepository provides the shelf repository
func ProvideShelfRepository(db *gorm.DB) domain.ShelfRepository {
	return repository.NewGormShelfRepository(db)
}

// ProvideStaffRepository provides the staff repository
func ProvideStaffRepository(db *gorm.DB) domain.StaffRepository {
	return repository.NewGormStaffRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideStoreRepository,
	ProvideCategoryRepository,
	ProvideProductRepository,
	ProvideShelfRepository,
	ProvideStaffRepository,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.CatalogHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewCatalogHandler,
	)
	return nil, nil
}
