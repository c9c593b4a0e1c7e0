//go:build wireinject
// +build wireinject

package stock

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/shelfsense/backend/internal/catalog"
	"github.com/shelfsense/backend/internal/stock/delivery/http"
	"github.com/shelfsense/backend/internal/stock/domain"
	"github.com/shelfsense/backend/internal/stock/repository"
)

// ProvideShelfStockRepository provides the shelf stock repository
func ProvideShelfStockRepository(db *gorm.DB) domain.ShelfStockRepository {
	return repository.NewGormShelfStockRepository(db)
}

// ProvideSalesEventRepository provides the sales event repository
func ProvideSalesEventRepository(db *gorm.DB) domain.SalesEventRepository {
	return repository.NewGormSalesEventRepository(db)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideShelfStockRepository,
	ProvideSalesEventRepository,
	catalog.ProvideProductRepository,
	catalog.ProvideShelfRepository,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB) (*http.StockHandler, error) {
	wire.Build(
		RepositorySet,
		http.NewStockHandler,
	)
	return nil, nil
}
