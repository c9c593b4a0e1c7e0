//go:build wireinject
// +build wireinject

package replenishment

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/shelfsense/backend/internal/replenishment/delivery/http"
	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/internal/replenishment/repository"
	"github.com/shelfsense/backend/pkg/cache"
)

// ProvideStore provides the replenishment store
func ProvideStore(db *gorm.DB) domain.Store {
	return repository.NewStore(db)
}

// ProvidePolicy provides the replenishment policy, tunable via environment
func ProvidePolicy() domain.Policy {
	return PolicyFromEnv()
}

// Wire sets
var StoreSet = wire.NewSet(
	ProvideStore,
	ProvidePolicy,
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher domain.EventPublisher, c *cache.Cache) (*http.ReplenishmentHandler, error) {
	wire.Build(
		StoreSet,
		http.NewReplenishmentHandler,
	)
	return nil, nil
}
