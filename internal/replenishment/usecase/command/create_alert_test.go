package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/internal/replenishment/repository"
)

func TestCreateAlert_Manual(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 40, 100)

	handler := NewCreateAlertHandler(mem, domain.NopPublisher{})
	alert, err := handler.Handle(context.Background(), CreateAlertCommand{ProductID: 1, ShelfID: 2, Urgency: domain.UrgencyHigh})
	require.NoError(t, err)

	assert.Equal(t, domain.AlertStatusOpen, alert.Status)
	assert.Equal(t, domain.UrgencyHigh, alert.Urgency)

	report, err := mem.Reports().FindByPairAndDate(context.Background(), 1, 2, alert.CreatedAt)
	require.NoError(t, err)
	assert.True(t, report.AlertTriggered)
	assert.Equal(t, 40, report.QuantityOnShelf)
}

func TestCreateAlert_DefaultsToMediumUrgency(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 40, 100)

	handler := NewCreateAlertHandler(mem, domain.NopPublisher{})
	alert, err := handler.Handle(context.Background(), CreateAlertCommand{ProductID: 1, ShelfID: 2})
	require.NoError(t, err)
	assert.Equal(t, domain.UrgencyMedium, alert.Urgency)
}

func TestCreateAlert_Rejections(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 40, 100)
	handler := NewCreateAlertHandler(mem, domain.NopPublisher{})

	_, err := handler.Handle(context.Background(), CreateAlertCommand{ShelfID: 2})
	assert.True(t, domain.IsValidation(err))

	_, err = handler.Handle(context.Background(), CreateAlertCommand{ProductID: 1, ShelfID: 2, Urgency: "panic"})
	assert.True(t, domain.IsValidation(err))

	// Unknown pair
	_, err = handler.Handle(context.Background(), CreateAlertCommand{ProductID: 7, ShelfID: 8})
	assert.True(t, domain.IsNotFound(err))

	// One open alert per pair
	_, err = handler.Handle(context.Background(), CreateAlertCommand{ProductID: 1, ShelfID: 2})
	require.NoError(t, err)
	_, err = handler.Handle(context.Background(), CreateAlertCommand{ProductID: 1, ShelfID: 2})
	assert.True(t, domain.IsConflict(err))
}

func TestDeleteAlert_RequiresConfirmation(t *testing.T) {
	mem := repository.NewMemory()
	mem.SeedShelfStock(1, 2, 3, 40, 100)
	create := NewCreateAlertHandler(mem, domain.NopPublisher{})
	alert, err := create.Handle(context.Background(), CreateAlertCommand{ProductID: 1, ShelfID: 2})
	require.NoError(t, err)

	handler := NewDeleteAlertHandler(mem)
	err = handler.Handle(context.Background(), DeleteAlertCommand{AlertID: alert.ID})
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, handler.Handle(context.Background(), DeleteAlertCommand{AlertID: alert.ID, Confirmed: true}))
	_, err = mem.Alerts().FindByID(context.Background(), alert.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteAlert_RefusesReferencedAlert(t *testing.T) {
	mem := repository.NewMemory()
	seedLowStockPair(mem)

	trigger := NewTriggerReplenishmentHandler(mem, domain.NopPublisher{}, domain.DefaultPolicy())
	_, err := trigger.Handle(context.Background())
	require.NoError(t, err)

	alerts, err := mem.Alerts().FindAll(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	handler := NewDeleteAlertHandler(mem)
	err = handler.Handle(context.Background(), DeleteAlertCommand{AlertID: alerts[0].ID, Confirmed: true})
	assert.True(t, domain.IsConflict(err), "an alert with restock tasks cannot be deleted")
}
