package command

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfsense/backend/internal/replenishment/domain"
	"github.com/shelfsense/backend/internal/replenishment/repository"
)

func seedPendingTask(t *testing.T, mem *repository.Memory) *domain.RestockTask {
	t.Helper()
	mem.SeedShelfStock(1, 2, 3, 5, 100)
	task := &domain.RestockTask{
		AlertID: 1, ProductID: 1, ShelfID: 2, AssignedTo: 9,
		Status: domain.TaskStatusPending, AssignedAt: time.Now(),
	}
	require.NoError(t, mem.Tasks().Create(context.Background(), task))
	return task
}

func TestCompleteTask_RestocksShelf(t *testing.T) {
	mem := repository.NewMemory()
	task := seedPendingTask(t, mem)

	handler := NewCompleteTaskHandler(mem)
	completed, err := handler.Handle(context.Background(), CompleteTaskCommand{TaskID: task.ID, QuantityRestocked: 10})
	require.NoError(t, err)

	assert.Equal(t, domain.TaskStatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	assert.Equal(t, 15, mem.Quantity(1, 2))

	report, err := mem.Reports().FindByPairAndDate(context.Background(), 1, 2, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 15, report.QuantityOnShelf)
	assert.Equal(t, 10, report.QuantityRestocked)
}

func TestCompleteTask_AlreadyCompleted(t *testing.T) {
	mem := repository.NewMemory()
	task := seedPendingTask(t, mem)

	handler := NewCompleteTaskHandler(mem)
	_, err := handler.Handle(context.Background(), CompleteTaskCommand{TaskID: task.ID, QuantityRestocked: 10})
	require.NoError(t, err)

	_, err = handler.Handle(context.Background(), CompleteTaskCommand{TaskID: task.ID, QuantityRestocked: 5})
	assert.True(t, domain.IsPrecondition(err))
	assert.Equal(t, 15, mem.Quantity(1, 2), "second completion must not touch the shelf")
}

func TestCompleteTask_Validation(t *testing.T) {
	mem := repository.NewMemory()
	handler := NewCompleteTaskHandler(mem)

	_, err := handler.Handle(context.Background(), CompleteTaskCommand{TaskID: 0, QuantityRestocked: 10})
	assert.True(t, domain.IsValidation(err))

	_, err = handler.Handle(context.Background(), CompleteTaskCommand{TaskID: 1, QuantityRestocked: 0})
	assert.True(t, domain.IsValidation(err))

	_, err = handler.Handle(context.Background(), CompleteTaskCommand{TaskID: 99, QuantityRestocked: 10})
	assert.True(t, domain.IsNotFound(err))
}
