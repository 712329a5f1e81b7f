package usecase

import (
	"context"

	"github.com/yearpeer/backend/domain"
)

// Buffered operation names shared with the buffer processor.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// OperationBuffer abstracts the write-behind buffer so use cases stay
// storage-agnostic. Operations land here only when primary storage fails.
type OperationBuffer interface {
	BufferGoal(ctx context.Context, operation string, goal *domain.Goal) error
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferProfile(ctx context.Context, operation string, user *domain.User) error
}
