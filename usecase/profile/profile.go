package profile

import (
	"context"

	"go.uber.org/zap"

	"github.com/yearpeer/backend/domain"
	"github.com/yearpeer/backend/repository"
	"github.com/yearpeer/backend/usecase"
)

// Update carries the caller-editable profile fields.
type Update struct {
	FirstName  string
	LastName   string
	PictureURL string
}

type UseCase struct {
	users  repository.UserRepository
	buffer usecase.OperationBuffer
	logger *zap.Logger
}

func New(users repository.UserRepository, buffer usecase.OperationBuffer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		buffer: buffer,
		logger: logger,
	}
}

func (uc *UseCase) Get(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

func (uc *UseCase) Update(ctx context.Context, userID string, update Update) (*domain.User, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.FirstName = update.FirstName
	user.LastName = update.LastName
	user.PictureURL = update.PictureURL

	if err := uc.users.Upsert(ctx, user); err != nil {
		if uc.buffer != nil {
			if bufErr := uc.buffer.BufferProfile(ctx, usecase.OperationUpdate, user); bufErr != nil {
				uc.logger.Error("failed to buffer profile update", zap.Error(bufErr))
				return nil, err
			}
			uc.logger.Warn("profile update buffered due to repository error", zap.Error(err))
			return user, nil
		}
		return nil, err
	}
	return user, nil
}
