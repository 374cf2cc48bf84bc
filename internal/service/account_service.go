package service

import (
	"context"

	"devlink/internal/observability"
	"devlink/internal/repository"
)

// AccountService owns account lifecycle operations that span aggregates.
type AccountService struct {
	userRepo repository.UserRepository
}

func NewAccountService(userRepo repository.UserRepository) *AccountService {
	return &AccountService{userRepo: userRepo}
}

// DeleteAccount removes the user and everything they own: posts first, then
// the profile, then the user row, all in one transaction.
func (s *AccountService) DeleteAccount(ctx context.Context, userID uint) error {
	ctx, span := observability.TraceServiceMethod(ctx, "AccountService", "DeleteAccount")
	defer span.End()

	return s.userRepo.DeleteCascade(ctx, userID)
}
