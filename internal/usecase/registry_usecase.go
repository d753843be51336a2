package usecase

import (
	"context"
	"fmt"

	"github.com/propfolio/ledger/internal/domain"
)

// RegistryUseCase resolves logical account roles to concrete ledger
// accounts. Accounts themselves are created and edited elsewhere; this
// subsystem only reads them.
type RegistryUseCase struct {
	accountRepo AccountRepository
}

// NewRegistryUseCase creates a new RegistryUseCase.
func NewRegistryUseCase(accountRepo AccountRepository) *RegistryUseCase {
	return &RegistryUseCase{accountRepo: accountRepo}
}

// ResolveAccount looks up the unique account for a role within a building.
// For the bank role, bankAccountID scopes the lookup to one bank account.
// Zero matches or more than one match are both caller-fatal: posting must
// not proceed on a missing or ambiguous account.
func (uc *RegistryUseCase) ResolveAccount(ctx context.Context, buildingID string, role domain.AccountRole, bankAccountID string) (*domain.Account, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrAccountNotFound, role)
	}

	accounts, err := uc.accountRepo.FindByRole(ctx, buildingID, role, bankAccountID)
	if err != nil {
		return nil, err
	}

	switch len(accounts) {
	case 0:
		return nil, fmt.Errorf("%w: role=%s building=%s", domain.ErrAccountNotFound, role, buildingID)
	case 1:
		return accounts[0], nil
	default:
		return nil, fmt.Errorf("%w: role=%s building=%s matches=%d",
			domain.ErrAccountAmbiguous, role, buildingID, len(accounts))
	}
}
