package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/propfolio/ledger/internal/domain"
	"github.com/propfolio/ledger/internal/usecase"
	"github.com/propfolio/ledger/internal/usecase/mocks"
)

func TestRegistryUseCase_ResolveAccount(t *testing.T) {
	tests := []struct {
		name          string
		buildingID    string
		role          domain.AccountRole
		bankAccountID string
		setup         func(*mocks.MockAccountRepository)
		wantID        string
		wantErr       error
	}{
		{
			name:       "resolves unique AR account",
			buildingID: "bld-1",
			role:       domain.RoleAR,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.Add(&domain.Account{ID: "acc-ar", BuildingID: "bld-1", Role: domain.RoleAR, Active: true})
			},
			wantID: "acc-ar",
		},
		{
			name:          "bank role scoped to one bank account",
			buildingID:    "bld-1",
			role:          domain.RoleBank,
			bankAccountID: "ba-2",
			setup: func(repo *mocks.MockAccountRepository) {
				repo.Add(&domain.Account{ID: "acc-bank-1", BuildingID: "bld-1", BankAccountID: "ba-1", Role: domain.RoleBank, Active: true})
				repo.Add(&domain.Account{ID: "acc-bank-2", BuildingID: "bld-1", BankAccountID: "ba-2", Role: domain.RoleBank, Active: true})
			},
			wantID: "acc-bank-2",
		},
		{
			name:       "no match",
			buildingID: "bld-1",
			role:       domain.RoleAP,
			setup:      func(repo *mocks.MockAccountRepository) {},
			wantErr:    domain.ErrAccountNotFound,
		},
		{
			name:       "inactive accounts are ignored",
			buildingID: "bld-1",
			role:       domain.RoleAR,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.Add(&domain.Account{ID: "acc-old", BuildingID: "bld-1", Role: domain.RoleAR, Active: false})
			},
			wantErr: domain.ErrAccountNotFound,
		},
		{
			name:       "ambiguous match",
			buildingID: "bld-1",
			role:       domain.RoleAR,
			setup: func(repo *mocks.MockAccountRepository) {
				repo.Add(&domain.Account{ID: "acc-ar-1", BuildingID: "bld-1", Role: domain.RoleAR, Active: true})
				repo.Add(&domain.Account{ID: "acc-ar-2", BuildingID: "bld-1", Role: domain.RoleAR, Active: true})
			},
			wantErr: domain.ErrAccountAmbiguous,
		},
		{
			name:       "unknown role",
			buildingID: "bld-1",
			role:       domain.AccountRole("escrow"),
			setup:      func(repo *mocks.MockAccountRepository) {},
			wantErr:    domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			tt.setup(repo)

			uc := usecase.NewRegistryUseCase(repo)
			account, err := uc.ResolveAccount(context.Background(), tt.buildingID, tt.role, tt.bankAccountID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.ID != tt.wantID {
				t.Errorf("expected account %s, got %s", tt.wantID, account.ID)
			}
		})
	}
}
