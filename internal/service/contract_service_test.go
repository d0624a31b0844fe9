package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nurpe/contracts-billing/internal/model"
)

type fakeContractStore struct {
	byProfile map[int64]*model.Contract
	active    []model.Contract
}

func (f *fakeContractStore) GetContractForProfile(ctx context.Context, id, profileID int64) (*model.Contract, error) {
	return f.byProfile[profileID], nil
}

func (f *fakeContractStore) ListActiveContracts(ctx context.Context, profileID int64) ([]model.Contract, error) {
	return f.active, nil
}

func TestGetContract(t *testing.T) {
	contract := &model.Contract{ID: 10, Status: model.ContractStatusInProgress}
	svc := NewContractService(&fakeContractStore{
		byProfile: map[int64]*model.Contract{1: contract},
	})

	got, err := svc.GetContract(context.Background(), 10, 1)
	if err != nil {
		t.Fatalf("GetContract: %v", err)
	}
	if got.ID != 10 {
		t.Fatalf("contract.ID = %d, want 10", got.ID)
	}

	// A contract that exists but belongs to another profile reads as denied.
	if _, err := svc.GetContract(context.Background(), 10, 9); !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}
