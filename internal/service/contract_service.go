package service

import (
	"context"
	"fmt"

	"github.com/nurpe/contracts-billing/internal/model"
)

type ContractService struct {
	contracts ContractStore
}

func NewContractService(contracts ContractStore) *ContractService {
	return &ContractService{contracts: contracts}
}

// GetContract returns the contract only when the requesting profile is a
// party to it. A contract that exists but belongs to someone else reads as
// permission denied, not as missing.
func (s *ContractService) GetContract(ctx context.Context, id, profileID int64) (*model.Contract, error) {
	contract, err := s.contracts.GetContractForProfile(ctx, id, profileID)
	if err != nil {
		return nil, err
	}
	if contract == nil {
		return nil, fmt.Errorf("%w: contract %d", ErrPermissionDenied, id)
	}
	return contract, nil
}

func (s *ContractService) ListActiveContracts(ctx context.Context, profileID int64) ([]model.Contract, error) {
	return s.contracts.ListActiveContracts(ctx, profileID)
}
