package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/nurpe/contracts-billing/internal/config"
	"github.com/nurpe/contracts-billing/internal/model"
)

type ProfileService struct {
	tx                TxRunner
	profiles          ProfileStore
	depositLimitRatio decimal.Decimal
}

func NewProfileService(tx TxRunner, profiles ProfileStore, cfg *config.Config) *ProfileService {
	return &ProfileService{
		tx:                tx,
		profiles:          profiles,
		depositLimitRatio: cfg.Billing.DepositLimitRatio,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile %d", ErrProfileNotFound, id)
	}
	return profile, nil
}

// DepositBalance credits a profile, bounded by a ceiling derived from the
// profile's outstanding unpaid work as client. The ceiling is computed
// inside the same transaction that holds the profile row lock, so the
// figure is consistent with the balance write it guards.
func (s *ProfileService) DepositBalance(ctx context.Context, profileID int64, amount decimal.Decimal) (*model.Profile, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", ErrInvalidInput)
	}

	var updated *model.Profile

	err := s.tx.RunInTx(ctx, func(tx TxStore) error {
		profile, err := tx.GetProfileForUpdate(ctx, profileID)
		if err != nil {
			return err
		}
		if profile == nil {
			return fmt.Errorf("%w: profile %d", ErrProfileNotFound, profileID)
		}

		outstanding, err := tx.SumOutstandingUnpaid(ctx, profileID)
		if err != nil {
			return err
		}

		maxDeposit := outstanding.Mul(s.depositLimitRatio)
		if amount.GreaterThan(maxDeposit) {
			return &DepositLimitError{Amount: amount, MaxDeposit: maxDeposit}
		}

		profile.Balance = profile.Balance.Add(amount)
		if err := tx.UpdateProfileBalance(ctx, profile); err != nil {
			return err
		}

		updated = profile
		return nil
	})
	if err != nil {
		return nil, wrapTxError("deposit balance", profileID, err)
	}
	return updated, nil
}
