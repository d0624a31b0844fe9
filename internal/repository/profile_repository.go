package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/contracts-billing/internal/model"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetProfile is an unlocked point lookup, used by the auth middleware and
// the profile read endpoint. Returns (nil, nil) when missing.
func (r *ProfileRepository) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, uuid, first_name, last_name, profession, balance, role, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`, id).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}
