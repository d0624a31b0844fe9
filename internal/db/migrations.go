package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'profile_role') THEN
			CREATE TYPE profile_role AS ENUM ('client', 'contractor');
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'contract_status') THEN
			CREATE TYPE contract_status AS ENUM ('new', 'in_progress', 'terminated');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL DEFAULT uuid_generate_v4(),
		first_name VARCHAR(128) NOT NULL,
		last_name VARCHAR(128) NOT NULL,
		profession VARCHAR(128) NOT NULL,
		balance NUMERIC(18,2) NOT NULL DEFAULT 0 CHECK (balance >= 0),
		role profile_role NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_profiles_uuid ON profiles (uuid);`,
	`CREATE TABLE IF NOT EXISTS contracts (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL DEFAULT uuid_generate_v4(),
		terms TEXT NOT NULL,
		status contract_status NOT NULL DEFAULT 'new',
		client_id BIGINT REFERENCES profiles(id) ON DELETE SET NULL,
		contractor_id BIGINT REFERENCES profiles(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_contracts_uuid ON contracts (uuid);`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_client_id ON contracts (client_id) WHERE client_id IS NOT NULL;`,
	`CREATE INDEX IF NOT EXISTS idx_contracts_contractor_id ON contracts (contractor_id) WHERE contractor_id IS NOT NULL;`,
	`CREATE TABLE IF NOT EXISTS jobs (
		id BIGSERIAL PRIMARY KEY,
		uuid UUID NOT NULL DEFAULT uuid_generate_v4(),
		description TEXT NOT NULL,
		price NUMERIC(18,2) NOT NULL CHECK (price > 0),
		is_paid BOOLEAN NOT NULL DEFAULT FALSE,
		paid_date TIMESTAMPTZ,
		contract_id BIGINT NOT NULL REFERENCES contracts(id) ON DELETE CASCADE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_jobs_uuid ON jobs (uuid);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_contract_id ON jobs (contract_id);`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_unpaid ON jobs (contract_id) WHERE is_paid = FALSE;`,
	`CREATE INDEX IF NOT EXISTS idx_jobs_paid_date ON jobs (paid_date) WHERE paid_date IS NOT NULL;`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
