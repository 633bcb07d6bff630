package migrations

import (
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	m.addMigration(&migration{
		version: "20250601091000",
		up:      mig_20250601091000_users_up,
		down:    mig_20250601091000_users_down,
	})
}

func mig_20250601091000_users_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS users (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            name VARCHAR(255) NOT NULL,
            email VARCHAR(255) NOT NULL,
            password_hash VARCHAR(255) NOT NULL,
            role VARCHAR(32) NOT NULL CHECK (role IN ('ADMIN', 'MANAGER', 'DEPARTMENT', 'FIELD')),
            capacity DOUBLE PRECISION NOT NULL DEFAULT 8,
            department_id UUID REFERENCES departments(id) ON DELETE SET NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            UNIQUE(email)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_users_department ON users(department_id);
    `)
	if err != nil {
		return err
	}

	// Bootstrap admin so a fresh install can log in and create real accounts.
	hash, err := bcrypt.GenerateFromPassword([]byte("changeme"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        INSERT INTO users (name, email, password_hash, role, capacity)
        VALUES ('Administrator', 'admin@temsafy.local', $1, 'ADMIN', 40)
        ON CONFLICT (email) DO NOTHING;
    `, string(hash))
	return err
}

func mig_20250601091000_users_down(tx *sqlx.Tx) error {
	_, err := tx.Exec(`DROP TABLE IF EXISTS users;`)
	return err
}
