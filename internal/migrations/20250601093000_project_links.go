package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250601093000",
		up:      mig_20250601093000_project_links_up,
		down:    mig_20250601093000_project_links_down,
	})
}

func mig_20250601093000_project_links_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE TABLE IF NOT EXISTS project_departments (
            project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            department_id UUID NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
            PRIMARY KEY (project_id, department_id)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE TABLE IF NOT EXISTS project_participations (
            project_id UUID NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
            user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
            role VARCHAR(32) NOT NULL DEFAULT 'PARTICIPANT',
            created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
            PRIMARY KEY (project_id, user_id)
        );
    `)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        CREATE INDEX IF NOT EXISTS idx_participations_user ON project_participations(user_id);
    `)
	return err
}

func mig_20250601093000_project_links_down(tx *sqlx.Tx) error {
	if _, err := tx.Exec(`DROP TABLE IF EXISTS project_participations;`); err != nil {
		return err
	}

	_, err := tx.Exec(`DROP TABLE IF EXISTS project_departments;`)
	return err
}
