package migrations

import "github.com/jmoiron/sqlx"

func init() {
	m.addMigration(&migration{
		version: "20250601098000",
		up:      mig_20250601098000_change_notify_up,
		down:    mig_20250601098000_change_notify_down,
	})
}

// Statement-level triggers fan writes out on the data_changes channel so
// the server can invalidate cached dashboard snapshots without polling the
// tables itself.
func mig_20250601098000_change_notify_up(tx *sqlx.Tx) error {
	_, err := tx.Exec(`
        CREATE OR REPLACE FUNCTION notify_data_change() RETURNS trigger AS $$
        BEGIN
            PERFORM pg_notify('data_changes', TG_TABLE_NAME || ':' || TG_OP);
            RETURN NULL;
        END;
        $$ LANGUAGE plpgsql;
    `)
	if err != nil {
		return err
	}

	for _, stmt := range []string{
		`CREATE TRIGGER tasks_notify_change
            AFTER INSERT OR UPDATE OR DELETE ON tasks
            FOR EACH STATEMENT EXECUTE FUNCTION notify_data_change();`,
		`CREATE TRIGGER projects_notify_change
            AFTER INSERT OR UPDATE OR DELETE ON projects
            FOR EACH STATEMENT EXECUTE FUNCTION notify_data_change();`,
		`CREATE TRIGGER users_notify_change
            AFTER INSERT OR UPDATE OR DELETE ON users
            FOR EACH STATEMENT EXECUTE FUNCTION notify_data_change();`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func mig_20250601098000_change_notify_down(tx *sqlx.Tx) error {
	for _, stmt := range []string{
		`DROP TRIGGER IF EXISTS tasks_notify_change ON tasks;`,
		`DROP TRIGGER IF EXISTS projects_notify_change ON projects;`,
		`DROP TRIGGER IF EXISTS users_notify_change ON users;`,
		`DROP FUNCTION IF EXISTS notify_data_change();`,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
