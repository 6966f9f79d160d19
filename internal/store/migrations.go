package store

// migration represents a single schema migration.
type migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered list of all schema migrations.
var migrations = []migration{
	{
		Version: 1,
		Name:    "create exchanges",
		SQL: `
			CREATE TABLE exchanges (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				session_id  TEXT NOT NULL,
				created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%d %H:%M:%f', 'now')),
				query       TEXT NOT NULL,
				response    TEXT NOT NULL
			);

			CREATE INDEX idx_exchanges_session ON exchanges (session_id, created_at);
			CREATE INDEX idx_exchanges_created ON exchanges (created_at);
		`,
	},
}
