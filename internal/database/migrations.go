package database

// migrations is an ordered list of SQL migration groups. Each entry runs in a
// single transaction; the version number is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: templates and instances. The template document (sections,
	// settings, metadata) is stored as its canonical JSON wire form; scalar
	// columns exist for listing and lookups only.
	{
		`CREATE TABLE templates (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			version INTEGER NOT NULL DEFAULT 1,
			document TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE instances (
			id TEXT PRIMARY KEY,
			template_id TEXT NOT NULL REFERENCES templates(id),
			data TEXT NOT NULL,
			status TEXT NOT NULL,
			progress INTEGER NOT NULL DEFAULT 0,
			current_step INTEGER NOT NULL DEFAULT 0,
			submitted_at TEXT,
			audit_trail TEXT,
			created_at TEXT NOT NULL
		)`,

		`CREATE INDEX idx_instances_template ON instances(template_id)`,
		`CREATE INDEX idx_instances_status ON instances(status)`,
	},
}
