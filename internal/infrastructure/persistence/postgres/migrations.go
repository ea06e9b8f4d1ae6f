package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE DOCUMENTS
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
CREATE TABLE IF NOT EXISTS documents (
    storage_key VARCHAR(100) PRIMARY KEY,
    body JSONB NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: UPDATED_AT TRIGGER
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE OR REPLACE FUNCTION documents_touch_updated_at()
RETURNS TRIGGER AS $$
BEGIN
    NEW.updated_at = NOW();
    RETURN NEW;
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS documents_updated_at ON documents;
CREATE TRIGGER documents_updated_at
    BEFORE UPDATE ON documents
    FOR EACH ROW EXECUTE FUNCTION documents_touch_updated_at();
`

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_documents",
			UpSQL:   migration001Up,
		},
		{
			Version: 2,
			Name:    "documents_updated_at_trigger",
			UpSQL:   migration002Up,
		},
	}
}
