package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Words table - the suggestion dictionary. position preserves
		// dictionary order for suggestion ranking.
		`CREATE TABLE IF NOT EXISTS words (
			id TEXT PRIMARY KEY,
			word TEXT NOT NULL UNIQUE,
			position INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Transcripts table - sentences that have been spoken aloud
		`CREATE TABLE IF NOT EXISTS transcripts (
			id TEXT PRIMARY KEY,
			sentence TEXT NOT NULL,
			trigger TEXT NOT NULL CHECK(trigger IN ('auto', 'manual')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Sessions table - recognition session bookkeeping
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			letters INTEGER NOT NULL DEFAULT 0
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_words_position ON words(position)`,
		`CREATE INDEX IF NOT EXISTS idx_transcripts_created_at ON transcripts(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
