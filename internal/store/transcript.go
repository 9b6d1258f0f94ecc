package store

import (
	"database/sql"
	"errors"
	"time"
)

// Transcript trigger values.
const (
	// TriggerAuto marks a sentence spoken by the idle timeout.
	TriggerAuto = "auto"
	// TriggerManual marks a sentence spoken on user request.
	TriggerManual = "manual"
)

// Transcript represents a sentence that was spoken aloud.
type Transcript struct {
	ID        string
	Sentence  string
	Trigger   string
	CreatedAt time.Time
}

// TranscriptRepository provides CRUD operations for transcripts.
type TranscriptRepository struct {
	db *sql.DB
}

// Transcripts returns the transcript repository for this store.
func (s *Store) Transcripts() *TranscriptRepository {
	return &TranscriptRepository{db: s.db}
}

// Create inserts a new transcript.
func (r *TranscriptRepository) Create(t *Transcript) error {
	t.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO transcripts (id, sentence, trigger, created_at) VALUES (?, ?, ?, ?)`,
		t.ID, t.Sentence, t.Trigger, t.CreatedAt,
	)
	return err
}

// GetByID retrieves a transcript by its ID.
func (r *TranscriptRepository) GetByID(id string) (*Transcript, error) {
	t := &Transcript{}

	err := r.db.QueryRow(
		`SELECT id, sentence, trigger, created_at FROM transcripts WHERE id = ?`,
		id,
	).Scan(&t.ID, &t.Sentence, &t.Trigger, &t.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return t, nil
}

// List retrieves the most recent transcripts, newest first.
// A limit of 0 or less returns everything.
func (r *TranscriptRepository) List(limit int) ([]*Transcript, error) {
	query := `SELECT id, sentence, trigger, created_at FROM transcripts ORDER BY created_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transcripts []*Transcript
	for rows.Next() {
		t := &Transcript{}
		if err := rows.Scan(&t.ID, &t.Sentence, &t.Trigger, &t.CreatedAt); err != nil {
			return nil, err
		}
		transcripts = append(transcripts, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return transcripts, nil
}

// Delete removes a transcript by its ID.
func (r *TranscriptRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM transcripts WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
