package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Word represents one suggestion dictionary entry.
type Word struct {
	ID        string
	Word      string
	Position  int
	CreatedAt time.Time
}

// WordRepository provides CRUD operations for the suggestion dictionary.
type WordRepository struct {
	db *sql.DB
}

// Words returns the word repository for this store.
func (s *Store) Words() *WordRepository {
	return &WordRepository{db: s.db}
}

// Create inserts a new word into the dictionary.
func (r *WordRepository) Create(w *Word) error {
	w.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO words (id, word, position, created_at) VALUES (?, ?, ?, ?)`,
		w.ID, w.Word, w.Position, w.CreatedAt,
	)
	return err
}

// List retrieves all words in dictionary order.
func (r *WordRepository) List() ([]*Word, error) {
	rows, err := r.db.Query(
		`SELECT id, word, position, created_at FROM words ORDER BY position, created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var words []*Word
	for rows.Next() {
		w := &Word{}
		if err := rows.Scan(&w.ID, &w.Word, &w.Position, &w.CreatedAt); err != nil {
			return nil, err
		}
		words = append(words, w)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return words, nil
}

// Delete removes a word from the dictionary by its ID.
func (r *WordRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM words WHERE id = ?`, id)
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

// Seed inserts the given words in order, skipping any already present.
// Used to populate a fresh database with the built-in dictionary.
func (r *WordRepository) Seed(words []string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT OR IGNORE INTO words (id, word, position, created_at) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, word := range words {
		if _, err := stmt.Exec(uuid.New().String(), word, i, now); err != nil {
			return err
		}
	}

	return tx.Commit()
}
