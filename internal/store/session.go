package store

import (
	"database/sql"
	"errors"
	"time"
)

// Session represents one recognition session (camera enabled to disabled).
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Letters   int
}

// SessionRepository provides operations for recognition sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start inserts a new open session.
func (r *SessionRepository) Start(sess *Session) error {
	if sess.StartedAt.IsZero() {
		sess.StartedAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, letters) VALUES (?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.Letters,
	)
	return err
}

// End closes an open session.
func (r *SessionRepository) End(id string) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`,
		time.Now(), id,
	)
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

// AddLetters bumps the letter counter for a session.
func (r *SessionRepository) AddLetters(id string, n int) error {
	_, err := r.db.Exec(
		`UPDATE sessions SET letters = letters + ? WHERE id = ?`,
		n, id,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, letters FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Letters)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}
	return sess, nil
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, letters FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var endedAt sql.NullTime

		if err := rows.Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Letters); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			sess.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}
