package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestWordRepository_CreateAndList(t *testing.T) {
	s := newTestStore(t)

	words := []string{"good", "great", "go"}
	for i, word := range words {
		err := s.Words().Create(&Word{
			ID:       uuid.New().String(),
			Word:     word,
			Position: i,
		})
		if err != nil {
			t.Fatalf("Create(%q) error = %v", word, err)
		}
	}

	got, err := s.Words().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != len(words) {
		t.Fatalf("List() returned %d words, want %d", len(got), len(words))
	}

	// Dictionary order is preserved via position.
	for i, w := range got {
		if w.Word != words[i] {
			t.Errorf("List()[%d] = %q, want %q", i, w.Word, words[i])
		}
	}
}

func TestWordRepository_DuplicateWordRejected(t *testing.T) {
	s := newTestStore(t)

	w := &Word{ID: uuid.New().String(), Word: "hello"}
	if err := s.Words().Create(w); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	dup := &Word{ID: uuid.New().String(), Word: "hello"}
	if err := s.Words().Create(dup); err == nil {
		t.Error("duplicate word should be rejected by the unique constraint")
	}
}

func TestWordRepository_Delete(t *testing.T) {
	s := newTestStore(t)

	w := &Word{ID: uuid.New().String(), Word: "hello"}
	if err := s.Words().Create(w); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := s.Words().Delete(w.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	got, err := s.Words().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("List() returned %d words after delete, want 0", len(got))
	}
}

func TestWordRepository_DeleteMissing(t *testing.T) {
	s := newTestStore(t)

	if err := s.Words().Delete("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrNotFound", err)
	}
}

func TestWordRepository_Seed(t *testing.T) {
	s := newTestStore(t)

	words := []string{"alpha", "beta", "gamma"}
	if err := s.Words().Seed(words); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	// Seeding again must be a no-op, not a constraint failure.
	if err := s.Words().Seed(words); err != nil {
		t.Fatalf("repeated Seed() error = %v", err)
	}

	got, err := s.Words().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != len(words) {
		t.Errorf("List() returned %d words after double seed, want %d", len(got), len(words))
	}
}
