package memory

import (
	"context"
	"testing"
	"time"

	"kitab-ai-api/internal/domain/entity"
	apperrors "kitab-ai-api/pkg/errors"
)

func TestManuscriptRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewManuscriptRepository(time.Hour, time.Minute)

	m := entity.NewManuscript(time.Now())
	if err := repo.Create(ctx, m); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, m); !apperrors.IsCode(err, apperrors.CodeConflict) {
		t.Fatalf("duplicate create: %v", err)
	}

	got, err := repo.GetByID(ctx, m.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got.Status = entity.ManuscriptStatusReady
	again, _ := repo.GetByID(ctx, m.ID)
	if again.Status != entity.ManuscriptStatusIdle {
		t.Fatalf("caller mutation leaked into store")
	}

	got.Book = &entity.Book{Title: "T"}
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	stored, _ := repo.GetByID(ctx, m.ID)
	if stored.Book == nil || stored.Book.Title != "T" {
		t.Fatalf("update not stored: %+v", stored)
	}
	if repo.Count(ctx) != 1 {
		t.Fatalf("Count = %d", repo.Count(ctx))
	}

	if err := repo.Delete(ctx, m.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, m.ID); !apperrors.IsCode(err, apperrors.CodeSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Update(ctx, m); !apperrors.IsCode(err, apperrors.CodeSessionNotFound) {
		t.Fatalf("update of missing session: %v", err)
	}
}

func TestManuscriptRepositoryExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewManuscriptRepository(20*time.Millisecond, time.Hour)
	m := entity.NewManuscript(time.Now())
	if err := repo.Create(ctx, m); err != nil {
		t.Fatal(err)
	}
	time.Sleep(40 * time.Millisecond)
	if _, err := repo.GetByID(ctx, m.ID); !apperrors.IsCode(err, apperrors.CodeSessionNotFound) {
		t.Fatalf("expected expiry, got %v", err)
	}
}
