package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
)

func newTestImageRepo(t *testing.T) (*imageRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &imageRepository{
		DB:     &DB{DB: db, logger: l},
		logger: l,
	}
	return repo, mock, db
}

func TestGetEntryImageURLs_Success(t *testing.T) {
	repo, mock, db := newTestImageRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows([]string{"url"}).
		AddRow("https://cdn.example.com/a.png").
		AddRow("https://cdn.example.com/b.png")

	mock.ExpectQuery("SELECT url").
		WithArgs("e-1").
		WillReturnRows(rows)

	urls, err := repo.GetEntryImageURLs(context.Background(), "e-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d", len(urls))
	}
}

func TestGetEntryImageURLs_QueryError(t *testing.T) {
	repo, mock, db := newTestImageRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT url").
		WillReturnError(errors.New("db network error"))

	_, err := repo.GetEntryImageURLs(context.Background(), "e-1")
	if !errors.Is(err, ErrExecutingQuery) {
		t.Fatalf("expected ErrExecutingQuery, got %v", err)
	}
}

func TestImageURLsByEntryIDs_GroupsByEntry(t *testing.T) {
	repo, mock, db := newTestImageRepo(t)
	defer db.Close()

	rows := sqlmock.
		NewRows([]string{"entry_id", "url"}).
		AddRow("e-1", "https://cdn.example.com/a.png").
		AddRow("e-2", "https://cdn.example.com/b.png").
		AddRow("e-2", "https://cdn.example.com/c.png")

	mock.ExpectQuery("SELECT entry_id, url FROM entry_images").
		WithArgs("e-1", "e-2").
		WillReturnRows(rows)

	urls, err := repo.ImageURLsByEntryIDs(context.Background(), []string{"e-1", "e-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls["e-1"]) != 1 || len(urls["e-2"]) != 2 {
		t.Fatalf("unexpected grouping: %v", urls)
	}
}

func TestInsertEntryImages_Single(t *testing.T) {
	repo, mock, db := newTestImageRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO entry_images").
		WithArgs("e-1", "https://cdn.example.com/a.png", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.InsertEntryImages(context.Background(), "u-1", "e-1", []string{"https://cdn.example.com/a.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInsertEntryImages_MultipleUsesTransaction(t *testing.T) {
	repo, mock, db := newTestImageRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare("INSERT INTO entry_images")
	prep.ExpectExec().
		WithArgs("e-1", "https://cdn.example.com/a.png", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("e-1", "https://cdn.example.com/b.png", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.InsertEntryImages(context.Background(), "u-1", "e-1", []string{
		"https://cdn.example.com/a.png",
		"https://cdn.example.com/b.png",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestDeleteEntryImages_Success(t *testing.T) {
	repo, mock, db := newTestImageRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM entry_images").
		WithArgs("e-1", "https://cdn.example.com/a.png").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.DeleteEntryImages(context.Background(), "e-1", []string{"https://cdn.example.com/a.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteAllEntryImages_Success(t *testing.T) {
	repo, mock, db := newTestImageRepo(t)
	defer db.Close()

	mock.ExpectExec("DELETE FROM entry_images").
		WithArgs("e-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	if err := repo.DeleteAllEntryImages(context.Background(), "e-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
