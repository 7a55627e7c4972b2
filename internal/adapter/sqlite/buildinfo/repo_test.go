package buildinfo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite/buildinfo"
	"github.com/heartmarshall/jmdict-store/internal/adapter/sqlite/testhelper"
	"github.com/heartmarshall/jmdict-store/internal/domain"
)

func newRepo(t *testing.T) *buildinfo.Repo {
	t.Helper()
	return buildinfo.New(testhelper.NewTestDB(t))
}

func makeBuildInfo(finished time.Time) domain.BuildInfo {
	return domain.BuildInfo{
		ID:              uuid.New(),
		Source:          "testdata/jmdict_sample.xml",
		EntriesLoaded:   5,
		EntriesRejected: 2,
		StartedAt:       finished.Add(-3 * time.Second),
		FinishedAt:      finished,
	}
}

func TestRepo_RecordAndLatestBuild(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	want := makeBuildInfo(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err := repo.RecordBuild(ctx, want); err != nil {
		t.Fatalf("RecordBuild: %v", err)
	}

	got, err := repo.LatestBuild(ctx)
	if err != nil {
		t.Fatalf("LatestBuild: %v", err)
	}

	if got.ID != want.ID {
		t.Errorf("ID mismatch: got %s, want %s", got.ID, want.ID)
	}
	if got.Source != want.Source {
		t.Errorf("Source mismatch: got %q, want %q", got.Source, want.Source)
	}
	if got.EntriesLoaded != want.EntriesLoaded {
		t.Errorf("EntriesLoaded mismatch: got %d, want %d", got.EntriesLoaded, want.EntriesLoaded)
	}
	if got.EntriesRejected != want.EntriesRejected {
		t.Errorf("EntriesRejected mismatch: got %d, want %d", got.EntriesRejected, want.EntriesRejected)
	}
	if !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("StartedAt mismatch: got %v, want %v", got.StartedAt, want.StartedAt)
	}
	if !got.FinishedAt.Equal(want.FinishedAt) {
		t.Errorf("FinishedAt mismatch: got %v, want %v", got.FinishedAt, want.FinishedAt)
	}
}

func TestRepo_LatestBuild_NeverBuilt(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	_, err := repo.LatestBuild(ctx)
	if err == nil {
		t.Fatal("expected error on empty build_info, got nil")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestRepo_LatestBuild_PicksMostRecent(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	older := makeBuildInfo(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	newer := makeBuildInfo(time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC))

	// Insert out of chronological order.
	if err := repo.RecordBuild(ctx, newer); err != nil {
		t.Fatalf("RecordBuild newer: %v", err)
	}
	if err := repo.RecordBuild(ctx, older); err != nil {
		t.Fatalf("RecordBuild older: %v", err)
	}

	got, err := repo.LatestBuild(ctx)
	if err != nil {
		t.Fatalf("LatestBuild: %v", err)
	}
	if got.ID != newer.ID {
		t.Errorf("expected latest build %s, got %s", newer.ID, got.ID)
	}
}

func TestRepo_RecordBuild_DuplicateID(t *testing.T) {
	t.Parallel()
	repo := newRepo(t)
	ctx := context.Background()

	info := makeBuildInfo(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	if err := repo.RecordBuild(ctx, info); err != nil {
		t.Fatalf("first RecordBuild: %v", err)
	}

	err := repo.RecordBuild(ctx, info)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got: %v", err)
	}
}
