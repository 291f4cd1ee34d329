package jobs_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/AbirAbbas/youtube-automation-sub000/internal/jobs"
	"github.com/AbirAbbas/youtube-automation-sub000/internal/testsupport"
)

func TestCreateAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	job := testsupport.NewJob(t, store, "overlay", "Solar Basics")
	if job.ID == uuid.Nil {
		t.Fatal("expected job ID to be assigned")
	}
	if job.Status != jobs.StatusPending {
		t.Fatalf("expected pending status, got %s", job.Status)
	}

	fetched, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched == nil || fetched.Title != "Solar Basics" || fetched.Mode != "overlay" {
		t.Fatalf("unexpected fetched job: %#v", fetched)
	}
	if fetched.CreatedAt.IsZero() || fetched.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %#v", fetched)
	}

	missing, err := store.Get(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("expected (nil, nil) for missing job, got %#v, %v", missing, err)
	}
}

func TestCreateRequiresMode(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	if err := store.Create(context.Background(), &jobs.Job{}); err == nil {
		t.Fatal("expected error when mode missing")
	}
}

func TestUpdatePersistsResult(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	job := testsupport.NewJob(t, store, "footage", "Ocean")
	job.Status = jobs.StatusCompleted
	job.OutputPath = "/out/ocean.mp4"
	job.AudioSeconds = 61.5
	job.VideoSeconds = 61.5
	job.Sections = 3
	job.Placeholders = 1
	job.Clips = 7
	if err := store.Update(ctx, job); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := store.Get(ctx, job.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Status != jobs.StatusCompleted || fetched.Clips != 7 || fetched.Placeholders != 1 {
		t.Fatalf("unexpected persisted job: %#v", fetched)
	}
	if fetched.AudioSeconds != 61.5 || fetched.OutputPath != "/out/ocean.mp4" {
		t.Fatalf("unexpected persisted durations: %#v", fetched)
	}

	ghost := &jobs.Job{ID: uuid.New(), Mode: "overlay", Status: jobs.StatusRunning}
	if err := store.Update(ctx, ghost); err == nil {
		t.Fatal("expected error updating unknown job")
	}
}

func TestListOrdersNewestFirstAndFilters(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first := testsupport.NewJob(t, store, "overlay", "first")
	time.Sleep(2 * time.Millisecond)
	second := testsupport.NewJob(t, store, "overlay", "second")
	second.Status = jobs.StatusFailed
	second.ErrorKind = "composition"
	if err := store.Update(ctx, second); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	all, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("unexpected order: %#v", all)
	}

	failed, err := store.List(ctx, 10, jobs.StatusFailed)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(failed) != 1 || failed[0].ErrorKind != "composition" {
		t.Fatalf("unexpected filtered list: %#v", failed)
	}

	limited, err := store.List(ctx, 1)
	if err != nil || len(limited) != 1 {
		t.Fatalf("expected one job with limit, got %d (%v)", len(limited), err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[jobs.StatusPending] != 1 || stats[jobs.StatusFailed] != 1 {
		t.Fatalf("unexpected stats: %#v", stats)
	}
}

func TestFindByPrefix(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	job := testsupport.NewJob(t, store, "overlay", "prefix")
	found, err := store.FindByPrefix(ctx, job.ShortID())
	if err != nil {
		t.Fatalf("FindByPrefix failed: %v", err)
	}
	if found == nil || found.ID != job.ID {
		t.Fatalf("expected to find job, got %#v", found)
	}
	if _, err := store.FindByPrefix(ctx, " "); err == nil {
		t.Fatal("expected error for empty prefix")
	}
}

func TestClearAndMarkInterrupted(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	done := testsupport.NewJob(t, store, "overlay", "done")
	done.Status = jobs.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	running := testsupport.NewJob(t, store, "overlay", "running")
	running.Status = jobs.StatusRunning
	if err := store.Update(ctx, running); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	removed, err := store.Clear(ctx)
	if err != nil || removed != 1 {
		t.Fatalf("Clear = %d, %v; want 1", removed, err)
	}

	marked, err := store.MarkInterrupted(ctx)
	if err != nil || marked != 1 {
		t.Fatalf("MarkInterrupted = %d, %v; want 1", marked, err)
	}
	fetched, err := store.Get(ctx, running.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if fetched.Status != jobs.StatusFailed || fetched.ErrorKind != "interrupted" {
		t.Fatalf("unexpected interrupted job: %#v", fetched)
	}
}

func TestSearchCache(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if _, ok, err := store.LookupSearch(ctx, "ocean|4", time.Hour); err != nil || ok {
		t.Fatalf("expected miss on empty cache, got ok=%v err=%v", ok, err)
	}
	if err := store.StoreSearch(ctx, "ocean|4", []byte(`{"videos":[]}`)); err != nil {
		t.Fatalf("StoreSearch failed: %v", err)
	}
	payload, ok, err := store.LookupSearch(ctx, "ocean|4", time.Hour)
	if err != nil || !ok || string(payload) != `{"videos":[]}` {
		t.Fatalf("unexpected cache hit: %q ok=%v err=%v", payload, ok, err)
	}

	if err := store.StoreSearch(ctx, "ocean|4", []byte(`{"videos":[1]}`)); err != nil {
		t.Fatalf("StoreSearch overwrite failed: %v", err)
	}
	payload, _, _ = store.LookupSearch(ctx, "ocean|4", 0)
	if string(payload) != `{"videos":[1]}` {
		t.Fatalf("expected overwritten payload, got %q", payload)
	}

	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := store.LookupSearch(ctx, "ocean|4", time.Millisecond); ok {
		t.Fatal("expected expired entry to miss")
	}
	pruned, err := store.PruneSearches(ctx, time.Millisecond)
	if err != nil || pruned != 1 {
		t.Fatalf("PruneSearches = %d, %v; want 1", pruned, err)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "vidpipe.db")
	store, err := jobs.OpenPath(dbPath)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	_ = store.Close()

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = db.Close()

	if _, err := jobs.OpenPath(dbPath); !errors.Is(err, jobs.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestParseStatus(t *testing.T) {
	status, err := jobs.ParseStatus(" Timed_Out ")
	if err != nil || status != jobs.StatusTimedOut {
		t.Fatalf("ParseStatus = %q, %v", status, err)
	}
	if !status.IsTerminal() || jobs.StatusRunning.IsTerminal() {
		t.Fatal("unexpected terminal classification")
	}
	if _, err := jobs.ParseStatus("bogus"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
