package blobstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestMemoryStore_PutGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Put(ctx, "prescriptions/abc.pdf", "application/pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	rc, contentType, err := store.Get(ctx, "prescriptions/abc.pdf")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer rc.Close()

	if contentType != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", contentType)
	}
	data, _ := io.ReadAll(rc)
	if string(data) != "pdf bytes" {
		t.Errorf("expected content round-trip, got %q", string(data))
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, _, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.Put(ctx, "k", "text/plain", strings.NewReader("x"))
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, _, err := store.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for second delete, got %v", err)
	}
}

func TestMemoryStore_RejectsOversized(t *testing.T) {
	store := NewMemoryStore()

	big := bytes.Repeat([]byte("a"), MaxFileSize+1)
	err := store.Put(context.Background(), "big", "application/pdf", bytes.NewReader(big))
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	if _, err := NewS3Store(context.Background(), "", "eu-west-3"); err == nil {
		t.Error("expected error for missing bucket")
	}
}
