package gcp

import (
	"context"
	"testing"

	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

func TestObjectURLDefault(t *testing.T) {
	got := ObjectURL("reports", "/students/s1/r.md", "", "")
	want := "https://storage.googleapis.com/reports/students/s1/r.md"
	if got != want {
		t.Fatalf("url: want=%q got=%q", want, got)
	}
}

func TestObjectURLPublicBase(t *testing.T) {
	got := ObjectURL("reports", "a.md", "https://cdn.example.com", "")
	if got != "https://cdn.example.com/reports/a.md" {
		t.Fatalf("url: got=%q", got)
	}
}

func TestObjectURLEmulator(t *testing.T) {
	got := ObjectURL("reports", "students/s1/r.md", "", "http://fake-gcs:4443")
	want := "http://fake-gcs:4443/storage/v1/b/reports/o/students%2Fs1%2Fr.md?alt=media"
	if got != want {
		t.Fatalf("url: want=%q got=%q", want, got)
	}
}

func TestNewReportArchiveRequiresBucket(t *testing.T) {
	if _, err := NewReportArchive(context.Background(), logger.Nop(), ArchiveConfig{}); err == nil {
		t.Fatalf("expected error for missing bucket")
	}
}

func TestNewReportArchiveRejectsBadEmulatorHost(t *testing.T) {
	_, err := NewReportArchive(context.Background(), logger.Nop(), ArchiveConfig{Bucket: "b", EmulatorHost: "fake-gcs"})
	if err == nil {
		t.Fatalf("expected error for relative emulator host")
	}
}

func TestClientOptionsFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	if opts := ClientOptionsFromEnv(); opts != nil {
		t.Fatalf("expected no options, got %d", len(opts))
	}
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/key.json")
	if opts := ClientOptionsFromEnv(); len(opts) != 1 {
		t.Fatalf("expected one option, got %d", len(opts))
	}
}
