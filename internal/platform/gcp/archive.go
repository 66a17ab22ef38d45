package gcp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

// ArchiveConfig describes where generated teacher reports are stored.
type ArchiveConfig struct {
	Bucket string
	// EmulatorHost points the client at a fake-gcs server and disables auth.
	EmulatorHost string
	// PublicBaseURL overrides https://storage.googleapis.com for returned URLs.
	PublicBaseURL string
}

// ReportArchive uploads rendered reports to a GCS bucket.
type ReportArchive interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Close() error
}

type reportArchive struct {
	log           *logger.Logger
	client        *storage.Client
	bucket        string
	emulatorHost  string
	publicBaseURL string
}

func NewReportArchive(ctx context.Context, log *logger.Logger, cfg ArchiveConfig) (ReportArchive, error) {
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("missing env var REPORT_BUCKET")
	}
	emulator := strings.TrimRight(strings.TrimSpace(cfg.EmulatorHost), "/")
	if emulator != "" {
		if u, err := url.Parse(emulator); err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid STORAGE_EMULATOR_HOST=%q; expected absolute URL like http://localhost:4443", cfg.EmulatorHost)
		}
	}

	var opts []option.ClientOption
	if emulator != "" {
		opts = append(opts,
			option.WithoutAuthentication(),
			option.WithEndpoint(emulator+"/storage/v1/"),
		)
	} else {
		opts = append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	archiveLog := log.With("service", "ReportArchive")
	archiveLog.Info("Report archive initialized", "bucket", bucket, "emulator_host", emulator)
	return &reportArchive{
		log:           archiveLog,
		client:        client,
		bucket:        bucket,
		emulatorHost:  emulator,
		publicBaseURL: strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/"),
	}, nil
}

// Put writes body under key and returns the object's URL.
func (a *reportArchive) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if key == "" {
		return "", fmt.Errorf("empty object key")
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, body); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to close GCS writer: %w", err)
	}
	a.log.Debug("Report archived", "key", key)
	return ObjectURL(a.bucket, key, a.publicBaseURL, a.emulatorHost), nil
}

func (a *reportArchive) Close() error {
	return a.client.Close()
}

// ObjectURL renders a browser-usable URL for bucket/key.
func ObjectURL(bucket, key, publicBaseURL, emulatorHost string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if emulatorHost != "" {
		base := publicBaseURL
		if base == "" {
			base = emulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, bucket, url.PathEscape(key))
	}
	if publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", publicBaseURL, bucket, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, key)
}
