package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"
	"github.com/ubuntu/decorate"

	"github.com/diillson/cloud-exit-assessment/internal/domain/repository"
	"github.com/diillson/cloud-exit-assessment/internal/shared/types"
)

const (
	// DefaultRemoteURL hosts the weekly reference dataset snapshots.
	DefaultRemoteURL = "https://cloudexit-oss-data-eu.fsn1.your-objectstorage.com"

	// DatabaseFile is the extracted dataset inside the dataset directory.
	DatabaseFile = "data.db"

	latestFile      = "cloudexit-latest.db.gz"
	checksumSuffix  = ".sha256"
	snapshotPattern = "cloudexit-*.db.gz"

	// Snapshots are published on Mondays at 08:00 UTC.
	publishHour = 8
)

// Repository implements repository.DatasetRepository against the object
// storage holding the weekly snapshots.
type Repository struct {
	baseURL string
	client  *retryablehttp.Client
	now     func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the clock used to pick the weekly snapshot.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithRetries sets the number of retries and the minimum wait between them.
func WithRetries(retries int, wait time.Duration) Option {
	return func(r *Repository) {
		r.client.RetryMax = retries
		r.client.RetryWaitMin = wait
		if r.client.RetryWaitMax < wait {
			r.client.RetryWaitMax = wait
		}
	}
}

// NewRepository creates a dataset repository. An empty baseURL selects
// DefaultRemoteURL.
func NewRepository(baseURL string, opts ...Option) repository.DatasetRepository {
	if baseURL == "" {
		baseURL = DefaultRemoteURL
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 5 * time.Second
	client.RetryWaitMax = 15 * time.Second
	client.HTTPClient.Timeout = 30 * time.Second
	client.Logger = nil

	r := &Repository{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// WeeklyFileName returns the snapshot name for the week containing now.
// Before the Monday publication hour the previous week's snapshot is used.
func WeeklyFileName(now time.Time) string {
	now = now.UTC()
	offset := (int(now.Weekday()) + 6) % 7
	monday := now.AddDate(0, 0, -offset)
	if offset == 0 && now.Hour() < publishHour {
		monday = monday.AddDate(0, 0, -7)
	}
	return monday.Format("cloudexit-2006-01-02.db.gz")
}

// EnsureDataset refreshes the local dataset when the remote checksum differs
// from the local snapshot and returns the path of the extracted database.
// When the remote is unreachable an existing local copy is used.
func (r *Repository) EnsureDataset(ctx context.Context, dir string) (path string, err error) {
	defer decorate.OnError(&err, "updating reference dataset in %s", dir)

	logger := zerolog.Ctx(ctx)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating dataset directory: %w", err)
	}
	dbPath := filepath.Join(dir, DatabaseFile)

	name := WeeklyFileName(r.now())
	checksum, err := r.fetchChecksum(ctx, name)
	if err != nil {
		logger.Info().Err(err).Str("snapshot", name).Msg("Weekly snapshot checksum unavailable, trying latest")
		name = latestFile
		checksum, err = r.fetchChecksum(ctx, name)
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Unable to fetch any remote checksum, skipping dataset update")
		return localDataset(dbPath)
	}

	archive := filepath.Join(dir, name)
	if local, err := fileChecksum(archive); err == nil && local == checksum {
		if _, err := os.Stat(dbPath); err == nil {
			logger.Info().Str("snapshot", name).Msg("Local dataset is up-to-date")
			return dbPath, nil
		}
		if err := extract(archive, dbPath); err != nil {
			return "", err
		}
		return dbPath, nil
	}

	logger.Info().Str("snapshot", name).Msg("Downloading reference dataset")
	tmp, err := r.download(ctx, name, dir)
	if err != nil {
		logger.Warn().Err(err).Msg("Dataset download failed")
		return localDataset(dbPath)
	}
	defer os.Remove(tmp)

	got, err := fileChecksum(tmp)
	if err != nil {
		return "", err
	}
	if got != checksum {
		logger.Warn().Str("expected", checksum).Str("actual", got).Msg("Downloaded dataset checksum mismatch")
		return localDataset(dbPath)
	}

	if err := removeSnapshots(dir); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, archive); err != nil {
		return "", fmt.Errorf("storing snapshot: %w", err)
	}
	if err := extract(archive, dbPath); err != nil {
		return "", err
	}

	logger.Info().Str("snapshot", name).Msg("Dataset updated successfully")
	return dbPath, nil
}

func localDataset(dbPath string) (string, error) {
	if _, err := os.Stat(dbPath); err != nil {
		return "", fmt.Errorf("%w: no local dataset at %s", types.ErrCatalogueUnavailable, dbPath)
	}
	return dbPath, nil
}

func (r *Repository) get(ctx context.Context, name string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/"+name, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: unexpected status %s", name, resp.Status)
	}
	return resp, nil
}

// fetchChecksum reads the first field of the published .sha256 file.
func (r *Repository) fetchChecksum(ctx context.Context, name string) (string, error) {
	resp, err := r.get(ctx, name+checksumSuffix)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return "", err
	}
	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return "", errors.New("empty checksum file")
	}
	return strings.ToLower(fields[0]), nil
}

func (r *Repository) download(ctx context.Context, name, dir string) (string, error) {
	resp, err := r.get(ctx, name)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	f, err := os.CreateTemp(dir, name+".*.part")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Name(), nil
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func removeSnapshots(dir string) error {
	matches, err := filepath.Glob(filepath.Join(dir, snapshotPattern))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			return fmt.Errorf("removing old snapshot: %w", err)
		}
	}
	return nil
}

// extract gunzips archive into dst through a temporary file so a failed
// extraction never leaves a truncated database behind.
func extract(archive, dst string) (err error) {
	defer decorate.OnError(&err, "extracting %s", filepath.Base(archive))

	in, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer in.Close()

	zr, err := gzip.NewReader(in)
	if err != nil {
		return err
	}
	defer zr.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), DatabaseFile+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(out.Name())

	if _, err := io.Copy(out, zr); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Rename(out.Name(), dst)
}
