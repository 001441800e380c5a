package feedarchive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// writeFile atomically replaces path with data and returns its SHA-256.
func writeFile(path string, data []byte) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func writeJSON(path string, v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return writeFile(path, append(data, '\n'))
}

// hashFile returns the SHA-256 of the file at path.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// download fetches url into path unless the file already exists and
// overwriting is off, then records its hash. It reports false when the
// download failed; the failure is noted in the manifest.
func (a *Archiver) download(ctx context.Context, r *run, url, path string) (bool, error) {
	if exists(path) && !a.opts.Overwrite {
		a.logger.Debug("skipping cached file", zap.String("path", path))
		sum, err := hashFile(path)
		if err != nil {
			return false, fmt.Errorf("failed to hash %s: %w", path, err)
		}
		r.record(path, FileHash{URL: url, SHA256: sum})
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return false, fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	a.logger.Info("downloading", zap.String("url", url))
	h := sha256.New()
	_, derr := a.source.Download(ctx, url, io.MultiWriter(tmp, h))
	if cerr := tmp.Close(); cerr != nil && derr == nil {
		return false, fmt.Errorf("failed to write %s: %w", path, cerr)
	}
	if derr != nil {
		a.logger.Warn("download failed", zap.String("url", url), zap.Error(derr))
		r.fail("%s: %v", url, derr)
		return false, nil
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	r.record(path, FileHash{URL: url, SHA256: hex.EncodeToString(h.Sum(nil))})
	return true, nil
}

// save writes v as JSON to path and records its hash.
func (a *Archiver) save(r *run, path string, v any) error {
	sum, err := writeJSON(path, v)
	if err != nil {
		return err
	}
	r.record(path, FileHash{SHA256: sum})
	return nil
}
