package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// Fetch downloads a dataset file into destDir and returns the local path.
// Payloads with a .zst suffix are decompressed transparently, dropping the
// suffix from the stored file.
func Fetch(ctx context.Context, url, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInputAccess, destDir, err)
	}

	name := filepath.Base(url)
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("%w: cannot derive a file name from %q", ErrInputAccess, url)
	}
	compressed := strings.HasSuffix(name, ".zst")
	target := filepath.Join(destDir, strings.TrimSuffix(name, ".zst"))

	client := resty.New().
		SetRetryCount(3).
		SetRetryWaitTime(2 * time.Second).
		SetTimeout(5 * time.Minute)

	tmp := target + ".part"
	resp, err := client.R().
		SetContext(ctx).
		SetOutput(tmp).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("%w: fetch %s: %v", ErrInputAccess, url, err)
	}
	if resp.IsError() {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("%w: fetch %s: status %d", ErrInputAccess, url, resp.StatusCode())
	}

	if compressed {
		err = decompressZstd(tmp, target)
		_ = os.Remove(tmp)
		if err != nil {
			return "", err
		}
	} else if err := os.Rename(tmp, target); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInputAccess, target, err)
	}

	log.Info().Str("url", url).Str("path", target).Msg("dataset fetched")
	return target, nil
}

func decompressZstd(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInputAccess, src, err)
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return fmt.Errorf("%w: zstd reader: %v", ErrInputAccess, err)
	}
	defer dec.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInputAccess, dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, dec); err != nil {
		_ = os.Remove(dst)
		return fmt.Errorf("%w: decompress %s: %v", ErrInputAccess, src, err)
	}
	return nil
}
