// Package rundir creates timestamped output directories for evaluation runs.
package rundir

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
)

// Create makes <base>/run_YYYYMMDD_HHMM/ and returns its path. Parent
// directories are created as needed; an existing run directory from the same
// minute is reused.
func Create(base string) (string, error) {
	name := time.Now().Format("run_20060102_1504")
	dir := filepath.Join(base, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run directory %s: %w", dir, err)
	}
	log.Info().Str("dir", dir).Msg("run directory ready")
	return dir, nil
}
