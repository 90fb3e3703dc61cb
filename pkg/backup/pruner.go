package backup

import (
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Prune removes the oldest backups of dir until keep remain and returns the removed paths.
// Backups are ordered by the timestamp in their filename, files that don't follow the
// backup naming are ignored.
func Prune(dir string, keep int) ([]string, error) {
	if keep < 1 {
		return nil, errors.New("keep less than one")
	}

	backups, err := listBackups(dir)
	if err != nil {
		return nil, fmt.Errorf("listing backups: %s", err)
	}
	if len(backups) <= keep {
		return nil, nil
	}

	var removed []string
	for _, b := range backups[:len(backups)-keep] {
		p := path.Join(dir, b.name)
		if err := os.Remove(p); err != nil {
			return removed, errors.Errorf("os remove: %s", err)
		}
		removed = append(removed, p)
	}
	return removed, nil
}

type backupFile struct {
	name      string
	timestamp time.Time
}

func listBackups(dir string) ([]backupFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %s", err)
	}

	var backups []backupFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ts, ok := parseBackupFilename(e.Name())
		if !ok {
			continue
		}
		backups = append(backups, backupFile{name: e.Name(), timestamp: ts})
	}

	sort.SliceStable(backups, func(i, j int) bool { return backups[i].timestamp.Before(backups[j].timestamp) })
	return backups, nil
}

// parseBackupFilename extracts the timestamp of names like links_backup_<RFC3339>.db[.zst].
func parseBackupFilename(name string) (time.Time, bool) {
	prefix := BackupFilenamePrefix + "_"
	if !strings.HasPrefix(name, prefix) {
		return time.Time{}, false
	}
	rest := strings.TrimPrefix(name, prefix)
	switch {
	case strings.HasSuffix(rest, ".db.zst"):
		rest = strings.TrimSuffix(rest, ".db.zst")
	case strings.HasSuffix(rest, ".db"):
		rest = strings.TrimSuffix(rest, ".db")
	default:
		return time.Time{}, false
	}

	ts, err := time.Parse(time.RFC3339, rest)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func backupFilename(ts time.Time) string {
	return fmt.Sprintf("%s_%s.db", BackupFilenamePrefix, ts.UTC().Format(time.RFC3339))
}
