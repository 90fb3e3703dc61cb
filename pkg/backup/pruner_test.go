package backup

import (
	"fmt"
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPrune(t *testing.T) {
	t.Parallel()

	for n := 1; n <= 8; n++ {
		for keep := 1; keep <= 4; keep++ {
			n, keep := n, keep
			t.Run(fmt.Sprintf("%d-%d", n, keep), func(t *testing.T) {
				t.Parallel()

				dir := t.TempDir()
				// created newest first so the result can't depend on creation order
				for i := n - 1; i >= 0; i-- {
					name := backupFilename(fixedTime.Add(time.Duration(i) * time.Hour))
					if i%2 == 0 {
						name += ".zst"
					}
					createEmptyFile(t, path.Join(dir, name))
				}

				removed, err := Prune(dir, keep)
				require.NoError(t, err)
				require.Len(t, removed, max(0, n-keep))
				requireFileCount(t, dir, min(n, keep))

				backups, err := listBackups(dir)
				require.NoError(t, err)
				for i, b := range backups {
					require.Equal(t, fixedTime.Add(time.Duration(n-len(backups)+i)*time.Hour).Truncate(time.Second), b.timestamp)
				}
			})
		}
	}
}

func TestPruneIgnoresForeignFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	createEmptyFile(t, path.Join(dir, "links.db"))
	createEmptyFile(t, path.Join(dir, BackupFilenamePrefix+"_yesterday.db"))
	createEmptyFile(t, path.Join(dir, backupFilename(fixedTime)+".gz"))
	createEmptyFile(t, path.Join(dir, backupFilename(fixedTime)))
	createEmptyFile(t, path.Join(dir, backupFilename(fixedTime.Add(time.Minute))))

	removed, err := Prune(dir, 1)
	require.NoError(t, err)
	require.Equal(t, []string{path.Join(dir, backupFilename(fixedTime))}, removed)
	requireFileCount(t, dir, 4)

	_, err = Prune(dir, 0)
	require.Error(t, err)
}

func TestParseBackupFilename(t *testing.T) {
	t.Parallel()

	ts, ok := parseBackupFilename("links_backup_2009-11-17T20:34:58Z.db.zst")
	require.True(t, ok)
	require.Equal(t, fixedTime.Truncate(time.Second), ts)

	_, ok = parseBackupFilename("other_backup_2009-11-17T20:34:58Z.db")
	require.False(t, ok)
}

func createEmptyFile(t *testing.T, name string) {
	t.Helper()

	f, err := os.Create(name)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
