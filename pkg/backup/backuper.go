package backup

import (
	"context"
	"database/sql"
	"os"
	"path"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// BackupFilenamePrefix is the prefix used in every backup file.
const BackupFilenamePrefix = "links_backup"

// Backuper copies a live SQLite database into timestamped files of a directory.
type Backuper struct {
	sourceURI, dir string
	config         *Config

	clock func() time.Time
}

// NewBackuper creates a new backuper responsible for making backups of the SQLite database at sourceURI.
func NewBackuper(sourceURI string, backupDir string, opts ...Option) (*Backuper, error) {
	config := DefaultConfig()
	for _, o := range opts {
		if err := o(config); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(backupDir, 0o755); err != nil {
		return nil, errors.Errorf("os mkdir all: %s", err)
	}

	return &Backuper{
		sourceURI: sourceURI,
		dir:       backupDir,
		config:    config,
		clock:     time.Now,
	}, nil
}

// Backup creates a backup file in the backup directory. Calls are independent,
// so a failed backup can be retried.
func (b *Backuper) Backup(ctx context.Context) (_ BackupResult, err error) {
	timestamp := b.clock().UTC()
	filename := path.Join(b.dir, backupFilename(timestamp))
	defer func() {
		if err != nil {
			_ = os.Remove(filename)
		}
	}()

	source, err := open(b.sourceURI)
	if err != nil {
		return BackupResult{}, errors.Errorf("opening source db: %s", err)
	}
	defer func() { _ = source.Close() }()

	backup, err := open(filename)
	if err != nil {
		return BackupResult{}, errors.Errorf("opening backup db: %s", err)
	}
	defer func() { _ = backup.Close() }()

	startTime := time.Now()
	if err := b.doBackup(ctx, source, backup); err != nil {
		return BackupResult{}, errors.Errorf("backup: %s", err)
	}
	result := BackupResult{
		Timestamp:   timestamp,
		Path:        filename,
		ElapsedTime: time.Since(startTime),
	}

	if result.Size, err = fileSize(filename); err != nil {
		return BackupResult{}, errors.Errorf("get file size: %s", err)
	}

	if b.config.Vacuum {
		startTime := time.Now()
		if _, err := backup.ExecContext(ctx, "VACUUM"); err != nil {
			return BackupResult{}, errors.Errorf("exec vacuum: %s", err)
		}
		result.VacuumElapsedTime = time.Since(startTime)
		if result.SizeAfterVacuum, err = fileSize(filename); err != nil {
			return BackupResult{}, errors.Errorf("get file size: %s", err)
		}
	}

	if err := backup.Close(); err != nil {
		return BackupResult{}, errors.Errorf("closing backup db: %s", err)
	}

	if b.config.Compression {
		startTime := time.Now()
		compressed, err := Compress(filename)
		if err != nil {
			return BackupResult{}, errors.Errorf("compress: %s", err)
		}
		result.CompressionElapsedTime = time.Since(startTime)
		if result.SizeAfterCompression, err = fileSize(compressed); err != nil {
			return BackupResult{}, errors.Errorf("get file size: %s", err)
		}
		if err := os.Remove(filename); err != nil {
			return BackupResult{}, errors.Errorf("os remove: %s", err)
		}
		result.Path = compressed
	}

	if b.config.Pruning {
		if result.Pruned, err = Prune(b.dir, b.config.KeepFiles); err != nil {
			return BackupResult{}, errors.Errorf("prune: %s", err)
		}
	}

	return result, nil
}

// doBackup copies every page of the source into the backup with the SQLite backup API.
func (b *Backuper) doBackup(ctx context.Context, source, backup *sql.DB) error {
	in, err := source.Conn(ctx)
	if err != nil {
		return errors.Errorf("getting db conn: %s", err)
	}
	defer func() { _ = in.Close() }()

	out, err := backup.Conn(ctx)
	if err != nil {
		return errors.Errorf("getting backup db conn: %s", err)
	}
	defer func() { _ = out.Close() }()

	return in.Raw(func(driverIn interface{}) error {
		return out.Raw(func(driverOut interface{}) error {
			inConn, ok := driverIn.(*sqlite3.SQLiteConn)
			if !ok {
				return errors.New("source is not a sqlite3 connection")
			}
			outConn, ok := driverOut.(*sqlite3.SQLiteConn)
			if !ok {
				return errors.New("backup is not a sqlite3 connection")
			}
			return copyPages(inConn, outConn)
		})
	})
}

func copyPages(in, out *sqlite3.SQLiteConn) error {
	backup, err := out.Backup("main", in, "main")
	if err != nil {
		return errors.Errorf("failed to initialize the backup: %s", err)
	}

	// copies all pages in one single step
	isDone, err := backup.Step(-1)
	if err != nil {
		return errors.Errorf("failed to perform the backup step: %s", err)
	}
	if !isDone {
		return errors.New("backup is unexpectedly not done")
	}
	if remaining := backup.Remaining(); remaining != 0 {
		return errors.Errorf("unexpected remaining value: %d", remaining)
	}

	if err := backup.Finish(); err != nil {
		return errors.Errorf("failed to finish backup: %s", err)
	}
	return nil
}

func fileSize(filename string) (int64, error) {
	fi, err := os.Stat(filename)
	if err != nil {
		return 0, errors.Errorf("os stat: %s", err)
	}
	return fi.Size(), nil
}

func open(uri string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", uri)
	if err != nil {
		return nil, errors.Errorf("opening db: %s", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Errorf("pinging db: %s", err)
	}
	return db, nil
}

// BackupResult represents the result of a backup process.
type BackupResult struct {
	Timestamp time.Time
	Path      string

	// Stats
	ElapsedTime            time.Duration
	VacuumElapsedTime      time.Duration
	CompressionElapsedTime time.Duration
	Size                   int64
	SizeAfterVacuum        int64
	SizeAfterCompression   int64

	// Pruned lists the backups removed after this one was made.
	Pruned []string
}

// Config contains configuration parameters for backuper.
type Config struct {
	Compression bool
	Pruning     bool
	Vacuum      bool
	KeepFiles   int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Compression: false,
		Pruning:     false,
		Vacuum:      false,
		KeepFiles:   5,
	}
}

// Option modifies a configuration attribute.
type Option func(*Config) error

// WithCompression enables zstd compression of backup files.
func WithCompression(v bool) Option {
	return func(c *Config) error {
		c.Compression = v
		return nil
	}
}

// WithPruning enables pruning of old backup files.
func WithPruning(v bool, keep int) Option {
	return func(c *Config) error {
		if v && keep < 1 {
			return errors.New("keep must be at least one")
		}
		c.Pruning = v
		c.KeepFiles = keep
		return nil
	}
}

// WithVacuum enables VACUUM operation.
func WithVacuum(v bool) Option {
	return func(c *Config) error {
		c.Vacuum = v
		return nil
	}
}
