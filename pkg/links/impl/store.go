package impl

import (
	"context"
	"database/sql"
	"embed"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/dondinetwork/go-dondi/pkg/links"
	"github.com/dondinetwork/go-dondi/pkg/logging"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3" // migration for sqlite3
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
)

//go:embed migrations/*.sql
var migrations embed.FS

// maxGenerateAttempts bounds the retries when a generated slug collides with an existing one.
const maxGenerateAttempts = 5

// LinkStore is a SQLite implementation of links.Store.
type LinkStore struct {
	log       zerolog.Logger
	sqlDB     *sql.DB
	generator *links.Generator
}

var _ links.Store = (*LinkStore)(nil)

// New returns a LinkStore backed by the SQLite database at dbURI.
func New(dbURI string, generator *links.Generator) (*LinkStore, error) {
	sqlDB, err := otelsql.Open("sqlite3", dbURI, otelsql.WithAttributes(
		attribute.String("name", "linksdb"),
	))
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %s", err)
	}
	sqlDB.SetMaxIdleConns(0)
	if err := otelsql.RegisterDBStatsMetrics(sqlDB, otelsql.WithAttributes(
		attribute.String("name", "linksdb"),
	)); err != nil {
		return nil, fmt.Errorf("registering dbstats: %s", err)
	}

	s := &LinkStore{
		log:       logging.Component("linksdb"),
		sqlDB:     sqlDB,
		generator: generator,
	}
	if err := s.executeMigration(dbURI); err != nil {
		return nil, fmt.Errorf("initializing db connection: %s", err)
	}

	return s, nil
}

// Create implements links.Store.
func (s *LinkStore) Create(ctx context.Context, uid string) (links.Link, error) {
	if _, err := s.Get(ctx, uid); err == nil {
		return links.Link{}, links.ErrExists
	} else if !stderrors.Is(err, errors.ErrNotFound) {
		return links.Link{}, err
	}

	for attempt := 1; ; attempt++ {
		link := s.generator.Generate(uid)
		_, err := s.sqlDB.ExecContext(ctx,
			`INSERT INTO links (id, uid, personal_link, group_link, custom_link, created_at)
			 VALUES (?1, ?2, ?3, ?4, ?5, ?6)`,
			link.ID, link.UID, link.PersonalLink, link.GroupLink, link.CustomLink, time.Now().Unix(),
		)
		if err == nil {
			s.log.Info().Str("uid", uid).Str("id", link.ID).Msg("link created")
			return link, nil
		}
		if !isUniqueViolation(err) {
			return links.Link{}, fmt.Errorf("insert into links: %s", err)
		}

		// A concurrent request may have created the link in the meantime.
		if _, err := s.Get(ctx, uid); err == nil {
			return links.Link{}, links.ErrExists
		}
		if attempt == maxGenerateAttempts {
			return links.Link{}, fmt.Errorf("generating unique link for uid %s: %s", uid, err)
		}
		s.log.Warn().Err(err).Int("attempt", attempt).Msg("generated link collides, retrying")
	}
}

// Get implements links.Store.
func (s *LinkStore) Get(ctx context.Context, uid string) (links.Link, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, uid, personal_link, group_link, custom_link FROM links WHERE uid = ?1`, uid)
	return scanLink(row)
}

// UIDFromLink implements links.Store.
func (s *LinkStore) UIDFromLink(ctx context.Context, link string) (string, error) {
	if link == "" {
		return "", errors.ErrNotFound
	}
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, uid, personal_link, group_link, custom_link FROM links
		 WHERE personal_link = ?1 OR group_link = ?1 OR custom_link = ?1
		 LIMIT 1`, link)
	l, err := scanLink(row)
	if err != nil {
		return "", err
	}
	return l.UID, nil
}

// Close closes the database.
func (s *LinkStore) Close() error {
	if err := s.sqlDB.Close(); err != nil {
		return fmt.Errorf("close: %s", err)
	}

	return nil
}

func scanLink(row *sql.Row) (links.Link, error) {
	var l links.Link
	if err := row.Scan(&l.ID, &l.UID, &l.PersonalLink, &l.GroupLink, &l.CustomLink); err != nil {
		if err == sql.ErrNoRows {
			return links.Link{}, errors.ErrNotFound
		}
		return links.Link{}, fmt.Errorf("scanning link: %s", err)
	}
	return l, nil
}

func isUniqueViolation(err error) bool {
	var sqlErr sqlite3.Error
	if stderrors.As(err, &sqlErr) {
		return sqlErr.Code == sqlite3.ErrConstraint &&
			(sqlErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqlErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
	}
	return false
}

// executeMigration runs the embedded migrations against the SQLite database.
func (s *LinkStore) executeMigration(dbURI string) error {
	d, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("creating source driver: %s", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, "sqlite3://"+dbURI)
	if err != nil {
		return fmt.Errorf("creating migration: %s", err)
	}
	version, dirty, err := m.Version()
	s.log.Info().
		Uint("dbVersion", version).
		Bool("dirty", dirty).
		Err(err).
		Msg("database migration executed")

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("running migration up: %s", err)
	}

	return nil
}
