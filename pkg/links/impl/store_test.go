package impl

import (
	"context"
	"regexp"
	"testing"

	"github.com/dondinetwork/go-dondi/pkg/errors"
	"github.com/dondinetwork/go-dondi/pkg/links"
	"github.com/dondinetwork/go-dondi/tests"
	"github.com/stretchr/testify/require"
)

func TestLinkStore(t *testing.T) {
	t.Parallel()

	t.Run("create once", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		ctx := context.Background()

		link, err := s.Create(ctx, "42")
		require.NoError(t, err)
		require.Regexp(t, regexp.MustCompile(`^dondi-\d{13}$`), link.ID)
		require.Regexp(t, regexp.MustCompile(`^https://dondi\.io/i/[0-9a-f]{6}/$`), link.PersonalLink)
		require.Equal(t, link.PersonalLink[len("https://dondi.io/i/"):], link.CustomLink[len("https://dondi.io/r/"):])
		require.Empty(t, link.GroupLink)

		_, err = s.Create(ctx, "42")
		require.ErrorIs(t, err, links.ErrExists)

		var count int
		row := s.sqlDB.QueryRowContext(ctx, "SELECT count(*) FROM links WHERE uid = '42'")
		require.NoError(t, row.Scan(&count))
		require.Equal(t, 1, count)

		got, err := s.Get(ctx, "42")
		require.NoError(t, err)
		require.Equal(t, link, got)
	})

	t.Run("reverse lookup", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		ctx := context.Background()

		link, err := s.Create(ctx, "7")
		require.NoError(t, err)

		uid, err := s.UIDFromLink(ctx, link.PersonalLink)
		require.NoError(t, err)
		require.Equal(t, "7", uid)

		uid, err = s.UIDFromLink(ctx, link.CustomLink)
		require.NoError(t, err)
		require.Equal(t, "7", uid)

		_, err = s.UIDFromLink(ctx, "https://dondi.io/i/ffffff/x")
		require.ErrorIs(t, err, errors.ErrNotFound)

		_, err = s.UIDFromLink(ctx, "")
		require.ErrorIs(t, err, errors.ErrNotFound)
	})

	t.Run("unknown uid", func(t *testing.T) {
		t.Parallel()

		s := newStore(t)
		_, err := s.Get(context.Background(), "nope")
		require.ErrorIs(t, err, errors.ErrNotFound)
	})
}

func newStore(t *testing.T) *LinkStore {
	t.Helper()

	s, err := New(tests.Sqlite3URI(), links.NewGenerator("https://dondi.io/"))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}
