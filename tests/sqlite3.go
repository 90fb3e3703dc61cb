package tests

import (
	"github.com/google/uuid"
)

// Sqlite3URI returns the URI of a fresh shared in-memory database.
func Sqlite3URI() string {
	return "file::" + uuid.NewString() + ":?mode=memory&cache=shared&_foreign_keys=on"
}
