package catalog

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens the catalog database. ":memory:" and "file:" URIs are used as
// given; anything else is treated as a path on disk.
func OpenSQLite(dsn string) (*sql.DB, error) {
	if dsn != ":memory:" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, err
		}
		// Busy timeout + WAL para concurrencia
		dsn += "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// una sola conexion: una base en memoria vive mientras su conexion siga abierta
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	return db, nil
}
