package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// Keys used by the application. Values are JSON-encoded.
const (
	KeyTasks       = "tasks"
	KeyCurrentUser = "currentUser"
	KeyUsers       = "registeredUsers"
	KeyTheme       = "theme"
)

// KV is a persistent key-value store backed by a single sqlite table.
// Writes replace the whole value under a key; there is no partial update.
type KV struct {
	db *sql.DB
}

func Open(dbPath string) (*KV, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	kv := &KV{db: db}
	if err := kv.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return kv, nil
}

func (kv *KV) Close() error {
	if kv.db == nil {
		return nil
	}
	return kv.db.Close()
}

func (kv *KV) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS kv (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);`
	_, err := kv.db.Exec(ddl)
	return err
}

// Get unmarshals the value stored under key into v. The boolean reports
// whether the key was present; an absent key is not an error.
func (kv *KV) Get(key string, v any) (bool, error) {
	var raw string
	err := kv.db.QueryRow(`SELECT value FROM kv WHERE key = ?;`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return true, err
	}
	return true, nil
}

func (kv *KV) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = kv.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value;`, key, string(raw))
	return err
}

func (kv *KV) Delete(key string) error {
	_, err := kv.db.Exec(`DELETE FROM kv WHERE key = ?;`, key)
	return err
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
