package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	for _, table := range []string{"versions", "shapes"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %q not found after idempotent opens: %v", table, err)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := createTestStore(t)

	db := s.DB()
	if db == nil {
		t.Fatal("DB() returned nil")
	}
	if err := db.Ping(); err != nil {
		t.Errorf("DB() connection not usable: %v", err)
	}
}

func TestPragmas(t *testing.T) {
	s := createTestStore(t)

	cases := []struct {
		name, want string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
	}
	for _, tc := range cases {
		if err := s.verifyPragma(tc.name, tc.want); err != nil {
			t.Error(err)
		}
	}
}

func TestSchema_Tables(t *testing.T) {
	s := createTestStore(t)

	expected := map[string][]string{
		"versions": {"id", "field", "key", "vt_from", "vt_to", "tt_from", "tt_to", "payload", "ir_version"},
		"shapes":   {"version_id", "field", "partition", "vt_start", "vt_end", "tt_start", "tt_end"},
	}
	for table, cols := range expected {
		columns := getTableColumns(t, s.db, table)
		for _, col := range cols {
			if !contains(columns, col) {
				t.Errorf("%s table missing column %q", table, col)
			}
		}
	}
}

func TestSchema_Indexes(t *testing.T) {
	s := createTestStore(t)

	if idx := getTableIndexes(t, s.db, "shapes"); !contains(idx, "idx_shapes_valid") || !contains(idx, "idx_shapes_transaction") {
		t.Errorf("shapes indexes = %v", idx)
	}
	if idx := getTableIndexes(t, s.db, "versions"); !contains(idx, "idx_versions_field_key") || !contains(idx, "idx_versions_open") {
		t.Errorf("versions indexes = %v", idx)
	}
}

func TestConstraint_PartitionRange(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`INSERT INTO versions (id, field, key, vt_from, tt_from, ir_version) VALUES ('v1', 'f', 'k', 1, 1, '1')`)
	if err != nil {
		t.Fatalf("insert version: %v", err)
	}
	_, err = s.db.Exec(`INSERT INTO shapes (version_id, field, partition, vt_start, vt_end, tt_start, tt_end) VALUES ('v1', 'f', 5, 1, 1, 1, 1)`)
	if err == nil {
		t.Error("expected CHECK failure for partition 5")
	}
}

func TestConstraint_ShapeRequiresVersion(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`INSERT INTO shapes (version_id, field, partition, vt_start, vt_end, tt_start, tt_end) VALUES ('ghost', 'f', 1, 1, 1, 1, 1)`)
	if err == nil {
		t.Error("expected foreign key failure for unknown version")
	}
}

func TestConstraint_OneOpenVersionPerKey(t *testing.T) {
	s := createTestStore(t)

	_, err := s.db.Exec(`INSERT INTO versions (id, field, key, vt_from, tt_from, ir_version) VALUES ('a', 'f', 'k', 1, 1, '1')`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err = s.db.Exec(`INSERT INTO versions (id, field, key, vt_from, tt_from, ir_version) VALUES ('b', 'f', 'k', 1, 2, '1')`)
	if err == nil {
		t.Error("expected UNIQUE failure for second open version")
	}
}

func TestMigration_SchemaVersion(t *testing.T) {
	s := createTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("user_version: %v", err)
	}
	if version != currentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, currentSchemaVersion)
	}
}

func TestMigration_UpgradeFromV0(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := s.db.Exec("DROP INDEX idx_versions_open"); err != nil {
		t.Fatalf("drop index: %v", err)
	}
	if _, err := s.db.Exec("PRAGMA user_version = 0"); err != nil {
		t.Fatalf("reset user_version: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()

	if !contains(getTableIndexes(t, s.db, "versions"), "idx_versions_open") {
		t.Error("migration did not recreate idx_versions_open")
	}
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("failed to get indexes for %q: %v", table, err)
	}
	defer rows.Close()

	var indexes []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan index name: %v", err)
		}
		indexes = append(indexes, name)
	}
	return indexes
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
