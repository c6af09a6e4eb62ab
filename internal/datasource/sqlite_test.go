package datasource

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
)

func createDB(t *testing.T, schema string, inserts ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "faq.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("schema: %v", err)
	}
	for _, stmt := range inserts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	return path
}

func TestSQLiteSource_OrdersByPosition(t *testing.T) {
	path := createDB(t,
		`CREATE TABLE questions (question TEXT, answer TEXT, position INTEGER)`,
		`INSERT INTO questions VALUES ('third', 'c', 3)`,
		`INSERT INTO questions VALUES ('first', 'a', 1)`,
		`INSERT INTO questions VALUES ('second', 'b', 2)`,
	)

	got, err := NewSQLiteSource(path).FetchQuestions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(got))
	}
	for i, q := range got {
		if q.Question != want[i] {
			t.Errorf("row %d: got %q, want %q", i, q.Question, want[i])
		}
	}
}

func TestSQLiteSource_WithoutPositionUsesRowid(t *testing.T) {
	path := createDB(t,
		`CREATE TABLE questions (question TEXT, answer TEXT)`,
		`INSERT INTO questions VALUES ('one', '1')`,
		`INSERT INTO questions VALUES ('two', NULL)`,
	)

	got, err := NewSQLiteSource(path).FetchQuestions(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Question != "one" || got[1].Question != "two" {
		t.Fatalf("unexpected rows %+v", got)
	}
	if got[1].Answer != "" {
		t.Errorf("NULL answer should read as empty, got %q", got[1].Answer)
	}
}

func TestSQLiteSource_MissingTable(t *testing.T) {
	path := createDB(t, `CREATE TABLE other (x INTEGER)`)
	_, err := NewSQLiteSource(path).FetchQuestions(context.Background())
	var dataErr *DataUnavailableError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataUnavailableError, got %v", err)
	}
}

func TestSQLiteSource_MissingFile(t *testing.T) {
	_, err := NewSQLiteSource(filepath.Join(t.TempDir(), "none.db")).FetchQuestions(context.Background())
	var dataErr *DataUnavailableError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataUnavailableError, got %v", err)
	}
}
