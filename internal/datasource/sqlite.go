package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/vanderheijden86/faqview/pkg/model"
)

// SQLiteSource reads questions from a SQLite database with a table
//
//	questions(question TEXT, answer TEXT [, position INTEGER])
//
// Rows are ordered by position when that column exists, then by rowid.
type SQLiteSource struct {
	Path string
}

// NewSQLiteSource returns a source for the database at path.
func NewSQLiteSource(path string) *SQLiteSource {
	return &SQLiteSource{Path: path}
}

func (s *SQLiteSource) String() string { return s.Path }

// FetchQuestions opens the database read-only, reads every row and closes it.
func (s *SQLiteSource) FetchQuestions(ctx context.Context) ([]model.Question, error) {
	// mode=ro would otherwise surface a missing file as an opaque query error
	if _, err := os.Stat(s.Path); err != nil {
		return nil, unavailable(s.Path, err)
	}

	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", s.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, unavailable(s.Path, fmt.Errorf("cannot open database: %w", err))
	}
	defer db.Close()

	ordered, err := hasColumn(ctx, db, "questions", "position")
	if err != nil {
		return nil, unavailable(s.Path, err)
	}

	query := `SELECT question, answer FROM questions ORDER BY rowid`
	if ordered {
		query = `SELECT question, answer FROM questions ORDER BY position, rowid`
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable(s.Path, fmt.Errorf("querying questions: %w", err))
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q, a sql.NullString
		if err := rows.Scan(&q, &a); err != nil {
			return nil, fmt.Errorf("%s: scanning row: %w", s.Path, err)
		}
		questions = append(questions, model.Question{Question: q.String, Answer: a.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: reading rows: %w", s.Path, err)
	}
	return questions, nil
}

func hasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("inspecting %s: %w", table, err)
	}
	defer rows.Close()

	found := false
	seen := false
	for rows.Next() {
		seen = true
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("inspecting %s: %w", table, err)
		}
		if strings.EqualFold(name, column) {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("inspecting %s: %w", table, err)
	}
	if !seen {
		return false, fmt.Errorf("no %s table", table)
	}
	return found, nil
}
