package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"citizenhub/internal/complaint"
	apperrors "citizenhub/internal/errors"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// SQL stores complaints in a `complaints` table through database/sql.
//
// Supported drivers (names as registered with database/sql):
//   - "pgx": PostgreSQL via jackc/pgx
//   - "mysql": MySQL via go-sql-driver
//   - "sqlite": SQLite via modernc.org/sqlite (pure Go)
//
// Queries are written with $n placeholders and rebound to ? for MySQL.
type SQL struct {
	db     *sql.DB
	driver string
}

// OpenSQL opens a connection pool, verifies it and creates the schema.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, apperrors.NewStorageError("open "+driver, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, apperrors.NewStorageError("ping "+driver, err)
	}

	s := NewSQL(db, driver)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("✓ Connected to %s complaint store", driver)
	return s, nil
}

// NewSQL wraps an existing pool. The schema is not touched.
func NewSQL(db *sql.DB, driver string) *SQL {
	return &SQL{db: db, driver: driver}
}

// EnsureSchema creates the complaints table when it does not exist.
func (s *SQL) EnsureSchema(ctx context.Context) error {
	const ddl = `CREATE TABLE IF NOT EXISTS complaints (
	id BIGINT PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	category VARCHAR(64) NOT NULL,
	department VARCHAR(64) NOT NULL,
	priority VARCHAR(16) NOT NULL,
	status VARCHAR(16) NOT NULL,
	description TEXT NOT NULL,
	sentiment VARCHAR(16) NOT NULL,
	image VARCHAR(1024) NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return apperrors.NewStorageError("create schema", err)
	}
	return nil
}

// Create inserts a complaint.
func (s *SQL) Create(ctx context.Context, rec complaint.Record) error {
	query := s.rebind(`INSERT INTO complaints
	(id, name, category, department, priority, status, description, sentiment, image)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Name, rec.Category, rec.Department,
		string(rec.Priority), string(rec.Status), rec.Description,
		string(rec.Sentiment), rec.Image,
	)
	if err != nil {
		return apperrors.NewStorageError("insert complaint", err)
	}
	return nil
}

// Get returns the complaint with the given ID.
func (s *SQL) Get(ctx context.Context, id int64) (complaint.Record, error) {
	query := s.rebind(`SELECT id, name, category, department, priority, status, description, sentiment, image
	FROM complaints WHERE id = $1`)

	rec, err := scanRecord(s.db.QueryRowContext(ctx, query, id))
	if stderrors.Is(err, sql.ErrNoRows) {
		return complaint.Record{}, apperrors.NewNotFoundError(strconv.FormatInt(id, 10))
	}
	if err != nil {
		return complaint.Record{}, apperrors.NewStorageError("select complaint", err)
	}
	return rec, nil
}

// Update rewrites the mutable columns of a complaint.
//
// Only status ever changes after creation, but the full row is written so
// the repository contract stays symmetric with Create.
func (s *SQL) Update(ctx context.Context, rec complaint.Record) error {
	query := s.rebind(`UPDATE complaints
	SET name = $1, category = $2, department = $3, priority = $4, status = $5,
	    description = $6, sentiment = $7, image = $8
	WHERE id = $9`)

	res, err := s.db.ExecContext(ctx, query,
		rec.Name, rec.Category, rec.Department, string(rec.Priority),
		string(rec.Status), rec.Description, string(rec.Sentiment), rec.Image,
		rec.ID,
	)
	if err != nil {
		return apperrors.NewStorageError("update complaint", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.NewNotFoundError(rec.IDString())
	}
	return nil
}

// List returns complaints in creation order.
func (s *SQL) List(ctx context.Context) ([]complaint.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, category, department, priority, status, description, sentiment, image
	FROM complaints ORDER BY created_at, id`)
	if err != nil {
		return nil, apperrors.NewStorageError("list complaints", err)
	}
	defer rows.Close()

	var out []complaint.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, apperrors.NewStorageError("scan complaint", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError("iterate complaints", err)
	}
	return out, nil
}

// Ping verifies the database is reachable.
func (s *SQL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the connection pool.
func (s *SQL) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (complaint.Record, error) {
	var (
		rec                         complaint.Record
		priority, status, sentiment string
	)
	err := row.Scan(&rec.ID, &rec.Name, &rec.Category, &rec.Department,
		&priority, &status, &rec.Description, &sentiment, &rec.Image)
	if err != nil {
		return complaint.Record{}, err
	}
	rec.Priority = complaint.Priority(priority)
	rec.Status = complaint.Status(status)
	rec.Sentiment = complaint.Sentiment(sentiment)
	return rec, nil
}

// rebind converts $n placeholders to ? for drivers that need it.
func (s *SQL) rebind(query string) string {
	if s.driver != "mysql" {
		return query
	}
	var b strings.Builder
	b.Grow(len(query))
	for i := 0; i < len(query); i++ {
		if query[i] == '$' {
			j := i + 1
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				j++
			}
			if j > i+1 {
				b.WriteByte('?')
				i = j - 1
				continue
			}
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// String identifies the backend in logs.
func (s *SQL) String() string {
	return fmt.Sprintf("sql(%s)", s.driver)
}
