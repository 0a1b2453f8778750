package mysqlrepo

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/milad/meterreads/internal/domain"
	"github.com/milad/meterreads/internal/repo"
)

var _ repo.ReadingRepository = (*Repo)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS meter_reads (
	id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	cumulative   DOUBLE          NOT NULL,
	reading_date DATETIME(3)     NOT NULL,
	unit         VARCHAR(16)     NOT NULL,
	INDEX idx_meter_reads_reading_date (reading_date)
)`

// Repo stores readings in a MySQL/MariaDB table.
type Repo struct {
	db *sql.DB
}

// Open accepts mariadb:// or mysql:// URLs as well as native driver DSNs.
// It returns the DSN actually handed to the driver.
func Open(dsn string) (*sql.DB, string, error) {
	mysqlDSN, err := toMySQLDSN(dsn)
	if err != nil {
		return nil, "", err
	}
	db, err := sql.Open("mysql", mysqlDSN)
	if err != nil {
		return nil, "", err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, mysqlDSN, nil
}

func toMySQLDSN(dsn string) (string, error) {
	if strings.HasPrefix(dsn, "mariadb://") || strings.HasPrefix(dsn, "mysql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return "", fmt.Errorf("parse dsn: %w", err)
		}
		user := ""
		pass := ""
		if u.User != nil {
			user = u.User.Username()
			pw, _ := u.User.Password()
			pass = pw
		}
		host := u.Host
		db := strings.TrimPrefix(u.Path, "/")
		if user == "" || host == "" || db == "" {
			return "", fmt.Errorf("incomplete dsn (user/host/db)")
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&interpolateParams=true",
			user, pass, host, db), nil
	}
	return dsn, nil
}

func New(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// EnsureSchema creates the meter_reads table if it does not exist.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create meter_reads: %w", err)
	}
	return nil
}

func (r *Repo) List(ctx context.Context, startInclusive *time.Time, endExclusive *time.Time) ([]domain.Reading, error) {
	q, args := buildListQuery(startInclusive, endExclusive)
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query meter_reads: %w", err)
	}
	defer rows.Close()

	out := []domain.Reading{}
	for rows.Next() {
		var rd domain.Reading
		if err := rows.Scan(&rd.Cumulative, &rd.ReadingDate, &rd.Unit); err != nil {
			return nil, fmt.Errorf("scan meter_reads: %w", err)
		}
		rd.ReadingDate = rd.ReadingDate.UTC()
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meter_reads: %w", err)
	}
	return out, nil
}

func (r *Repo) Insert(ctx context.Context, readings ...domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO meter_reads (cumulative, reading_date, unit) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rd := range readings {
		if _, err := stmt.ExecContext(ctx, rd.Cumulative, rd.ReadingDate.UTC(), rd.Unit); err != nil {
			return fmt.Errorf("insert reading %s: %w", domain.FormatReadingDate(rd.ReadingDate), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) Close() error {
	return r.db.Close()
}

func buildListQuery(startInclusive, endExclusive *time.Time) (string, []any) {
	var (
		where []string
		args  []any
	)
	if startInclusive != nil {
		where = append(where, "reading_date >= ?")
		args = append(args, startInclusive.UTC())
	}
	if endExclusive != nil {
		where = append(where, "reading_date < ?")
		args = append(args, endExclusive.UTC())
	}

	q := "SELECT cumulative, reading_date, unit FROM meter_reads"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	// id breaks ties so equal dates keep insertion order.
	q += " ORDER BY reading_date ASC, id ASC"
	return q, args
}
