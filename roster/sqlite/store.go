// Package sqlite provides a SQLite-backed roster store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/javajack/docfill/internal/sqlitemigrate"
	"github.com/javajack/docfill/roster"
	"github.com/javajack/docfill/roster/sqlite/migrations"
)

const memberColumns = `RANK, FIRSTNAME, LASTNAME, MI, EDIPI, DOR, PMOS, BILMOS`

// Store persists the roster in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ roster.Store = (*Store)(nil)

// Open opens the SQLite database at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(ctx, sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// CreateMember inserts a new member. A duplicate EDIPI is roster.ErrAlreadyExists.
func (s *Store) CreateMember(ctx context.Context, m roster.Member) error {
	m = m.Normalize()
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO roster (`+memberColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Rank, m.FirstName, m.LastName, m.MI, m.EDIPI, m.DOR, m.PMOS, m.BilMOS,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: edipi %s", roster.ErrAlreadyExists, m.EDIPI)
		}
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

// UpdateMember replaces every field of the member with m.EDIPI.
func (s *Store) UpdateMember(ctx context.Context, m roster.Member) error {
	m = m.Normalize()
	if err := m.Validate(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE roster
		    SET RANK = ?, FIRSTNAME = ?, LASTNAME = ?, MI = ?, DOR = ?, PMOS = ?, BILMOS = ?
		  WHERE EDIPI = ?`,
		m.Rank, m.FirstName, m.LastName, m.MI, m.DOR, m.PMOS, m.BilMOS, m.EDIPI,
	)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	return requireRow(res, "update member")
}

// DeleteMember removes the member with edipi.
func (s *Store) DeleteMember(ctx context.Context, edipi string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM roster WHERE EDIPI = ?`, strings.TrimSpace(edipi))
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return requireRow(res, "delete member")
}

// GetMember returns the member with edipi.
func (s *Store) GetMember(ctx context.Context, edipi string) (roster.Member, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM roster WHERE EDIPI = ?`, strings.TrimSpace(edipi))
	m, err := scanMember(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roster.Member{}, roster.ErrNotFound
		}
		return roster.Member{}, fmt.Errorf("get member: %w", err)
	}
	return m, nil
}

// ListMembers returns the whole roster ordered by last and first name.
func (s *Store) ListMembers(ctx context.Context) ([]roster.Member, error) {
	return s.queryMembers(ctx, `SELECT `+memberColumns+` FROM roster ORDER BY LASTNAME, FIRSTNAME, EDIPI`)
}

// ListMembersByRank returns members holding rank. The comparison is case-insensitive.
func (s *Store) ListMembersByRank(ctx context.Context, rank string) ([]roster.Member, error) {
	return s.queryMembers(ctx,
		`SELECT `+memberColumns+` FROM roster WHERE RANK = ? ORDER BY LASTNAME, FIRSTNAME, EDIPI`,
		strings.ToUpper(strings.TrimSpace(rank)))
}

// ListMembersByMOS returns members assigned to the billet MOS.
func (s *Store) ListMembersByMOS(ctx context.Context, bilmos string) ([]roster.Member, error) {
	return s.queryMembers(ctx,
		`SELECT `+memberColumns+` FROM roster WHERE BILMOS = ? ORDER BY LASTNAME, FIRSTNAME, EDIPI`,
		strings.TrimSpace(bilmos))
}

// CreateMOS inserts a new MOS description.
func (s *Store) CreateMOS(ctx context.Context, m roster.MOS) error {
	m = m.Normalize()
	if err := m.Validate(); err != nil {
		return err
	}
	_, err := s.sqlDB.ExecContext(ctx, `INSERT INTO mos (BILMOS, DESCRIPTION) VALUES (?, ?)`, m.BilMOS, m.Description)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bilmos %s", roster.ErrAlreadyExists, m.BilMOS)
		}
		return fmt.Errorf("create mos: %w", err)
	}
	return nil
}

// UpdateMOS replaces the description for m.BilMOS.
func (s *Store) UpdateMOS(ctx context.Context, m roster.MOS) error {
	m = m.Normalize()
	if err := m.Validate(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE mos SET DESCRIPTION = ? WHERE BILMOS = ?`, m.Description, m.BilMOS)
	if err != nil {
		return fmt.Errorf("update mos: %w", err)
	}
	return requireRow(res, "update mos")
}

// DeleteMOS removes the description for bilmos.
func (s *Store) DeleteMOS(ctx context.Context, bilmos string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM mos WHERE BILMOS = ?`, strings.TrimSpace(bilmos))
	if err != nil {
		return fmt.Errorf("delete mos: %w", err)
	}
	return requireRow(res, "delete mos")
}

// GetMOS returns the description for bilmos.
func (s *Store) GetMOS(ctx context.Context, bilmos string) (roster.MOS, error) {
	var m roster.MOS
	err := s.sqlDB.QueryRowContext(ctx,
		`SELECT BILMOS, DESCRIPTION FROM mos WHERE BILMOS = ?`, strings.TrimSpace(bilmos),
	).Scan(&m.BilMOS, &m.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roster.MOS{}, roster.ErrNotFound
		}
		return roster.MOS{}, fmt.Errorf("get mos: %w", err)
	}
	return m, nil
}

// ListMOS returns every MOS description ordered by code.
func (s *Store) ListMOS(ctx context.Context) ([]roster.MOS, error) {
	rows, err := s.sqlDB.QueryContext(ctx, `SELECT BILMOS, DESCRIPTION FROM mos ORDER BY BILMOS`)
	if err != nil {
		return nil, fmt.Errorf("list mos: %w", err)
	}
	defer rows.Close()

	out := []roster.MOS{}
	for rows.Next() {
		var m roster.MOS
		if err := rows.Scan(&m.BilMOS, &m.Description); err != nil {
			return nil, fmt.Errorf("scan mos: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mos: %w", err)
	}
	return out, nil
}

// Tables lists user tables, excluding SQLite internals and the migration ledger.
func (s *Store) Tables(ctx context.Context) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT name FROM sqlite_master
		  WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name != 'schema_migrations'
		  ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return out, nil
}

func (s *Store) queryMembers(ctx context.Context, query string, args ...any) ([]roster.Member, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := []roster.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate members: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (roster.Member, error) {
	var m roster.Member
	var mi sql.NullString
	if err := row.Scan(&m.Rank, &m.FirstName, &m.LastName, &mi, &m.EDIPI, &m.DOR, &m.PMOS, &m.BilMOS); err != nil {
		return roster.Member{}, err
	}
	m.MI = mi.String
	return m, nil
}

func requireRow(res sql.Result, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return roster.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
