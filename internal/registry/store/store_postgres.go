package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"zenith/internal/registry/models"
	"zenith/pkg/platform/sentinel"
)

//go:embed schema.sql
var schemaSQL string

const (
	defaultTxTimeout = 5 * time.Second
	uniqueViolation  = "23505"
	projectsNameKey  = "projects_name_key"
)

// Migrate applies the ledger schema. It is idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply ledger schema: %w", err)
	}
	return nil
}

// PostgresLedger persists claims in PostgreSQL.
type PostgresLedger struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db, timeout: defaultTxTimeout}
}

func (l *PostgresLedger) Taken(ctx context.Context) ([]string, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT region FROM claimed_regions ORDER BY region`)
	if err != nil {
		return nil, fmt.Errorf("list claimed regions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan claimed region: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Record inserts the project and its regions in one transaction.
func (l *PostgresLedger) Record(ctx context.Context, project models.Project) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin claim: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	conflicts, err := claimedAmong(ctx, tx, project.Regions)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		return &ConflictError{Regions: conflicts}
	}

	price := project.PriceWei
	if price == "" {
		price = "0"
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (claim_id, name, project_type, regions, price_wei, recorded_at)
		VALUES ($1, $2, $3, $4::text[], $5::numeric, $6)`,
		project.ClaimID, project.Name, project.ProjectType, pq.Array(project.Regions), price, project.RecordedAt)
	if err != nil {
		if isUniqueViolation(err, projectsNameKey) {
			return &ConflictError{NameTaken: project.Name}
		}
		return fmt.Errorf("insert project: %w", err)
	}

	if len(project.Regions) > 0 {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO claimed_regions (region, region_key, claim_id, claimed_at)
			SELECT r, k, $3, $4 FROM unnest($1::text[], $2::text[]) AS t(r, k)`,
			pq.Array(project.Regions), pq.Array(models.RegionKeys(project.Regions)), project.ClaimID, project.RecordedAt)
		if err != nil {
			if isUniqueViolation(err, "") {
				// A concurrent claim won the race for at least one region.
				_ = tx.Rollback()
				lost, lookupErr := claimedAmong(ctx, l.db, project.Regions)
				if lookupErr != nil {
					return lookupErr
				}
				return &ConflictError{Regions: lost}
			}
			return fmt.Errorf("insert claimed regions: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit claim: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Get(ctx context.Context, name string) (models.Project, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT claim_id, name, project_type, regions, price_wei::text, recorded_at
		FROM projects WHERE name = $1`, name)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Project{}, sentinel.ErrNotFound
		}
		return models.Project{}, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (l *PostgresLedger) List(ctx context.Context) ([]models.Project, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT claim_id, name, project_type, regions, price_wei::text, recorded_at
		FROM projects ORDER BY recorded_at, name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(s scanner) (models.Project, error) {
	var p models.Project
	var regions []string
	if err := s.Scan(&p.ClaimID, &p.Name, &p.ProjectType, pq.Array(&regions), &p.PriceWei, &p.RecordedAt); err != nil {
		return models.Project{}, err
	}
	p.Regions = regions
	p.RecordedAt = p.RecordedAt.UTC()
	return p, nil
}

func claimedAmong(ctx context.Context, q queryer, regions []string) ([]string, error) {
	if len(regions) == 0 {
		return nil, nil
	}
	rows, err := q.QueryContext(ctx, `SELECT region FROM claimed_regions WHERE region = ANY($1::text[])`, pq.Array(regions))
	if err != nil {
		return nil, fmt.Errorf("check claimed regions: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scan claimed region: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
