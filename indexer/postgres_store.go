package indexer

import (
	"context"
	"strconv"

	"github.com/iov-one/ledger/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists records in a PostgreSQL table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// Value is NUMERIC because wei amounts do not fit a signed BIGINT.
const createTableSQL = `
CREATE TABLE IF NOT EXISTS escrows (
    id TEXT PRIMARY KEY,
    address TEXT NOT NULL,
    arbiter TEXT NOT NULL,
    beneficiary TEXT NOT NULL,
    depositor TEXT NOT NULL,
    value NUMERIC(20, 0) NOT NULL,
    approved BOOLEAN NOT NULL,
    height BIGINT NOT NULL
);
`

// NewPostgresStore connects to Postgres using the DSN and ensures the table exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.Wrap(errors.ErrInput, "postgres dsn is empty")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "connect: %s", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "ping: %s", err)
	}

	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "create table: %s", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (p *PostgresStore) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

// Ping checks the database connection.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStore) Upsert(ctx context.Context, r Record) error {
	_, err := p.pool.Exec(ctx, `
INSERT INTO escrows (id, address, arbiter, beneficiary, depositor, value, approved, height)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
ON CONFLICT (id) DO UPDATE
SET address = EXCLUDED.address,
    arbiter = EXCLUDED.arbiter,
    beneficiary = EXCLUDED.beneficiary,
    depositor = EXCLUDED.depositor,
    value = EXCLUDED.value,
    approved = escrows.approved OR EXCLUDED.approved,
    height = GREATEST(escrows.height, EXCLUDED.height)
`, r.ID, r.Address, r.Arbiter, r.Beneficiary, r.Depositor,
		strconv.FormatUint(r.Value, 10), r.Approved, r.Height)
	if err != nil {
		return errors.Wrapf(errors.ErrDatabase, "upsert escrow %s: %s", r.ID, err)
	}
	return nil
}

const selectSQL = `
SELECT id, address, arbiter, beneficiary, depositor, value::text, approved, height
FROM escrows
`

func (p *PostgresStore) Get(ctx context.Context, id string) (*Record, error) {
	r, err := scanRecord(p.pool.QueryRow(ctx, selectSQL+"WHERE id = $1", id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.Wrapf(errors.ErrNotFound, "escrow %s", id)
		}
		return nil, errors.Wrapf(errors.ErrDatabase, "get escrow %s: %s", id, err)
	}
	return r, nil
}

func (p *PostgresStore) List(ctx context.Context) ([]Record, error) {
	rows, err := p.pool.Query(ctx, selectSQL+"ORDER BY id")
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "list escrows: %s", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "scan escrow: %s", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "list escrows: %s", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (*Record, error) {
	var (
		r     Record
		value string
	)
	if err := row.Scan(&r.ID, &r.Address, &r.Arbiter, &r.Beneficiary, &r.Depositor, &value, &r.Approved, &r.Height); err != nil {
		return nil, err
	}
	v, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, err
	}
	r.Value = v
	return &r, nil
}
