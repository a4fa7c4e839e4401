package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/haasonsaas/embedinfo/pkg/actionsdk"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const chainsSchema = `CREATE TABLE IF NOT EXISTS chains (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL UNIQUE,
	guild_id   TEXT NOT NULL DEFAULT '',
	actions    TEXT NOT NULL,
	created_at BIGINT NOT NULL,
	updated_at BIGINT NOT NULL
)`

// Open returns the store set for driver. The memory driver ignores dsn.
func Open(driver, dsn string, config *SQLConfig) (StoreSet, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStores(), nil
	case DriverSQLite, DriverPostgres:
		return NewSQLStoresFromDSN(driver, dsn, config)
	}
	return StoreSet{}, fmt.Errorf("unsupported storage driver %q", driver)
}

// NewSQLStoresFromDSN opens a SQLite or PostgreSQL database and ensures the
// schema exists.
func NewSQLStoresFromDSN(driver, dsn string, config *SQLConfig) (StoreSet, error) {
	if strings.TrimSpace(dsn) == "" {
		return StoreSet{}, fmt.Errorf("dsn is required")
	}
	if config == nil {
		config = DefaultSQLConfig(driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return StoreSet{}, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), config.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return StoreSet{}, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, chainsSchema); err != nil {
		_ = db.Close()
		return StoreSet{}, fmt.Errorf("create schema: %w", err)
	}

	return StoreSet{
		Chains: &sqlChainStore{db: db, driver: driver},
		closer: db.Close,
	}, nil
}

type sqlChainStore struct {
	db     *sql.DB
	driver string
}

// rebind rewrites ? placeholders to $n for PostgreSQL.
func (s *sqlChainStore) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}

func (s *sqlChainStore) Create(ctx context.Context, chain *Chain) error {
	if chain == nil || chain.Name == "" {
		return fmt.Errorf("chain name is required")
	}
	actions, err := json.Marshal(chain.Actions)
	if err != nil {
		return fmt.Errorf("marshal chain actions: %w", err)
	}
	if chain.ID == "" {
		chain.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if chain.CreatedAt.IsZero() {
		chain.CreatedAt = now
	}
	chain.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, s.rebind(
		`INSERT INTO chains (id, name, guild_id, actions, created_at, updated_at)
		 VALUES (?,?,?,?,?,?)`),
		chain.ID,
		chain.Name,
		chain.GuildID,
		string(actions),
		chain.CreatedAt.UnixMilli(),
		chain.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyExists
		}
		return fmt.Errorf("create chain: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanChain(row rowScanner) (*Chain, error) {
	var chain Chain
	var actions string
	var created, updated int64
	if err := row.Scan(&chain.ID, &chain.Name, &chain.GuildID, &actions, &created, &updated); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(actions), &chain.Actions); err != nil {
		return nil, fmt.Errorf("unmarshal chain actions: %w", err)
	}
	if chain.Actions == nil {
		chain.Actions = []actionsdk.Data{}
	}
	chain.CreatedAt = time.UnixMilli(created).UTC()
	chain.UpdatedAt = time.UnixMilli(updated).UTC()
	return &chain, nil
}

func (s *sqlChainStore) Get(ctx context.Context, name string) (*Chain, error) {
	if name == "" {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT id, name, guild_id, actions, created_at, updated_at
		 FROM chains WHERE name = ?`), name)

	chain, err := scanChain(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get chain: %w", err)
	}
	return chain, nil
}

func (s *sqlChainStore) List(ctx context.Context, guildID string, limit, offset int) ([]*Chain, int, error) {
	args := []any{}
	where := ""
	if guildID != "" {
		args = append(args, guildID)
		where = " WHERE guild_id = ?"
	}

	var total int
	if err := s.db.QueryRowContext(ctx, s.rebind("SELECT count(*) FROM chains"+where), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count chains: %w", err)
	}

	var query strings.Builder
	query.WriteString(`SELECT id, name, guild_id, actions, created_at, updated_at FROM chains`)
	query.WriteString(where)
	query.WriteString(" ORDER BY name")
	if limit > 0 {
		args = append(args, limit)
		query.WriteString(" LIMIT ?")
	}
	if offset > 0 {
		if limit <= 0 && s.driver == DriverSQLite {
			query.WriteString(" LIMIT -1")
		}
		args = append(args, offset)
		query.WriteString(" OFFSET ?")
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query.String()), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list chains: %w", err)
	}
	defer rows.Close()

	chains := []*Chain{}
	for rows.Next() {
		chain, err := scanChain(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan chain: %w", err)
		}
		chains = append(chains, chain)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list chains: %w", err)
	}
	return chains, total, nil
}

func (s *sqlChainStore) Update(ctx context.Context, chain *Chain) error {
	if chain == nil || chain.Name == "" {
		return fmt.Errorf("chain name is required")
	}
	actions, err := json.Marshal(chain.Actions)
	if err != nil {
		return fmt.Errorf("marshal chain actions: %w", err)
	}
	chain.UpdatedAt = time.Now().UTC()

	result, err := s.db.ExecContext(ctx, s.rebind(
		`UPDATE chains SET guild_id = ?, actions = ?, updated_at = ? WHERE name = ?`),
		chain.GuildID,
		string(actions),
		chain.UpdatedAt.UnixMilli(),
		chain.Name,
	)
	if err != nil {
		return fmt.Errorf("update chain: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update chain: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqlChainStore) Delete(ctx context.Context, name string) error {
	if name == "" {
		return ErrNotFound
	}
	result, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM chains WHERE name = ?`), name)
	if err != nil {
		return fmt.Errorf("delete chain: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete chain: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
