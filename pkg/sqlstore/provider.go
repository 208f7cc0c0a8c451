package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
)

type ConnectConfig interface {
	FormatDSN() string
}

// Executor is satisfied by both *sqlx.DB and *sqlx.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type txKey struct{}

type SqlProvider struct {
	master  *sqlx.DB
	replica []*sqlx.DB
	next    atomic.Uint64
}

func mustConnect(cfg ConnectConfig) *sqlx.DB {
	db, err := sqlx.Connect("postgres", cfg.FormatDSN())
	if err != nil {
		panic(fmt.Errorf("failed to connect postgres: %w", err))
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)
	return db
}

func MustSetupProvider(master ConnectConfig, replica ...ConnectConfig) *SqlProvider {
	p := &SqlProvider{
		master: mustConnect(master),
	}
	for _, r := range replica {
		p.replica = append(p.replica, mustConnect(r))
	}
	return p
}

// NewProvider wraps an existing connection, mostly for tests and tools.
func NewProvider(master *sqlx.DB, replica ...*sqlx.DB) *SqlProvider {
	return &SqlProvider{master: master, replica: replica}
}

// GetMaster returns the transaction bound to ctx, or the master connection.
func (p *SqlProvider) GetMaster(ctx context.Context) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return p.master
}

// GetReplica reads through the transaction bound to ctx so a transaction sees
// its own writes, otherwise it round-robins replicas.
func (p *SqlProvider) GetReplica(ctx context.Context) Executor {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	if len(p.replica) == 0 {
		return p.master
	}
	return p.replica[p.next.Add(1)%uint64(len(p.replica))]
}

func (p *SqlProvider) DB() *sqlx.DB {
	return p.master
}

// Transaction runs f inside one transaction. Nested calls join the outer
// transaction. Any error or panic from f rolls everything back.
func (p *SqlProvider) Transaction(ctx context.Context, f func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return f(ctx)
	}

	tx, err := p.master.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if err = f(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (p *SqlProvider) Close() error {
	for _, r := range p.replica {
		r.Close()
	}
	return p.master.Close()
}
