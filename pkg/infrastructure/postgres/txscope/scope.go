// Package txscope runs a unit of work inside a gorm transaction that commits
// when the work succeeds and rolls back when it fails.
//
// A Session carries two deferred lists. Post-commit actions run in a fresh
// transaction only after the owning transaction has committed. Cleanup filters
// delete rows by primary key in fresh transactions only when the scope fails.
// Both are best effort: failures are logged and never retried.
package txscope

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tokamak-network/frontend-deploy/internal/logger"
	"github.com/tokamak-network/frontend-deploy/pkg/infrastructure/postgres/schemas"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

var ErrUnknownTable = errors.New("unknown table")

const lockStatement = "LOCK TABLE %s IN ACCESS EXCLUSIVE MODE"

type options struct {
	conn           *gorm.DB
	manual         bool
	isolation      sql.IsolationLevel
	lockTargets    []interface{}
	expungeOnClose bool
}

type Option func(*options)

// WithConnection reuses an existing connection or transaction. The scope then
// owns nothing to commit or roll back.
func WithConnection(conn *gorm.DB) Option {
	return func(o *options) { o.conn = conn }
}

// WithManualTransaction runs the work without a wrapping transaction.
func WithManualTransaction() Option {
	return func(o *options) { o.manual = true }
}

func WithIsolationLevel(level sql.IsolationLevel) Option {
	return func(o *options) { o.isolation = level }
}

// WithLockTables takes gorm models or table names whose tables are locked
// exclusively for the lifetime of the transaction.
func WithLockTables(tables ...interface{}) Option {
	return func(o *options) { o.lockTargets = append(o.lockTargets, tables...) }
}

// WithExpungeOnClose reloads every tracked entity from storage after commit.
func WithExpungeOnClose() Option {
	return func(o *options) { o.expungeOnClose = true }
}

type Scope struct {
	db             *gorm.DB
	conn           *gorm.DB
	manual         bool
	txOptions      *sql.TxOptions
	lockTables     []string
	expungeOnClose bool
}

func New(db *gorm.DB, opts ...Option) (*Scope, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	lockTables, err := resolveLockTables(o.lockTargets)
	if err != nil {
		return nil, err
	}

	s := &Scope{
		db:             db,
		conn:           o.conn,
		manual:         o.manual,
		lockTables:     lockTables,
		expungeOnClose: o.expungeOnClose,
	}
	if o.isolation != sql.LevelDefault {
		s.txOptions = &sql.TxOptions{Isolation: o.isolation}
	}
	return s, nil
}

// Run executes fn inside the scope. The error returned by fn (or a panic) is
// propagated unchanged after rollback and cleanup.
func (s *Scope) Run(ctx context.Context, fn func(*Session) error) error {
	sess, owned, err := s.acquire(ctx)
	if err != nil {
		return err
	}

	// Deferred work must survive cancellation of the caller's context.
	detached := context.WithoutCancel(ctx)

	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			s.abort(detached, sess, owned)
			panic(p)
		}
	}()

	if err := s.applyLocks(sess, owned); err != nil {
		s.abort(detached, sess, owned)
		return fmt.Errorf("failed to lock tables: %w", err)
	}

	if err := fn(sess); err != nil {
		s.abort(detached, sess, owned)
		return err
	}

	if owned {
		if err := sess.DB.Commit().Error; err != nil {
			s.abort(detached, sess, owned)
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
	}
	committed = true

	if s.expungeOnClose {
		s.refresh(detached, sess)
	}
	s.runPostCommit(detached, sess)
	return nil
}

func (s *Scope) acquire(ctx context.Context) (*Session, bool, error) {
	switch {
	case s.conn != nil:
		return newSession(s.conn.WithContext(ctx)), false, nil
	case s.manual:
		return newSession(s.db.WithContext(ctx)), false, nil
	}

	var tx *gorm.DB
	if s.txOptions != nil {
		tx = s.db.WithContext(ctx).Begin(s.txOptions)
	} else {
		tx = s.db.WithContext(ctx).Begin()
	}
	if tx.Error != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}
	return newSession(tx), true, nil
}

func (s *Scope) applyLocks(sess *Session, owned bool) error {
	if len(s.lockTables) == 0 {
		return nil
	}
	// LOCK TABLE is only valid inside a transaction block.
	if !owned && s.conn == nil {
		return errors.New("table locks require a transaction")
	}
	if sess.DB.Dialector.Name() != "postgres" {
		logger.Debug("skipping table lock on non-postgres dialect",
			zap.String("dialect", sess.DB.Dialector.Name()),
			zap.Strings("tables", s.lockTables))
		return nil
	}
	return sess.DB.Exec(fmt.Sprintf(lockStatement, strings.Join(s.lockTables, ", "))).Error
}

func (s *Scope) abort(ctx context.Context, sess *Session, owned bool) {
	if owned {
		if err := sess.DB.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Error("failed to rollback transaction", zap.Error(err))
		}
	}
	s.applyCleanupFilters(ctx, sess)
}

func (s *Scope) applyCleanupFilters(ctx context.Context, sess *Session) {
	for _, filter := range sess.cleanup {
		tx := s.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			logger.Error("failed to begin cleanup transaction", zap.Error(tx.Error))
			return
		}
		if err := tx.Delete(filter.model, filter.ids).Error; err != nil {
			tx.Rollback()
			logger.Error("cleanup filter failed",
				zap.String("model", fmt.Sprintf("%T", filter.model)),
				zap.Int64s("ids", filter.ids),
				zap.Error(err))
			continue
		}
		if err := tx.Commit().Error; err != nil {
			logger.Error("failed to commit cleanup transaction", zap.Error(err))
		}
	}
}

func (s *Scope) refresh(ctx context.Context, sess *Session) {
	fresh := s.db.WithContext(ctx).Session(&gorm.Session{NewDB: true})
	for _, obj := range sess.tracked {
		if err := fresh.First(obj).Error; err != nil {
			logger.Warn("failed to refresh tracked entity",
				zap.String("model", fmt.Sprintf("%T", obj)),
				zap.Error(err))
		}
	}
	sess.tracked = nil
}

func (s *Scope) runPostCommit(ctx context.Context, sess *Session) {
	if len(sess.postCommit) == 0 {
		return
	}
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		logger.Error("failed to begin post-commit transaction", zap.Error(tx.Error))
		return
	}
	for _, action := range sess.postCommit {
		if err := action(tx); err != nil {
			tx.Rollback()
			logger.Error("post-commit action failed", zap.Error(err))
			return
		}
	}
	if err := tx.Commit().Error; err != nil {
		logger.Error("failed to commit post-commit transaction", zap.Error(err))
	}
}

func resolveLockTables(targets []interface{}) ([]string, error) {
	if len(targets) == 0 {
		return nil, nil
	}
	known := schemas.TableNames()
	seen := make(map[string]struct{}, len(targets))
	tables := make([]string, 0, len(targets))
	for _, target := range targets {
		var name string
		switch t := target.(type) {
		case string:
			name = t
		case schema.Tabler:
			name = t.TableName()
		default:
			return nil, fmt.Errorf("%w: %T", ErrUnknownTable, target)
		}
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTable, name)
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		tables = append(tables, name)
	}
	return tables, nil
}
