package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// 再試行対象となる SQLSTATE です。
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// DefaultWriteRetries は読み書きトランザクションの直列化失敗時の既定の再試行回数です。
// 既定では再試行せず、失敗はそのまま呼び出し元へ返ります。
const DefaultWriteRetries = 0

type txKey struct{}

// txStarter は pgxpool.Pool と pgxmock が満たすトランザクション開始の抽象です。
type txStarter interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TransactionManager は社員サービスの作業単位を pgx のトランザクションに対応付けます。
// 読み取りは ReadOnly、作成は ReadWrite で実行されます。WithWriteRetries を指定した場合のみ
// ReadWrite は直列化失敗時に再実行されます。
type TransactionManager struct {
	pool         txStarter
	logger       *zap.Logger
	readIso      pgx.TxIsoLevel
	writeIso     pgx.TxIsoLevel
	writeRetries int
}

// Option は TransactionManager の設定を変更します。
type Option func(*TransactionManager)

// WithLogger はロールバック失敗や再試行を記録するロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(m *TransactionManager) {
		if logger != nil {
			m.logger = logger.Named("postgres.tx")
		}
	}
}

// WithIsolation は読み取り・読み書きそれぞれの分離レベルを設定します。空文字はサーバー既定です。
func WithIsolation(read, write pgx.TxIsoLevel) Option {
	return func(m *TransactionManager) {
		m.readIso = read
		m.writeIso = write
	}
}

// WithWriteRetries は直列化失敗時の再試行回数を設定します。
func WithWriteRetries(n int) Option {
	return func(m *TransactionManager) {
		if n >= 0 {
			m.writeRetries = n
		}
	}
}

// NewTransactionManager は TransactionManager を生成します。pool が nil の場合は nil を返します。
func NewTransactionManager(pool txStarter, opts ...Option) *TransactionManager {
	if pool == nil {
		return nil
	}
	m := &TransactionManager{
		pool:         pool,
		logger:       zap.NewNop(),
		writeRetries: DefaultWriteRetries,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithinReadOnly は読み取り専用トランザクション内で fn を実行します。
func (m *TransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly, IsoLevel: m.readIso}, 0, fn)
}

// WithinReadWrite は読み書きトランザクション内で fn を実行します。
func (m *TransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if m == nil {
		return fn(ctx)
	}
	return m.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite, IsoLevel: m.writeIso}, m.writeRetries, fn)
}

func (m *TransactionManager) run(ctx context.Context, opts pgx.TxOptions, retries int, fn func(context.Context) error) error {
	if fn == nil {
		return errors.New("postgres: transaction function is required")
	}

	// 外側のトランザクションがあればそれに参加する
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	for attempt := 0; ; attempt++ {
		err := m.once(ctx, opts, fn)
		if err == nil || attempt >= retries || !isRetryable(err) || ctx.Err() != nil {
			return err
		}
		m.logger.Warn("retrying transaction",
			zap.Int("attempt", attempt+1),
			zap.String("access_mode", string(opts.AccessMode)),
			zap.Error(err),
		)
	}
}

func (m *TransactionManager) once(ctx context.Context, opts pgx.TxOptions, fn func(context.Context) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("postgres: begin tx: %w", err)
	}

	done := false
	defer func() {
		if done {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			m.logger.Error("rollback failed", zap.Error(rbErr))
			err = errors.Join(err, fmt.Errorf("postgres: rollback: %w", rbErr))
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	// コミット失敗後のトランザクションは既に閉じている
	done = true
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == sqlStateSerializationFailure || pgErr.Code == sqlStateDeadlockDetected
}

func txFromContext(ctx context.Context) (pgx.Tx, bool) {
	if ctx == nil {
		return nil, false
	}
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}

// Queryer は pgx.Tx および pgxpool.Pool と互換性のあるクエリ実行インターフェースです。
type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// QueryerFromContext は進行中のトランザクションがあればそれを、なければ fallback を返します。
func QueryerFromContext(ctx context.Context, fallback Queryer) Queryer {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return fallback
}
