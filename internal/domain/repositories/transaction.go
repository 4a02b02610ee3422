package repositories

import "context"

// TxFn is a function that runs within a transaction
type TxFn func(ctx context.Context) error

// TransactionManager handles database transactions.
// ExecTx joins the transaction already carried by ctx, if any, so services
// can compose each other's transactional operations.
type TransactionManager interface {
	// ExecTx executes a function within a transaction
	ExecTx(ctx context.Context, fn TxFn) error

	// ExecReadTx runs fn against one read-only snapshot. It joins the
	// transaction already carried by ctx, if any.
	ExecReadTx(ctx context.Context, fn TxFn) error
}

// ScopeSerializer serializes writers on scope lock keys across processes for
// the remainder of the transaction carried by ctx.
type ScopeSerializer interface {
	SerializeScopes(ctx context.Context, lockKeys ...string) error
}
