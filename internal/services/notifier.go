package services

import "context"

// TransferNotifier is told about transfers after they commit. Its errors never
// affect the transfer.
type TransferNotifier interface {
	TransferCompleted(ctx context.Context, userID int, result *TransferResult) error
}

type TransferNotifierFunc func(ctx context.Context, userID int, result *TransferResult) error

func (f TransferNotifierFunc) TransferCompleted(ctx context.Context, userID int, result *TransferResult) error {
	return f(ctx, userID, result)
}
