package services

import "errors"

var (
	// ErrInsufficientBalance means an expense (or a reversal) would drive a
	// wallet balance below zero. The wallet is left unmodified.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrWalletNotFound means the referenced wallet does not exist or is not
	// owned by the caller, including the case where no default wallet exists.
	ErrWalletNotFound = errors.New("wallet not found")

	// ErrTransactionNotFound means the transaction does not exist or is not
	// owned by the caller.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrScheduledNotFound means the scheduled transaction does not exist or
	// is not owned by the caller.
	ErrScheduledNotFound = errors.New("scheduled transaction not found")

	// ErrDuplicateDefaultWallet means the unique default-wallet constraint
	// was violated.
	ErrDuplicateDefaultWallet = errors.New("user already has a default wallet")
)
