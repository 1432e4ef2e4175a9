package domain

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// Precondition errors. Reported immediately, never retried by the core.
	ErrWalletNotConnected = errors.New("wallet not connected")
	ErrAddressNotFound    = errors.New("contract address not found")
	ErrInvalidAmount      = errors.New("amount must be positive")

	// Insufficient-resource errors.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrApprovalRequired means an approval transaction was submitted and the
	// trade must be re-invoked by the caller once it confirms.
	ErrApprovalRequired = errors.New("approval required")

	// Route-unavailable errors.
	ErrNoRoute    = errors.New("no route found")
	ErrNoPoolData = errors.New("no pool data available")

	// Submission errors.
	ErrSubmissionFailed = errors.New("transaction submission failed")
	// ErrPartialTrade marks the non-atomic window of the EVM pool protocol:
	// the pre-transfer landed but the swap call did not, leaving funds at the
	// pool address. Not auto-recoverable; must stay distinguishable.
	ErrPartialTrade = errors.New("partial trade: funds transferred but swap failed")

	// ErrContextDone classifies an executor failure observed after the
	// invocation's deadline expired or its context was cancelled.
	ErrContextDone = errors.New("context cancelled")
)
