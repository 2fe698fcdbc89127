package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

// OperationKind labels the ledger operation a receipt records.
type OperationKind string

const (
	OpDeposit        OperationKind = "DEPOSIT"
	OpWithdraw       OperationKind = "WITHDRAW"
	OpSwap           OperationKind = "SWAP"
	OpClaimRewards   OperationKind = "CLAIM_REWARDS"
	OpRebalance      OperationKind = "REBALANCE"
	OpDistributeFees OperationKind = "DISTRIBUTE_FEES"
)

// OperationReceipt records the outcome of a single ledger operation for
// auditing and the dashboard. ReceiptID is assigned by the database.
type OperationReceipt struct {
	ReceiptID      int64         `json:"receipt_id,omitempty"`
	OperationID    string        `json:"operation_id"` // UUID threaded through logs
	Kind           OperationKind `json:"kind"`
	SourceCurrency string        `json:"source_currency"`
	TargetCurrency string        `json:"target_currency,omitempty"`
	Provider       string        `json:"provider,omitempty"`
	AmountIn       sdkmath.Int   `json:"amount_in"`
	AmountOut      sdkmath.Int   `json:"amount_out"`
	Fee            sdkmath.Int   `json:"fee"`
	Success        bool          `json:"success"`
	Message        string        `json:"message,omitempty"`
	Timestamp      time.Time     `json:"timestamp"`
}
