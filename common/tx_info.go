package common

import (
	"github.com/ethereum/go-ethereum/core/types"
)

type TxStatus string

const (
	TxStatusError    TxStatus = "error"
	TxStatusNotFound TxStatus = "notfound"
	TxStatusPending  TxStatus = "pending"
	TxStatusDone     TxStatus = "done"
	TxStatusReverted TxStatus = "reverted"
	// TxStatusLost means the tx never showed up on any node in time.
	TxStatusLost TxStatus = "lost"
)

type TxInfo struct {
	Status  TxStatus
	Tx      *types.Transaction
	Receipt *types.Receipt
}
