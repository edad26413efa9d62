package contracts

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// ChainError is a contract call or transaction that the chain rejected,
// including transport failures on the way there.
type ChainError struct {
	Op     string
	Reason string
	TxHash common.Hash
	Err    error
}

func (e *ChainError) Error() string {
	msg := e.Op
	if msg == "" {
		msg = "chain call"
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	} else {
		msg = msg + " failed"
	}
	if e.TxHash != (common.Hash{}) {
		msg = fmt.Sprintf("%s (tx %s)", msg, e.TxHash.Hex())
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err)
	}
	return msg
}

func (e *ChainError) Unwrap() error {
	return e.Err
}

// UnconfirmedError is a submitted transaction whose wait ran out. It may
// still be mined, TxHash lets the caller follow it.
type UnconfirmedError struct {
	TxHash common.Hash
	Err    error
}

func (e *UnconfirmedError) Error() string {
	return fmt.Sprintf("transaction %s was not confirmed in time: %s", e.TxHash.Hex(), e.Err)
}

func (e *UnconfirmedError) Unwrap() error {
	return e.Err
}

// newChainError attributes err to op. An existing ChainError is kept and
// its stage, if any, is appended to op.
func newChainError(op string, err error) *ChainError {
	var ce *ChainError
	if errors.As(err, &ce) {
		if ce.Op == "" {
			ce.Op = op
		} else if ce.Op != op {
			ce.Op = op + " " + ce.Op
		}
		return ce
	}
	return &ChainError{Op: op, Reason: RevertReason(err), Err: err}
}

// RevertReason extracts the Error(string) reason a node attached to a
// failed call, or returns "" when there is none.
func RevertReason(err error) string {
	var de rpc.DataError
	if !errors.As(err, &de) {
		return ""
	}
	var data []byte
	switch v := de.ErrorData().(type) {
	case string:
		decoded, derr := hexutil.Decode(v)
		if derr != nil {
			return ""
		}
		data = decoded
	case []byte:
		data = v
	default:
		return ""
	}
	reason, uerr := abi.UnpackRevert(data)
	if uerr != nil {
		return ""
	}
	return reason
}
