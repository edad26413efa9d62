package monitor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	nnscommon "github.com/tranvictor/nns/common"
)

// ErrUnconfirmed means the wait ended before the tx reached a final status.
// The tx may still be mined later.
var ErrUnconfirmed = errors.New("transaction not confirmed in time")

const (
	DefaultPollInterval = 5 * time.Second
	// DefaultLostAfter is how long a tx may stay unknown to every node
	// before it is considered dropped.
	DefaultLostAfter = 3 * time.Minute
)

type TxInfoReader interface {
	TxInfoFromHash(ctx context.Context, hash common.Hash) (nnscommon.TxInfo, error)
}

type TxMonitor struct {
	reader    TxInfoReader
	interval  time.Duration
	lostAfter time.Duration
	maxWait   time.Duration
}

// NewGenericTxMonitor polls r every interval. A non zero maxWait bounds
// every Wait on top of the caller's context.
func NewGenericTxMonitor(r TxInfoReader, interval, maxWait time.Duration) *TxMonitor {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &TxMonitor{
		reader:    r,
		interval:  interval,
		lostAfter: DefaultLostAfter,
		maxWait:   maxWait,
	}
}

// WithLostAfter returns a copy of the monitor using d as the lost threshold.
func (tm TxMonitor) WithLostAfter(d time.Duration) *TxMonitor {
	tm.lostAfter = d
	return &tm
}

// Wait blocks until the tx is done, reverted or lost. Read errors are
// treated as transient and polling continues. When the context or the
// monitor's max wait expires first, the error wraps ErrUnconfirmed.
func (tm *TxMonitor) Wait(ctx context.Context, hash common.Hash) (nnscommon.TxInfo, error) {
	if tm.maxWait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, tm.maxWait)
		defer cancel()
	}

	ticker := time.NewTicker(tm.interval)
	defer ticker.Stop()
	startTime := time.Now()
	isOnNode := false
	last := nnscommon.TxInfo{Status: nnscommon.TxStatusNotFound}
	for {
		select {
		case <-ctx.Done():
			last.Status = nnscommon.TxStatusPending
			return last, fmt.Errorf("%w (%s): %w", ErrUnconfirmed, hash.Hex(), ctx.Err())
		case t := <-ticker.C:
			txinfo, err := tm.reader.TxInfoFromHash(ctx, hash)
			if err != nil {
				continue
			}
			switch txinfo.Status {
			case nnscommon.TxStatusNotFound:
				if !isOnNode && t.Sub(startTime) > tm.lostAfter {
					return nnscommon.TxInfo{Status: nnscommon.TxStatusLost}, nil
				}
			case nnscommon.TxStatusPending:
				isOnNode = true
				last = txinfo
			case nnscommon.TxStatusDone, nnscommon.TxStatusReverted:
				return txinfo, nil
			}
		}
	}
}
