package handshake

import (
	"log"

	"github.com/sarchlab/fifoadapter/sim"
)

// TransferLogger is a hook that writes one line for every transfer counted by
// an adapter.
type TransferLogger struct {
	logger *log.Logger
}

// NewTransferLogger creates a TransferLogger that writes into the logger.
func NewTransferLogger(logger *log.Logger) *TransferLogger {
	return &TransferLogger{logger: logger}
}

// Func writes the transfer information into the logger.
func (l *TransferLogger) Func(ctx sim.HookCtx) {
	if ctx.Pos != HookPosTransfer {
		return
	}

	record, ok := ctx.Item.(TransferRecord)
	if !ok {
		return
	}

	where := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		where = named.Name()
	}

	l.logger.Printf("%.10f, %s, cycle %d, transfer %d, data %v",
		record.Time, where, record.Cycle, record.Count, record.Data)
}
