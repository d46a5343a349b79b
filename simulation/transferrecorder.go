package simulation

import (
	"fmt"

	"github.com/sarchlab/fifoadapter/datarecording"
	"github.com/sarchlab/fifoadapter/handshake"
	"github.com/sarchlab/fifoadapter/sim"
)

const transferTableName = "transfers"

type transferTableEntry struct {
	Location string
	Cycle    uint64
	Time     float64
	Count    uint64
	Data     string
}

// transferRecorder is a hook that writes every counted transfer into the
// transfer table.
type transferRecorder struct {
	recorder datarecording.DataRecorder
}

func newTransferRecorder(
	recorder datarecording.DataRecorder,
) *transferRecorder {
	recorder.CreateTable(transferTableName, transferTableEntry{})

	return &transferRecorder{recorder: recorder}
}

func (r *transferRecorder) Func(ctx sim.HookCtx) {
	if ctx.Pos != handshake.HookPosTransfer {
		return
	}

	record := ctx.Item.(handshake.TransferRecord)

	location := ""
	if named, ok := ctx.Domain.(sim.Named); ok {
		location = named.Name()
	}

	r.recorder.InsertData(transferTableName, transferTableEntry{
		Location: location,
		Cycle:    record.Cycle,
		Time:     float64(record.Time),
		Count:    record.Count,
		Data:     fmt.Sprint(record.Data),
	})
}
