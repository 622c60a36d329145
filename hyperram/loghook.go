package hyperram

import (
	"github.com/sarchlab/hyperram/sim"
	"go.uber.org/zap"
)

// LogHook writes the transactions of a controller to a zap logger.
// Starts, beats and state changes are logged at debug level, completed
// transactions at info level and aborts at warn level.
type LogHook struct {
	sim.LogHookBase
}

// NewLogHook creates a LogHook. A nil logger discards everything.
func NewLogHook(logger *zap.Logger) *LogHook {
	return &LogHook{LogHookBase: sim.NewLogHookBase(logger)}
}

// Func logs the hook context.
func (h *LogHook) Func(ctx sim.HookCtx) {
	cycle, _ := ctx.Detail.(uint64)

	switch ctx.Pos {
	case HookPosTransactionStart:
		txn := ctx.Item.(*Transaction)
		h.Debug("transaction start",
			zap.String("id", txn.ID),
			zap.Uint64("cycle", cycle),
			zap.Bool("write", txn.Write),
			zap.Uint32("address", txn.Address))
	case HookPosBeat:
		beat := ctx.Item.(Beat)
		h.Debug("beat",
			zap.String("txn", beat.TransactionID),
			zap.Int("index", beat.Index),
			zap.Uint64("cycle", cycle),
			zap.Uint32("address", beat.Address),
			zap.Uint32("data", beat.Data),
			zap.Uint8("sel", beat.Sel))
	case HookPosAbort:
		txn := ctx.Item.(*Transaction)
		h.Warn("transaction aborted",
			zap.String("id", txn.ID),
			zap.Uint64("cycle", cycle),
			zap.Stringer("reason", txn.Abort),
			zap.Stringer("command", txn.Command))
	case HookPosTransactionEnd:
		txn := ctx.Item.(*Transaction)
		h.Info("transaction end",
			zap.String("id", txn.ID),
			zap.Bool("write", txn.Write),
			zap.Uint32("address", txn.Address),
			zap.Int("beats", txn.Beats),
			zap.Uint64("start", txn.StartCycle),
			zap.Uint64("end", txn.EndCycle),
			zap.Bool("aborted", txn.Aborted()))
	case HookPosStateChange:
		tr := ctx.Item.(Transition)
		h.Debug("state change",
			zap.Uint64("cycle", cycle),
			zap.Stringer("from", tr.From),
			zap.Stringer("to", tr.To))
	}
}
