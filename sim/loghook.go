package sim

import "go.uber.org/zap"

// A LogHook is a hook that is resonsible for recording information from the
// simulation
type LogHook interface {
	Hook
}

// LogHookBase proovides the common logic for all LogHooks
type LogHookBase struct {
	*zap.Logger
}

// NewLogHookBase wraps a logger. A nil logger is replaced by a no-op one.
func NewLogHookBase(logger *zap.Logger) LogHookBase {
	if logger == nil {
		logger = zap.NewNop()
	}

	return LogHookBase{Logger: logger}
}
