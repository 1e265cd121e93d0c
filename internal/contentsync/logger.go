package contentsync

import (
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// newLeveledLogger bridges retryablehttp onto zap. Request failures are
// demoted to warn since the pipeline decides what is fatal.
func newLeveledLogger(log *zap.Logger) retryablehttp.LeveledLogger {
	return &leveledLogger{log: log.Sugar()}
}

type leveledLogger struct {
	log *zap.SugaredLogger
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.log.Warnw(msg, keysAndValues...)
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}
