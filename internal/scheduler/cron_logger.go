package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// cronLogger routes cron's own logging through zap. Cron reports every wake
// up at info level, which is noise for a once-a-minute clock, so it is
// demoted to debug.
type cronLogger struct {
	log *zap.SugaredLogger
}

var _ cron.Logger = cronLogger{}

func newCronLogger(logger *zap.Logger) cronLogger {
	return cronLogger{log: logger.Named("cron").Sugar()}
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
