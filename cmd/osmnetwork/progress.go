package main

import (
	"go.uber.org/zap"
)

const progressStep = 10000

// progressLogger logs every progressStep units
type progressLogger struct {
	logger *zap.Logger
	unit   string
	total  int
	done   int
}

func newProgressLogger(logger *zap.Logger, unit string, total int) *progressLogger {
	return &progressLogger{logger: logger, unit: unit, total: total}
}

func (p *progressLogger) Advance() {
	p.done++
	if p.done%progressStep == 0 || p.done == p.total {
		p.logger.Debug("progress", zap.String("unit", p.unit), zap.Int("done", p.done), zap.Int("total", p.total))
	}
}
