// Package engine stores fatty acids in Arrow columns, loads profile files
// and aggregates quantities over them. Callers with a config file build
// their Options with config.EngineConfig.Options and a logger from
// logging.New.
package engine

import (
	"runtime"

	"github.com/apache/arrow/go/v18/arrow/memory"
	"go.uber.org/zap"
)

// Option configures LoadProfile and NewProfile.
type Option func(*options)

type options struct {
	mem     memory.Allocator
	workers int
	logger  *zap.Logger
	column  string
}

func newOptions(opts []Option) options {
	o := options{
		mem:     memory.DefaultAllocator,
		workers: runtime.NumCPU(),
		logger:  zap.NewNop(),
		column:  ColumnName,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// WithAllocator sets the Arrow allocator. The default is
// memory.DefaultAllocator.
func WithAllocator(mem memory.Allocator) Option {
	return func(o *options) {
		if mem != nil {
			o.mem = mem
		}
	}
}

// WithWorkers sets the number of goroutines. Zero or less means one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithColumn sets the name of the fatty acid column. The default is
// ColumnName.
func WithColumn(name string) Option {
	return func(o *options) { o.column = name }
}
