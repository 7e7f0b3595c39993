package flooder

import (
	"io"
	"log"
)

// Logger receives optional diagnostic messages from a Flooder. The zero
// Options value uses a no-op Logger, exactly as flow.FlowOptions.Verbose
// gates the teacher's own augmentation logging: no third-party logging
// library is introduced because the domain stack (§2) has nowhere else that
// would reach for one either.
type Logger interface {
	Logf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Logf(string, ...any) {}

type stdLogger struct {
	*log.Logger
}

func (s stdLogger) Logf(format string, args ...any) {
	s.Printf(format, args...)
}

// NewStdLogger wraps the standard library's log package as a Logger writing
// to w, timestamped the way log.Default() is.
func NewStdLogger(w io.Writer) Logger {
	return stdLogger{log.New(w, "", log.LstdFlags)}
}

// Options configures a Flooder.
type Options struct {
	Verbose bool
	Logger  Logger
}

// Option mutates Options during NewFlooder construction.
type Option func(*Options)

// WithVerbose turns on instrumentation logging of region/blossom lifecycle
// events via the configured Logger. The default Logger is a no-op, so
// nothing is printed unless WithLogger also installs one.
func WithVerbose(v bool) Option {
	return func(o *Options) { o.Verbose = v }
}

// WithLogger installs a custom Logger.
func WithLogger(l Logger) Option {
	return func(o *Options) { o.Logger = l }
}

func defaultOptions() Options {
	return Options{Logger: noopLogger{}}
}

func (o Options) logf(format string, args ...any) {
	if !o.Verbose || o.Logger == nil {
		return
	}
	o.Logger.Logf(format, args...)
}
