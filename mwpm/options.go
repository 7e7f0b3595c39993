package mwpm

import "github.com/katalvlaran/slowmatch/flooder"

// Options configures a Matching.
type Options struct {
	flooderOpts []flooder.Option
}

// Option mutates Options during NewMatching construction.
type Option func(*Options)

// WithVerbose forwards verbose flooder instrumentation logging; see
// flooder.WithVerbose.
func WithVerbose(v bool) Option {
	return func(o *Options) { o.flooderOpts = append(o.flooderOpts, flooder.WithVerbose(v)) }
}

// WithLogger installs a custom flooder.Logger; see flooder.WithLogger.
func WithLogger(l flooder.Logger) Option {
	return func(o *Options) { o.flooderOpts = append(o.flooderOpts, flooder.WithLogger(l)) }
}
