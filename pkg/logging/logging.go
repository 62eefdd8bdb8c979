package logging

// Logger is the minimal logging surface used throughout the supervisor.
// Components receive a Logger and never talk to a logging backend directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type LogFunc func(format string, args ...interface{})

// LogFuncs carries the backend functions a prefixed Logger forwards to.
type LogFuncs struct {
	Debugf LogFunc
	Infof  LogFunc
	Warnf  LogFunc
	Errorf LogFunc
}

type logger struct {
	prefix string
	funcs  LogFuncs
}

// NewLogger returns a Logger that prepends prefix to every message and
// forwards to the given backend functions. Nil functions drop the message.
func NewLogger(prefix string, funcs LogFuncs) Logger {
	return &logger{
		prefix: prefix,
		funcs:  funcs,
	}
}

func (l *logger) logf(fn LogFunc, format string, args ...interface{}) {
	if fn == nil {
		return
	}
	if l.prefix != "" {
		format = l.prefix + format
	}
	fn(format, args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	l.logf(l.funcs.Debugf, format, args...)
}

func (l *logger) Infof(format string, args ...interface{}) {
	l.logf(l.funcs.Infof, format, args...)
}

func (l *logger) Warnf(format string, args ...interface{}) {
	l.logf(l.funcs.Warnf, format, args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	l.logf(l.funcs.Errorf, format, args...)
}
