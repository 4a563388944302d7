// Package log provides structured logging for tarsier using zap.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with tarsier-specific helpers.
type Logger struct {
	*zap.Logger
	onTrace func(pc uint16, ins byte, name, detail string) // trace callback for step events
}

var (
	// L is the global logger instance.
	L    *Logger
	once sync.Once
)

// Init initializes the global logger with the given configuration.
// Safe to call multiple times; only the first call takes effect.
func Init(debug bool) {
	once.Do(func() {
		L = New(debug)
	})
}

// New creates a new Logger instance.
func New(debug bool) *Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	// Shorter timestamps in development
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// Fallback to no-op if config fails
		logger = zap.NewNop()
	}

	return &Logger{Logger: logger}
}

// NewNop creates a no-op logger for testing.
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// SetOnTrace sets the trace callback for step events.
func (l *Logger) SetOnTrace(fn func(pc uint16, ins byte, name, detail string)) {
	l.onTrace = fn
}

// Trace logs one executed instruction at debug level and calls the trace
// callback if set.
func (l *Logger) Trace(pc uint16, ins byte, name, detail string) {
	if l.onTrace != nil {
		l.onTrace(pc, ins, name, detail)
	}

	l.Debug("step",
		zap.String("op", name),
		zap.String("detail", detail),
		zap.String("pc", Hex16(pc)),
	)
}

// Device logs device-bus traffic at debug level.
func (l *Logger) Device(dir string, port, val byte) {
	l.Debug(dir,
		Port(port),
		zap.String("val", Hex8(val)),
	)
}

// WithDevice returns a logger with the device field preset.
func (l *Logger) WithDevice(name string) *Logger {
	return &Logger{
		Logger:  l.Logger.With(zap.String("dev", name)),
		onTrace: l.onTrace,
	}
}

// Hex16 formats a short as a 0x-prefixed hex string for logging.
func Hex16(v uint16) string {
	return "0x" + hexString(uint64(v))
}

// Hex8 formats a byte as a 0x-prefixed hex string.
func Hex8(v byte) string {
	return "0x" + hexString(uint64(v))
}

func hexString(v uint64) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	buf := make([]byte, 16)
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf[i:])
}

// Field helpers for common patterns.

// PC creates a program-counter field.
func PC(pc uint16) zap.Field {
	return zap.String("pc", Hex16(pc))
}

// Addr creates an address field.
func Addr(addr uint16) zap.Field {
	return zap.String("addr", Hex16(addr))
}

// Vec creates a vector-address field.
func Vec(vec uint16) zap.Field {
	return zap.String("vec", Hex16(vec))
}

// Port creates a device-port field.
func Port(port byte) zap.Field {
	return zap.String("port", Hex8(port))
}

// Char creates a field for an injected console byte.
func Char(c byte) zap.Field {
	return zap.String("char", Hex8(c))
}

// Ins creates an instruction-byte field.
func Ins(ins byte) zap.Field {
	return zap.String("ins", Hex8(ins))
}

// Size creates a size field.
func Size(size int) zap.Field {
	return zap.Int("size", size)
}

// Fn creates a function name field.
func Fn(name string) zap.Field {
	return zap.String("fn", name)
}
