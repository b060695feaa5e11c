package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures the logger
type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// Verbose forces debug level
	Verbose bool
	// NoColor disables ANSI colors
	NoColor bool
	// Writer defaults to stderr
	Writer io.Writer
}

// New creates a console logger
func New(opts Options) (*zap.Logger, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}

	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    coloredLevelEncoder,
		EncodeTime:     timeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if opts.NoColor {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("[15:04:05]")
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(opts.Writer),
		level,
	)
	return zap.New(core), nil
}

// ParseLevel maps a config level name to a zap level.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", s)
	}
}

// Title prints a highlighted section heading.
func Title(w io.Writer, msg string) {
	fmt.Fprintln(w)
	color.New(color.FgCyan, color.Bold).Fprintln(w, msg)
	fmt.Fprintln(w)
}

func coloredLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var levelColor *color.Color
	var levelText string

	switch l {
	case zapcore.DebugLevel:
		levelColor = color.New(color.FgWhite)
		levelText = "DEBUG"
	case zapcore.InfoLevel:
		levelColor = color.New(color.FgBlue)
		levelText = "INFO"
	case zapcore.WarnLevel:
		levelColor = color.New(color.FgYellow)
		levelText = "WARN"
	case zapcore.ErrorLevel:
		levelColor = color.New(color.FgRed)
		levelText = "ERROR"
	case zapcore.FatalLevel:
		levelColor = color.New(color.FgRed, color.Bold)
		levelText = "FATAL"
	default:
		levelColor = color.New(color.FgWhite)
		levelText = l.String()
	}

	enc.AppendString(levelColor.Sprint(levelText))
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(color.New(color.FgWhite).Sprintf("[%s]", t.Format("15:04:05")))
}
