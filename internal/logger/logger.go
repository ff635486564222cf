package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Category  string `json:"category"`
	Message   string `json:"message"`
	File      string `json:"file,omitempty"`
	Line      int    `json:"line,omitempty"`
}

type Options struct {
	// Dir receives a dated JSON-lines log file. Empty disables file logging.
	Dir string
	// Level is the lowest level written: debug, info, warn or error.
	Level string
	// Terminal receives the colored output. Defaults to os.Stderr so that
	// log lines stay out of the way of prompts on stdout.
	Terminal io.Writer
}

type Logger struct {
	mu       sync.Mutex
	terminal io.Writer
	logFile  *os.File
	minLevel LogLevel
	now      func() time.Time
}

func NewLogger(opts Options) (*Logger, error) {
	terminal := opts.Terminal
	if terminal == nil {
		terminal = os.Stderr
	}
	l := &Logger{
		terminal: terminal,
		minLevel: ParseLevel(opts.Level),
		now:      time.Now,
	}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory %s: %w", opts.Dir, err)
		}
		name := filepath.Join(opts.Dir, fmt.Sprintf("purchase-tracker-%s.log", l.now().Format("2006-01-02")))
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", name, err)
		}
		l.logFile = f
		l.Debug("LOGGER", fmt.Sprintf("Log file: %s", name))
	}
	return l, nil
}

// Discard returns a logger that writes nowhere, for tests.
func Discard() *Logger {
	return &Logger{terminal: io.Discard, minLevel: FATAL + 1, now: time.Now}
}

func ParseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l *Logger) log(level LogLevel, category, message string) {
	if level < l.minLevel {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if ok {
		file = filepath.Base(file)
	}

	entry := LogEntry{
		Timestamp: l.now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Level:     levelToString(level),
		Category:  strings.ToUpper(category),
		Message:   message,
		File:      file,
		Line:      line,
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprint(l.terminal, formatTerminalOutput(entry))
	if l.logFile != nil {
		l.logFile.WriteString(formatJSONOutput(entry) + "\n")
	}
}

func formatTerminalOutput(entry LogEntry) string {
	timestamp := entry.Timestamp[11:19]

	var levelColor, categoryColor *color.Color

	switch entry.Level {
	case "DEBUG":
		levelColor = color.New(color.FgCyan)
		categoryColor = color.New(color.FgCyan, color.Bold)
	case "INFO":
		levelColor = color.New(color.FgGreen)
		categoryColor = color.New(color.FgGreen, color.Bold)
	case "WARN":
		levelColor = color.New(color.FgYellow)
		categoryColor = color.New(color.FgYellow, color.Bold)
	case "ERROR":
		levelColor = color.New(color.FgRed)
		categoryColor = color.New(color.FgRed, color.Bold)
	default:
		levelColor = color.New(color.FgRed, color.Bold)
		categoryColor = color.New(color.FgRed, color.Bold)
	}

	timeStr := color.New(color.FgBlue).Sprint(timestamp)
	levelStr := levelColor.Sprintf("%-5s", entry.Level)
	categoryStr := categoryColor.Sprintf("[%-8s]", entry.Category)

	if entry.File != "" && entry.Line > 0 {
		fileInfo := color.New(color.FgMagenta).Sprintf(" (%s:%d)", entry.File, entry.Line)
		return fmt.Sprintf("%s %s %s %s%s\n", timeStr, levelStr, categoryStr, entry.Message, fileInfo)
	}
	return fmt.Sprintf("%s %s %s %s\n", timeStr, levelStr, categoryStr, entry.Message)
}

func formatJSONOutput(entry LogEntry) string {
	jsonBytes, _ := json.Marshal(entry)
	return string(jsonBytes)
}

func levelToString(level LogLevel) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "INFO"
	}
}

func (l *Logger) Debug(category, message string) {
	l.log(DEBUG, category, message)
}

func (l *Logger) Info(category, message string) {
	l.log(INFO, category, message)
}

func (l *Logger) Warn(category, message string) {
	l.log(WARN, category, message)
}

func (l *Logger) Error(category, message string) {
	l.log(ERROR, category, message)
}

// Fatal logs and exits. Only main calls it.
func (l *Logger) Fatal(category, message string) {
	l.log(FATAL, category, message)
	l.Close()
	os.Exit(1)
}

// Component helpers

func (l *Logger) LogStore(op, path, message string) {
	l.Info("STORE", fmt.Sprintf("[%s] %s - %s", op, path, message))
}

func (l *Logger) LogLock(action, key, message string) {
	l.Info("LOCK", fmt.Sprintf("[%s] %s - %s", action, key, message))
}

func (l *Logger) LogKafka(action, topic, message string) {
	l.Info("KAFKA", fmt.Sprintf("[%s] %s - %s", action, topic, message))
}

func (l *Logger) LogDatabase(operation, table, message string) {
	l.Info("DATABASE", fmt.Sprintf("[%s] %s - %s", operation, table, message))
}

func (l *Logger) LogAPI(method, path, status, duration string) {
	l.Info("API", fmt.Sprintf("%s %s - %s (%s)", method, path, status, duration))
}

func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.logFile != nil {
		l.logFile.Close()
		l.logFile = nil
	}
}
