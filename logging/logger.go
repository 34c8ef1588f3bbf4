package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// New builds the process logger. format is text, json or plain; an empty
// file logs to stderr. The returned closer releases the log file, if any.
func New(level, format, file string) (*log.Logger, io.Closer, error) {
	logger := log.New()

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	case "plain":
		logger.SetFormatter(NewPlainFormatter())
	default:
		return nil, nil, fmt.Errorf("unknown log format %q", format)
	}

	var closer io.Closer = io.NopCloser(nil)
	if file != "" {
		f, err := os.OpenFile(file, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(f)
		closer = f
	}

	return logger, closer, nil
}

// PlainFormatter writes "LEVEL timestamp message key=value..." lines.
type PlainFormatter struct {
	TimestampFormat string
}

func NewPlainFormatter() *PlainFormatter {
	return &PlainFormatter{TimestampFormat: "2006-01-02 15:04:05"}
}

func (f *PlainFormatter) Format(entry *log.Entry) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%-5s %s %s", strings.ToUpper(entry.Level.String()), entry.Time.Format(f.TimestampFormat), entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}
