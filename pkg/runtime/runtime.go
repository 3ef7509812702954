package runtime

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/adrg/xdg"
	"github.com/byxorna/shipwright/pkg/config"
	"github.com/mitchellh/go-homedir"
)

const (
	XDGName = "shipwright"
	LogName = "shipwright.log"
)

// File resolves filename inside the runtime directory, creating parents
func File(filename string) (string, error) {
	return xdg.RuntimeFile(fmt.Sprintf("%s/%s", XDGName, filename))
}

// StateFile resolves filename inside the state directory, creating parents
func StateFile(filename string) (string, error) {
	return xdg.StateFile(fmt.Sprintf("%s/%s", XDGName, filename))
}

// NewLogger opens the log file described by c and returns a text logger
// writing to it. The TUI owns the terminal, so logs never go to stderr
// while it runs.
func NewLogger(c config.Log) (*slog.Logger, io.Closer, error) {
	path := c.File
	if path == "" {
		p, err := StateFile(LogName)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to resolve log file: %w", err)
		}
		path = p
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to open log file %s: %w", path, err)
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: Level(c.Level)})), f, nil
}

func Level(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
