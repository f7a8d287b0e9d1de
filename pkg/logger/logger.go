package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

func InitLogger() {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(&RequestIDHandler{Handler: handler}))
}

// NewChannel returns a JSON logger tagged with channel=name. Records go to the
// file at path (appended) or to stdout when path is empty. The returned closer
// releases the file.
func NewChannel(name, path string) (*slog.Logger, io.Closer, error) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = io.NopCloser(nil)
	)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open channel log %s: %w", path, err)
		}
		w, closer = f, f
	}
	return NewChannelWriter(name, w), closer, nil
}

func NewChannelWriter(name string, w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(&RequestIDHandler{Handler: handler}).With(slog.String("channel", name))
}
