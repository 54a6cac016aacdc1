// Package logger builds the zap logger used by the sieve daemon.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Path string `yaml:"path"`
	// Mode controls how the file at Path is opened: append, truncate, or
	// rotate.
	Mode  FileMode      `yaml:"mode"`
	Level zapcore.Level `yaml:"level"`
}

// New constructs a JSON-encoded zap logger writing to conf.Path.  "stdout"
// and "stderr" are understood as the process streams.
func New(conf Config) (*zap.Logger, error) {
	w, err := OpenFile(conf.Path, conf.Mode)
	if err != nil {
		return nil, fmt.Errorf("open log %q: %w", conf.Path, err)
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		w,
		conf.Level,
	)
	return zap.New(core), nil
}
