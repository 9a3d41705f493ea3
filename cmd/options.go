// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"io"

	"github.com/luthersystems/kurt/diagnostic"
	"github.com/luthersystems/kurt/kurt"
	"github.com/luthersystems/kurt/parser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// session holds the interpreter settings read from flags, the config file
// and the environment.  Close ends any profiling session.
type session struct {
	config []kurt.Config
	logger *logrus.Logger
	finish func() error
}

func colorMode() (diagnostic.ColorMode, error) {
	return diagnostic.ParseColorMode(viper.GetString("color"))
}

// newSession builds interpreter configuration writing user output to stdout
// and diagnostics to stderr.
func newSession(ctx context.Context, stdout, stderr io.Writer) (*session, error) {
	reader, err := parser.ReaderByName(viper.GetString("parser"))
	if err != nil {
		return nil, err
	}
	color, err := colorMode()
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(stderr)
	logger.SetLevel(logrus.WarnLevel)
	s := &session{
		logger: logger,
		finish: func() error { return nil },
		config: []kurt.Config{
			kurt.WithReader(reader),
			kurt.WithLogger(logger),
			kurt.WithStdout(stdout),
			kurt.WithStderr(stderr),
			kurt.WithMaximumStackHeight(viper.GetInt("max-stack")),
			kurt.WithDebug(viper.GetBool("debug")),
			kurt.WithColor(color),
		},
	}
	p, finish, err := newProfiler(ctx, viper.GetString("trace"), viper.GetString("profile-file"), logger)
	if err != nil {
		return nil, err
	}
	if p != nil {
		s.config = append(s.config, kurt.WithProfiler(p))
		s.finish = finish
	}
	return s, nil
}

// Close completes the profiler.  Errors are logged.
func (s *session) Close() {
	if err := s.finish(); err != nil {
		s.logger.WithError(err).Error("profiler")
	}
}
