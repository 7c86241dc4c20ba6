/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures zerolog for the process. Output goes to stderr so that
// stdout stays free for command results.
func Setup(environment string) zerolog.Logger {
	return SetupWithWriter(environment, os.Stderr, nil)
}

// SetupWithWriter configures zerolog to write human-readable lines to out and,
// when additionalWriter is set, JSON lines to it as well.
func SetupWithWriter(environment string, out io.Writer, additionalWriter io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	consoleWriter := zerolog.ConsoleWriter{Out: out}

	var writer io.Writer = consoleWriter
	if additionalWriter != nil {
		writer = zerolog.MultiLevelWriter(consoleWriter, additionalWriter)
	}

	logger := zerolog.New(writer).With().Timestamp().Logger().Level(Level(environment))
	log.Logger = logger
	return logger
}

// Level maps an environment name to the minimum log level.
func Level(environment string) zerolog.Level {
	switch environment {
	case "development":
		return zerolog.DebugLevel
	case "test":
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
