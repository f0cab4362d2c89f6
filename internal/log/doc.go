// Package log provides the application logger, built on top of the standard
// slog package, with masking of bad words in log output.
//
// A scan logs file paths, errors and matched text. Any of those can contain
// the very words the tool looks for, and log files are often shared or stored
// where such words are unwelcome. The CensorHandler therefore rewrites every
// log message and string attribute through a Censor before it reaches the
// underlying handler.
//
// The word list is only known after it has been fetched, while the logger is
// needed from the start. The censor is therefore attached later with
// SetCensor; records logged before that pass through unchanged.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	// once the pattern is built
//	log.SetCensor(logger, pattern)
//
//	logger.Warn("failed to open file", "file", path) // bad words become ***
package log
