// Package config provides configuration structures and utilities for badwords.
// It defines where the word list comes from, which files are scanned, how the
// scan runs and how the result is reported.
package config
