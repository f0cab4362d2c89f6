package config

import (
	"net"
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/badwords/internal/fileselect"
)

// Default configuration values.
const (
	// DefaultBaseURL is the repository of the LDNOOBW word lists.
	// The language identifier is appended as the last path segment.
	DefaultBaseURL = "https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/master"

	// DefaultTimeout bounds the whole word list request.
	// The lists are small text files, so 30 seconds only trips on a broken network.
	DefaultTimeout = 30 * time.Second

	// DefaultWorkers of 1 keeps the scan strictly sequential.
	DefaultWorkers = 1

	// DefaultMaxBodySize limits the size of the downloaded word list.
	// The largest LDNOOBW list is a few kilobytes; 5MB leaves room for
	// custom lists while preventing memory exhaustion.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies badwords when fetching word lists.
	DefaultUserAgent = "badwords/1.0 (+https://github.com/nao1215/badwords)"

	// DefaultRoot is the directory scanned when no root argument is given.
	DefaultRoot = "."

	// AppName is the application name used for XDG directory paths.
	AppName = "badwords"
)

// Config holds all configuration options for badwords.
// This struct is populated from CLI flags and the optional configuration file
// and passed through the application rather than kept in global state.
//
// Design decision: We use a single flat struct instead of nested structs
// for simplicity. The number of options is small and every component reads
// only a handful of them.
type Config struct {
	// Language is the word list identifier appended to BaseURL
	// (e.g., "en", "fr", "ja"). Required.
	Language string

	// Root is the directory whose files are scanned.
	Root string

	// Excludes are glob patterns for files that must never be scanned.
	// Each pattern is matched against the path relative to Root and
	// against the absolute path.
	Excludes []string

	// BaseURL is the location of the word lists without a trailing language segment.
	BaseURL string

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format used
	// for the word list request. Empty means a direct connection.
	ProxyAddress string

	// Timeout is the timeout of the word list request.
	Timeout time.Duration

	// Workers is the number of files matched concurrently.
	// 1 scans files strictly one after another.
	Workers int

	// MaxBodySize is the maximum word list size in bytes.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with the word list request.
	UserAgent string

	// RawWords compiles word list entries as regular expression fragments
	// instead of literal text.
	RawWords bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of the simple format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the simple format.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// ConfigFilePath is the explicit path of the configuration file.
	// If empty, FindConfigFile searches the default locations.
	ConfigFilePath string

	// DBDir is the directory of the scan history database.
	// Defaults to the XDG data directory (~/.local/share/badwords on Linux).
	DBDir string

	// SaveToDB indicates whether the scan result is stored in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout, workers).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Root:        DefaultRoot,
		BaseURL:     DefaultBaseURL,
		Timeout:     DefaultTimeout,
		Workers:     DefaultWorkers,
		MaxBodySize: DefaultMaxBodySize,
		UserAgent:   DefaultUserAgent,
		DBDir:       XDGDataDir(),
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for badwords.
// On Linux: ~/.local/share/badwords
// On macOS: ~/Library/Application Support/badwords
// On Windows: %LOCALAPPDATA%\badwords
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for badwords.
// On Linux: ~/.config/badwords
// On macOS: ~/Library/Application Support/badwords
// On Windows: %APPDATA%\badwords
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast before the word list is fetched.
func (c *Config) Validate() error {
	if c.Language == "" {
		return ErrNoLanguage
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Workers <= 0 {
		return ErrInvalidWorkers
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidBaseURL
	}

	if c.ProxyAddress != "" {
		host, port, err := net.SplitHostPort(c.ProxyAddress)
		if err != nil || host == "" || port == "" {
			return ErrInvalidProxyAddress
		}
	}

	if _, err := c.GlobSet(); err != nil {
		return err
	}

	return nil
}

// GlobSet compiles the file selection globs: the default inclusion glob and
// Excludes. A malformed exclusion is returned as *fileselect.GlobConfigError.
func (c *Config) GlobSet() (*fileselect.GlobSet, error) {
	return fileselect.NewGlobSet(fileselect.DefaultInclude, c.Excludes)
}
