// Package wordlist fetches and parses the bad word lists badwords scans for.
//
// A word list is a plain text document with one word or phrase per line,
// published per language under a common base URL. The default base URL points
// at the LDNOOBW "List of Dirty, Naughty, Obscene, and Otherwise Bad Words"
// repository, where each language is a file named by its ISO 639-1 code.
//
// The package has three parts:
//   - Source: performs exactly one GET of {base_url}/{language} per call
//   - NewHTTPClient: builds the HTTP client, optionally routed through SOCKS5
//   - Parse/Digest: turn the raw bytes into a WordList and a stable fingerprint
//
// Design decision: Source does not cache or retry. A scan is a one-shot
// command, and a stale or partially retried list would make two runs over the
// same tree disagree without any visible reason.
package wordlist
