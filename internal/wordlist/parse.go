package wordlist

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
	"golang.org/x/text/encoding/unicode"
)

// WordList is an ordered sequence of non-empty, trimmed words.
type WordList []string

// Parse turns the raw bytes of a word list into a WordList.
//
// The bytes are decoded as UTF-8, replacing invalid sequences with U+FFFD,
// then split on newlines. Each line is trimmed; empty lines are dropped so
// they can never turn into an empty alternative that matches everywhere.
// Order is preserved and duplicates are kept.
func Parse(raw []byte) WordList {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(raw)
	if err != nil {
		// The UTF-8 decoder replaces rather than rejects, so this only
		// happens on internal transformer errors.
		decoded = []byte(strings.ToValidUTF8(string(raw), "�"))
	}

	lines := strings.Split(string(decoded), "\n")
	words := make(WordList, 0, len(lines))
	for _, line := range lines {
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		words = append(words, word)
	}
	return words
}

// Digest returns the SHA3-256 hex digest of a raw word list.
func Digest(raw []byte) string {
	sum := sha3.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
