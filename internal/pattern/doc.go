// Package pattern builds the single matcher used to find bad words.
//
// A word list of literal words and phrases is turned into one alternation
// in which every alternative is bounded by word boundaries, so "bad" matches
// in "this is bad" but not in "badger". Matching is case-sensitive.
//
// Word boundaries follow the Unicode definition of a word character (letters,
// marks, decimal digits and connector punctuation), which matters for the
// non-Latin word lists: Go's \b only knows ASCII word characters and would
// never find a Cyrillic word surrounded by spaces. Because RE2 has no
// look-around, a boundary is expressed by consuming the neighbouring
// character (or the text edge) and reporting the word through a capture group.
// WithASCIIBoundaries switches back to the plain \b form.
//
// Words are escaped with regexp.QuoteMeta before they are inserted. A list
// entry such as "a$$" or "f*ck" therefore matches itself literally instead of
// changing the meaning of the expression. WithRawWords disables escaping for
// lists that intentionally contain regular expression syntax.
package pattern
