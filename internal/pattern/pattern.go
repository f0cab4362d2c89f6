package pattern

import (
	"iter"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// wordChar matches one Unicode word character.
	wordChar = `[\p{L}\p{M}\p{Nd}\p{Pc}]`

	// nonWordChar matches one character that is not a word character.
	nonWordChar = `[^\p{L}\p{M}\p{Nd}\p{Pc}]`
)

// Pattern is a compiled bad word matcher.
// It is immutable and safe for concurrent use.
type Pattern struct {
	re *regexp.Regexp

	// rest is re without the start-of-text branch. Censor uses it to
	// continue after a hit, with the hit's last rune as left context.
	// It is nil for ASCII boundaries.
	rest *regexp.Regexp

	// words is the number of alternatives in the expression.
	words int
}

// Option configures Build.
type Option func(*builder)

type builder struct {
	raw   bool
	ascii bool
}

// WithRawWords inserts words into the expression without escaping them.
// Words are then interpreted as regular expressions.
func WithRawWords() Option {
	return func(b *builder) {
		b.raw = true
	}
}

// WithASCIIBoundaries uses Go's \b assertion, which only treats ASCII
// letters, digits and underscore as word characters.
func WithASCIIBoundaries() Option {
	return func(b *builder) {
		b.ascii = true
	}
}

// Build compiles words into a single Pattern.
// Empty entries are skipped; alternatives keep the order of words.
func Build(words []string, opts ...Option) (*Pattern, error) {
	var b builder
	for _, opt := range opts {
		opt(&b)
	}

	literals := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		literals = append(literals, w)
	}
	if len(literals) == 0 {
		return nil, ErrEmptyWordList
	}

	if b.ascii {
		re, err := compile(b.asciiExpr(literals))
		if err != nil {
			return nil, err
		}
		return &Pattern{re: re, words: len(literals)}, nil
	}

	expr, restExpr := b.unicodeExpr(literals)
	re, err := compile(expr)
	if err != nil {
		return nil, err
	}
	rest, err := compile(restExpr)
	if err != nil {
		return nil, err
	}
	return &Pattern{re: re, rest: rest, words: len(literals)}, nil
}

func compile(expr string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &BuildError{Expr: expr, Err: err}
	}
	return re, nil
}

// asciiExpr builds (\bw1\b|\bw2\b|...).
func (b builder) asciiExpr(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = b.quote(w)
	}
	return `(\b` + strings.Join(quoted, `\b|\b`) + `\b)`
}

// boundaryKind tells whether a word starts and ends with a word
// character, because that decides what the neighbouring characters must be.
type boundaryKind struct {
	wordStart bool
	wordEnd   bool
}

// unicodeExpr builds the matcher and its continuation expression:
//
//	(?:^(?:(w1)R1|(w3)R3)|L1(w1)R1|L2(w2)R2|L3(w3)R3)
//	(?:L1(w1)R1|L2(w2)R2|L3(w3)R3)
//
// Alternatives keep the order of words, so among words starting at the same
// position the earlier list entry wins. Every alternative except those of the
// start-of-text branch consumes the character before the word, so the match
// begins one character early. The start-of-text branch comes first
// so a word at offset zero wins over a word at offset one.
func (b builder) unicodeExpr(words []string) (expr, rest string) {
	var atStart []string
	bounded := make([]string, 0, len(words))
	for _, w := range words {
		k := classify(w)
		q := "(" + b.quote(w) + ")" + right(k.wordEnd)
		if k.wordStart {
			atStart = append(atStart, q)
		}
		bounded = append(bounded, left(k.wordStart)+q)
	}

	rest = "(?:" + strings.Join(bounded, "|") + ")"
	if len(atStart) == 0 {
		return rest, rest
	}
	return "(?:^(?:" + strings.Join(atStart, "|") + ")|" + strings.Join(bounded, "|") + ")", rest
}

func (b builder) quote(w string) string {
	if b.raw {
		return w
	}
	return regexp.QuoteMeta(w)
}

// left returns the character that must precede a word away from the start
// of the text. A boundary before a word character needs a non-word
// character; before a non-word character it needs a word character.
func left(wordStart bool) string {
	if wordStart {
		return nonWordChar
	}
	return wordChar
}

// right is the mirror image of left.
func right(wordEnd bool) string {
	if wordEnd {
		return `(?:$|` + nonWordChar + `)`
	}
	return wordChar
}

func classify(w string) boundaryKind {
	first, _ := utf8.DecodeRuneInString(w)
	last, _ := utf8.DecodeLastRuneInString(w)
	return boundaryKind{wordStart: isWordRune(first), wordEnd: isWordRune(last)}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.Is(unicode.M, r) || unicode.Is(unicode.Nd, r) || unicode.Is(unicode.Pc, r)
}

// Find returns the byte range of the first bad word in text.
func (p *Pattern) Find(text []byte) (start, end int, ok bool) {
	return wordRange(p.re.FindSubmatchIndex(text))
}

// FindString is like Find but for strings.
func (p *Pattern) FindString(text string) (start, end int, ok bool) {
	return wordRange(p.re.FindStringSubmatchIndex(text))
}

// MatchString reports whether text contains a bad word.
func (p *Pattern) MatchString(text string) bool {
	return p.re.MatchString(text)
}

// wordRange extracts the first participating capture group.
// Exactly one group participates in any match.
func wordRange(loc []int) (start, end int, ok bool) {
	for i := 2; i+1 < len(loc); i += 2 {
		if loc[i] >= 0 {
			return loc[i], loc[i+1], true
		}
	}
	return 0, 0, false
}

// Censor replaces every bad word in s with asterisks, one per rune.
func (p *Pattern) Censor(s string) string {
	var sb strings.Builder
	pos := 0
	for start, end := range p.hits(s) {
		sb.WriteString(s[pos:start])
		sb.WriteString(strings.Repeat("*", utf8.RuneCountInString(s[start:end])))
		pos = end
	}
	if pos == 0 {
		return s
	}
	sb.WriteString(s[pos:])
	return sb.String()
}

// hits yields the byte ranges of the non-overlapping bad words in s.
// The last character of one hit still counts as the left neighbour of the
// next one.
func (p *Pattern) hits(s string) iter.Seq2[int, int] {
	return func(yield func(int, int) bool) {
		if p.rest == nil {
			for _, loc := range p.re.FindAllStringSubmatchIndex(s, -1) {
				start, end, ok := wordRange(loc)
				if ok && end > start && !yield(start, end) {
					return
				}
			}
			return
		}

		start, end, ok := wordRange(p.re.FindStringSubmatchIndex(s))
		for ok && end > start {
			if !yield(start, end) {
				return
			}
			_, size := utf8.DecodeLastRuneInString(s[start:end])
			from := end - size
			start, end, ok = wordRange(p.rest.FindStringSubmatchIndex(s[from:]))
			start += from
			end += from
		}
	}
}

// WordCount returns the number of alternatives in the pattern.
func (p *Pattern) WordCount() int {
	return p.words
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.re.String()
}
