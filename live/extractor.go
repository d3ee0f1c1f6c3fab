package live

import (
	"fmt"
	"regexp"
)

// Names of the parameters scraped from the login page.
const (
	// ParamPPFT is the anti-forgery token embedded as a hidden form field.
	ParamPPFT = "PPFT"
	// ParamURLPost is the form submission target assigned in inline script.
	ParamURLPost = "urlPost"
)

// ParameterExtractor matches one named parameter out of the login page
// markup. The page is served by a third party with no stable contract, so
// extraction rules are kept isolated and swappable: when the upstream markup
// drifts, only the rule needs replacing.
type ParameterExtractor interface {
	// Name returns the parameter this extractor matches.
	Name() string
	// Extract returns the matched value and whether a match was found.
	Extract(body string) (string, bool)
}

// RegexExtractor matches a parameter with a single-capture-group regular
// expression.
type RegexExtractor struct {
	name string
	re   *regexp.Regexp
}

// NewRegexExtractor compiles a regex-based extraction rule. The pattern must
// contain at least one capture group; group 1 is the extracted value.
func NewRegexExtractor(name, pattern string) (*RegexExtractor, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("live: invalid extraction pattern for %q: %w", name, err)
	}
	if re.NumSubexp() < 1 {
		return nil, fmt.Errorf("live: extraction pattern for %q has no capture group", name)
	}
	return &RegexExtractor{name: name, re: re}, nil
}

// Name returns the parameter this extractor matches.
func (x *RegexExtractor) Name() string {
	return x.name
}

// Extract returns the first capture group of the first match.
func (x *RegexExtractor) Extract(body string) (string, bool) {
	match := x.re.FindStringSubmatch(body)
	if match == nil || match[1] == "" {
		return "", false
	}
	return match[1], true
}

// Patterns matching the inline script of the current login page. The value
// attributes may arrive with escaped quotes when embedded in server data,
// hence the optional backslashes.
const (
	ppftPattern    = `(?i)name=\\?"PPFT\\?"[^>]*value=\\?"([^"\\]+)\\?"`
	urlPostPattern = `(?i)\\?['"]?urlPost\\?['"]?:\s*\\?['"]([^'"\\]+)\\?['"]`
)

// DefaultExtractors returns the extraction rules for the current login page
// markup, one per required parameter.
func DefaultExtractors() []ParameterExtractor {
	ppft, err := NewRegexExtractor(ParamPPFT, ppftPattern)
	if err != nil {
		panic(err)
	}
	urlPost, err := NewRegexExtractor(ParamURLPost, urlPostPattern)
	if err != nil {
		panic(err)
	}
	return []ParameterExtractor{ppft, urlPost}
}
