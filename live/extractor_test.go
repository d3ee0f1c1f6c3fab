package live

import "testing"

func TestDefaultExtractorsPPFT(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected string
		found    bool
	}{
		{
			"plain hidden input",
			`<input type="hidden" name="PPFT" id="i0327" value="ppft-token-value"/>`,
			"ppft-token-value",
			true,
		},
		{
			"escaped quotes inside inline script",
			`sFTTag:'<input type=\"hidden\" name=\"PPFT\" id=\"i0327\" value=\"escaped-value\"/>'`,
			"escaped-value",
			true,
		},
		{
			"lowercase attribute name",
			`<input name="ppft" value="case-insensitive"/>`,
			"case-insensitive",
			true,
		},
		{
			"missing field",
			`<html><body>Sign in</body></html>`,
			"",
			false,
		},
	}

	extractor := findExtractor(t, ParamPPFT)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, found := extractor.Extract(tt.body)
			if found != tt.found || got != tt.expected {
				t.Errorf("Extract() = (%q, %v), want (%q, %v)", got, found, tt.expected, tt.found)
			}
		})
	}
}

func TestDefaultExtractorsURLPost(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		expected string
		found    bool
	}{
		{
			"single quoted server data",
			`var ServerData = {urlPost:'https://login.live.com/ppsecure/post.srf?contextid=123'};`,
			"https://login.live.com/ppsecure/post.srf?contextid=123",
			true,
		},
		{
			"double quoted key and value",
			`"urlPost":"https://login.live.com/ppsecure/post.srf"`,
			"https://login.live.com/ppsecure/post.srf",
			true,
		},
		{
			"escaped quotes",
			`urlPost:\'https://login.live.com/ppsecure/post.srf\'`,
			"https://login.live.com/ppsecure/post.srf",
			true,
		},
		{
			"missing assignment",
			`var ServerData = {};`,
			"",
			false,
		},
	}

	extractor := findExtractor(t, ParamURLPost)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, found := extractor.Extract(tt.body)
			if found != tt.found || got != tt.expected {
				t.Errorf("Extract() = (%q, %v), want (%q, %v)", got, found, tt.expected, tt.found)
			}
		})
	}
}

func TestNewRegexExtractorRejectsBadPatterns(t *testing.T) {
	t.Parallel()

	if _, err := NewRegexExtractor("broken", `([`); err == nil {
		t.Fatal("NewRegexExtractor() accepted an invalid pattern")
	}
	if _, err := NewRegexExtractor("groupless", `PPFT`); err == nil {
		t.Fatal("NewRegexExtractor() accepted a pattern without capture groups")
	}
}

func findExtractor(t *testing.T, name string) ParameterExtractor {
	t.Helper()
	for _, extractor := range DefaultExtractors() {
		if extractor.Name() == name {
			return extractor
		}
	}
	t.Fatalf("no default extractor named %q", name)
	return nil
}
