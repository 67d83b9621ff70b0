package domain

import (
	"regexp"
	"strings"
	"unicode"
)

// stockCmd accepts "/stock=code", "/stock code" and bare "/stock", with
// optional spaces around '='. The command token is case-insensitive; codes may
// carry letters, digits, '.', '-', '_', '^' and a leading '$'.
var stockCmd = regexp.MustCompile(`(?i)^\s*/stock(?:\s*=\s*|\s+)?(\S*)\s*$`)

// indexAliases collapses the accepted spellings of the S&P 500 index to the
// symbol the quote provider expects.
var indexAliases = map[string]string{
	"spx":   "^spx",
	"^spx":  "^spx",
	"gspc":  "^spx",
	"^gspc": "^spx",
}

// ParseResult is the outcome of running chat text through ParseStock. A text
// that is not a stock command at all is a normal message, not an error.
type ParseResult struct {
	IsCommand  bool
	HasCode    bool
	Code       string
	UsageError string
}

// ParseStock decides whether the given chat text is a stock command and
// extracts a normalized ticker code. Pure; safe on arbitrary input.
func ParseStock(input string) ParseResult {
	m := stockCmd.FindStringSubmatch(input)
	if m == nil {
		return ParseResult{}
	}

	raw := strings.TrimSpace(m[1])
	if raw == "" {
		return ParseResult{
			IsCommand:  true,
			UsageError: "Missing stock code. Usage: /stock=CODE (e.g., /stock=AAPL.US or /stock=^SPX)",
		}
	}

	code := normalizeCode(raw)
	if strings.ContainsFunc(code, unicode.IsSpace) {
		return ParseResult{
			IsCommand:  true,
			UsageError: "Invalid stock code. Codes must not contain spaces.",
		}
	}

	return ParseResult{IsCommand: true, HasCode: true, Code: code}
}

func normalizeCode(raw string) string {
	code := strings.TrimPrefix(strings.TrimSpace(raw), "$")
	code = strings.ToLower(code)

	if canonical, ok := indexAliases[code]; ok {
		return canonical
	}

	// Anything else passes through verbatim so provider suffixes keep working
	// (aapl.us, btcusd, eurusd, ^dji, ...).
	return code
}
