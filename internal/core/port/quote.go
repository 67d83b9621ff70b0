package port

import "context"

type QuoteFetcher interface {
	// FetchQuote maps a normalized ticker code to a one-line, user-displayable
	// string. Failures come back as apology text, never as an error.
	FetchQuote(ctx context.Context, code string) string
}
