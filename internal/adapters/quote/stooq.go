package quote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Closing price column in stooq's CSV layout:
// Symbol,Date,Time,Open,High,Low,Close,Volume
const closeColumn = 6

// noData is the provider's sentinel for "symbol exists but has no quote".
const noData = "N/D"

// Stooq fetches quotes from the stooq.com CSV endpoint. Every failure mode
// maps to a user-displayable string; FetchQuote never returns an error.
type Stooq struct {
	baseURL string
	client  *http.Client
}

func NewStooq(baseURL string, timeout time.Duration) *Stooq {
	return &Stooq{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *Stooq) FetchQuote(ctx context.Context, code string) string {
	display := strings.ToUpper(code)
	endpoint := fmt.Sprintf("%s/q/l/?s=%s&f=sd2t2ohlcv&h&e=csv", s.baseURL, url.QueryEscape(code))

	log.Info().Str("code", code).Str("url", endpoint).Msg("fetching stock quote")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("error creating quote request")
		return fmt.Sprintf("Error fetching quote for %s: Unexpected error", display)
	}

	res, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			log.Error().Err(err).Str("code", code).Msg("timeout fetching quote")
			return fmt.Sprintf("Error fetching quote for %s: Request timeout", display)
		}
		log.Error().Err(err).Str("code", code).Msg("network error fetching quote")
		return fmt.Sprintf("Error fetching quote for %s: Network error", display)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		log.Error().Int("status", res.StatusCode).Str("code", code).Msg("provider returned non-OK status")
		return fmt.Sprintf("Error fetching quote for %s: Network error", display)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		log.Error().Err(err).Str("code", code).Msg("error reading quote response")
		return fmt.Sprintf("Error fetching quote for %s: Network error", display)
	}

	return parseQuoteCSV(display, string(body))
}

// parseQuoteCSV expects a header line and one data line. Shape is validated
// before any column is touched; malformed responses become apology text.
func parseQuoteCSV(display, csvText string) string {
	var lines []string
	for _, line := range strings.Split(strings.ReplaceAll(csvText, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) < 2 {
		log.Warn().Str("code", display).Str("response", csvText).Msg("invalid CSV response")
		return fmt.Sprintf("Unable to get quote for %s: Invalid data received", display)
	}

	values := strings.Split(lines[1], ",")
	if len(values) <= closeColumn {
		log.Warn().Str("code", display).Str("dataLine", lines[1]).Msg("insufficient data in CSV")
		return fmt.Sprintf("Unable to get quote for %s: Insufficient data", display)
	}

	symbol := strings.TrimSpace(values[0])
	closePrice := strings.TrimSpace(values[closeColumn])

	if strings.EqualFold(closePrice, noData) {
		log.Warn().Str("code", display).Msg("no price data for symbol")
		return fmt.Sprintf("No quote available for %s", display)
	}

	price, err := strconv.ParseFloat(closePrice, 64)
	if err != nil {
		log.Warn().Str("code", display).Str("close", closePrice).Msg("unparseable close price")
		return fmt.Sprintf("No quote available for %s", display)
	}

	message := fmt.Sprintf("%s quote is $%.2f per share", strings.ToUpper(symbol), price)
	log.Info().Str("code", display).Str("quote", message).Msg("quote formatted")
	return message
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
