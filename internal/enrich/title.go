// Package enrich derives bookmark metadata from the bookmarked page.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

// DefaultTimeout is the time budget for a single title fetch.
const DefaultTimeout = 5 * time.Second

// maxBody caps how much of a page is read while looking for a title.
const maxBody = 1 << 20

// Title is the outcome of an enrichment attempt. Text is always usable:
// it is either the page title or the URL itself.
type Title struct {
	// Text is the title to store.
	Text string
	// FromPage reports whether Text came from the page rather than the fallback.
	FromPage bool
}

// TitleFetcher fetches page titles with a bounded, single attempt.
type TitleFetcher struct {
	client  *http.Client
	timeout time.Duration
	log     *zap.Logger
}

// NewTitleFetcher returns a TitleFetcher. A nil client uses a client without
// its own timeout; the per-call timeout always applies.
func NewTitleFetcher(client *http.Client, timeout time.Duration, log *zap.Logger) *TitleFetcher {
	if client == nil {
		client = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &TitleFetcher{client: client, timeout: timeout, log: log}
}

// FetchTitle retrieves rawURL and returns the text of its first <title>
// element. Any failure yields the URL as the title.
func (f *TitleFetcher) FetchTitle(ctx context.Context, rawURL string) Title {
	text, err := f.fetch(ctx, rawURL)
	if err != nil {
		f.log.Debug("title enrichment fell back to url", zap.String("url", rawURL), zap.Error(err))
		return Title{Text: rawURL}
	}
	if text == "" {
		f.log.Debug("page has no title", zap.String("url", rawURL))
		return Title{Text: rawURL}
	}
	return Title{Text: text, FromPage: true}
}

func (f *TitleFetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL(rawURL), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode}
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBody), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	title, err := extractTitle(body)
	if err != nil {
		return "", err
	}
	if !utf8.ValidString(title) || strings.ContainsRune(title, 0) {
		return "", errMalformedTitle
	}
	return title, nil
}

// errMalformedTitle reports a title that cannot be stored as text.
var errMalformedTitle = errors.New("title is not valid UTF-8")

// fetchURL returns the address to request for rawURL. Bookmarks may be
// stored without a scheme; those are fetched over http.
func fetchURL(rawURL string) string {
	if strings.Contains(rawURL, "://") {
		return rawURL
	}
	return "http://" + rawURL
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return "unexpected status " + http.StatusText(e.Code)
}

// extractTitle scans r for the first <title> element and returns its text
// with whitespace collapsed. It returns "" when no title is found.
func extractTitle(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	inTitle := false
	var b strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return collapse(b.String()), nil
			}
			return "", z.Err()
		case html.StartTagToken:
			if name, _ := z.TagName(); atom.Lookup(name) == atom.Title {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				b.Write(z.Text())
			}
		case html.EndTagToken:
			if inTitle {
				if name, _ := z.TagName(); atom.Lookup(name) == atom.Title {
					return collapse(b.String()), nil
				}
			}
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
