package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTitle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/titled":
			_, _ = w.Write([]byte(`<html><head><title>
				Example   Domain
			</title><title>Second</title></head><body></body></html>`))
		case "/entities":
			_, _ = w.Write([]byte(`<title>Tom &amp; Jerry</title>`))
		case "/untitled":
			_, _ = w.Write([]byte(`<html><body><h1>hi</h1></body></html>`))
		case "/latin1":
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<title>Caf\xe9 Men\xfc</title>"))
		case "/cp1251":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><head><meta charset=\"windows-1251\"><title>\xcf\xf0\xe8\xe2\xe5\xf2</title></head></html>"))
		case "/blank":
			_, _ = w.Write([]byte(`<title>   </title>`))
		case "/slow":
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewTitleFetcher(srv.Client(), 100*time.Millisecond, nil)

	cases := []struct {
		name     string
		url      string
		want     string
		fromPage bool
	}{
		{"first title collapsed", srv.URL + "/titled", "Example Domain", true},
		{"entities decoded", srv.URL + "/entities", "Tom & Jerry", true},
		{"latin-1 title decoded", srv.URL + "/latin1", "Café Menü", true},
		{"charset from meta", srv.URL + "/cp1251", "Привет", true},
		{"no title element", srv.URL + "/untitled", srv.URL + "/untitled", false},
		{"blank title", srv.URL + "/blank", srv.URL + "/blank", false},
		{"non-2xx", srv.URL + "/missing", srv.URL + "/missing", false},
		{"timeout", srv.URL + "/slow", srv.URL + "/slow", false},
		{"unreachable", "http://127.0.0.1:1/", "http://127.0.0.1:1/", false},
		{"malformed url", "http://[::1", "http://[::1", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := f.FetchTitle(context.Background(), tc.url)
			assert.Equal(t, tc.want, got.Text)
			assert.Equal(t, tc.fromPage, got.FromPage)
		})
	}
}

func TestFetchTitle_AlwaysValidUTF8(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/nul":
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<title>Caf\xe9 \x00Men\xfc</title>"))
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<title>Caf\xe9</title>"))
		}
	}))
	defer srv.Close()

	f := NewTitleFetcher(srv.Client(), time.Second, nil)

	for _, path := range []string{"/nul", "/mislabelled"} {
		got := f.FetchTitle(context.Background(), srv.URL+path)
		assert.True(t, utf8.ValidString(got.Text), "title %q is not valid UTF-8", got.Text)
		assert.NotContains(t, got.Text, "\x00")
		assert.NotEmpty(t, got.Text)
	}
}

func TestFetchTitle_SchemelessURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<title>Home</title>`))
	}))
	defer srv.Close()

	hostOnly := strings.TrimPrefix(srv.URL, "http://")
	got := NewTitleFetcher(srv.Client(), time.Second, nil).FetchTitle(context.Background(), hostOnly)
	assert.Equal(t, Title{Text: "Home", FromPage: true}, got)
}

func TestFetchURL(t *testing.T) {
	assert.Equal(t, "http://example.com", fetchURL("example.com"))
	assert.Equal(t, "http://www.example.com/page", fetchURL("www.example.com/page"))
	assert.Equal(t, "https://example.com", fetchURL("https://example.com"))
	assert.Equal(t, "ftp://files.example.com/a", fetchURL("ftp://files.example.com/a"))
}

func TestFetchTitle_TimeoutIsBounded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	f := NewTitleFetcher(srv.Client(), 50*time.Millisecond, nil)

	start := time.Now()
	got := f.FetchTitle(context.Background(), srv.URL)
	require.Less(t, time.Since(start), time.Second)
	assert.Equal(t, srv.URL, got.Text)
}

func TestExtractTitle(t *testing.T) {
	got, err := extractTitle(strings.NewReader(`<svg><title>icon</title></svg><title>Page</title>`))
	require.NoError(t, err)
	assert.Equal(t, "icon", got)

	got, err = extractTitle(strings.NewReader(`<p>no title`))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewTitleFetcher_Defaults(t *testing.T) {
	f := NewTitleFetcher(nil, 0, nil)
	assert.NotNil(t, f.client)
	assert.Equal(t, DefaultTimeout, f.timeout)
	assert.NotNil(t, f.log)
}
