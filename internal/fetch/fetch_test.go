package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	var gotUA, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, ChromeUserAgent, gotUA)
	assert.Contains(t, gotAccept, "text/html")
}

func TestURL_InvalidURL(t *testing.T) {
	tests := []string{"not-a-valid-url", "", "ftp://example.com/job", "https://"}
	for _, raw := range tests {
		t.Run(raw, func(t *testing.T) {
			_, err := URL(context.Background(), raw, nil)
			require.Error(t, err)

			var fetchErr *Error
			require.ErrorAs(t, err, &fetchErr)
			assert.True(t, errors.Is(err, ErrInvalidURL))
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, http.StatusForbidden, result.StatusCode)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
	assert.False(t, fetchErr.Timeout)
	assert.Contains(t, err.Error(), "403")
}

func TestURL_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	start := time.Now()
	_, err := URL(context.Background(), server.URL, &Options{Timeout: 50 * time.Millisecond})
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.Timeout)
	assert.Contains(t, err.Error(), "timed out")
}

func TestHTTPFetcher_UsesOptions(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	f := &HTTPFetcher{Options: &Options{UserAgent: "custom-agent"}}
	_, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "custom-agent", gotUA)
}

func TestValidateURL(t *testing.T) {
	u, err := ValidateURL("  https://boards.greenhouse.io/acme/jobs/1  ")
	require.NoError(t, err)
	assert.Equal(t, "boards.greenhouse.io", u.Hostname())

	_, err = ValidateURL("mailto:jobs@example.com")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

func TestBodyText_DropsNoise(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Main   Content</h1>
				<p>This is the important text.</p>
			</main>
			<script>var x = 1;</script>
			<footer>Footer</footer>
		</body>
	</html>`
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	text := BodyText(doc)
	assert.Contains(t, text, "Main Content")
	assert.Contains(t, text, "important text")
	assert.NotContains(t, text, "Navigation")
	assert.NotContains(t, text, "Footer")
	assert.NotContains(t, text, "var x")

	// the document itself is left intact
	assert.Equal(t, 1, doc.Find("nav").Length())
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a b\nc", CleanWhitespace("  a   b \n\n\t\n c  "))
	assert.Equal(t, "", CleanWhitespace(" \n \n"))
}

func TestBlockText(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<div id="x"><p>One</p><p>Two<br>Three</p><script>skip()</script><ul><li>A</li><li>B</li></ul></div>`))
	require.NoError(t, err)

	text := CleanWhitespace(BlockText(doc.Find("#x")))
	assert.Equal(t, "One\nTwo\nThree\nA\nB", text)
}
