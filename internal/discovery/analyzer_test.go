package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/leakwatch/internal/domain/findings"
)

func newTestEngine(t *testing.T, cfg Config, srv *httptest.Server) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return e
}

// pasteServer serve konten statis per path; path lain 404.
func pasteServer(pages map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
}

func TestAnalyzePasteCredentialsAlwaysIncluded(t *testing.T) {
	srv := pasteServer(map[string]string{
		"/abcd1234": "akun bocor\nusername: budi\npassword: rahasia123\nbudi@ui.ac.id",
	})
	defer srv.Close()

	e := newTestEngine(t, fastConfig(), srv)
	res := e.AnalyzePaste(context.Background(), srv.URL+"/abcd1234")

	require.Equal(t, OutcomeIncluded, res.Outcome)
	require.NotNil(t, res.Finding)
	f := res.Finding
	assert.True(t, f.HasCredentials)
	assert.Equal(t, srv.URL+"/abcd1234", f.URL)
	assert.Contains(t, srv.URL, f.Source)
	assert.Equal(t, findings.UnknownAuthor, f.Author)
	assert.Equal(t, []string{"budi@ui.ac.id"}, f.Emails)
	assert.Equal(t, []string{"budi@ui.ac.id"}, f.TargetEmails)
	assert.Greater(t, f.RelevanceScore, 0.0)
	assert.False(t, f.DiscoveredAt.IsZero())
}

func TestAnalyzePasteBelowThresholdExcluded(t *testing.T) {
	srv := pasteServer(map[string]string{
		"/boring11": "catatan belanja mingguan biasa saja",
	})
	defer srv.Close()

	e := newTestEngine(t, fastConfig(), srv)
	res := e.AnalyzePaste(context.Background(), srv.URL+"/boring11")

	assert.Equal(t, OutcomeExcluded, res.Outcome)
	assert.Nil(t, res.Finding)
}

func TestAnalyzePasteFetchFailure(t *testing.T) {
	srv := pasteServer(nil)
	defer srv.Close()

	e := newTestEngine(t, fastConfig(), srv)
	res := e.AnalyzePaste(context.Background(), srv.URL+"/missing1")

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.NotEmpty(t, res.Reason)
	assert.Nil(t, res.Finding)
}

func TestAnalyzePasteMetadata(t *testing.T) {
	page := `<html><body>
<div class="username"><a href="/u/alice">alice</a></div>
<div class="paste_box_line1" title="dump kampus"></div>
<pre>data ui.ac.id password leaked admin@ui.ac.id</pre>
</body></html>`
	srv := pasteServer(map[string]string{"/meta5678": page})
	defer srv.Close()

	e := newTestEngine(t, fastConfig(), srv)
	res := e.AnalyzePaste(context.Background(), srv.URL+"/meta5678")

	require.Equal(t, OutcomeIncluded, res.Outcome)
	assert.Equal(t, "alice", res.Finding.Author)
	assert.Equal(t, "dump kampus", res.Finding.Title)
}

func TestAnalyzePastePreviewClipped(t *testing.T) {
	cfg := fastConfig()
	cfg.PreviewLength = 50
	long := "password: hunter22 " + strings.Repeat("x", 500)
	srv := pasteServer(map[string]string{"/longpste": long})
	defer srv.Close()

	e := newTestEngine(t, cfg, srv)
	res := e.AnalyzePaste(context.Background(), srv.URL+"/longpste")

	require.Equal(t, OutcomeIncluded, res.Outcome)
	assert.Len(t, res.Finding.ContentPreview, 50)
}

func TestRawContentURL(t *testing.T) {
	cases := map[string]string{
		"https://pastebin.com/AbCd1234":     "https://pastebin.com/raw/AbCd1234",
		"https://pastebin.com/raw/AbCd1234": "https://pastebin.com/raw/AbCd1234",
		"https://paste.ee/p12345":           "https://paste.ee/r/p12345",
		"https://example.com/xyz":           "https://example.com/xyz",
	}
	for in, want := range cases {
		assert.Equal(t, want, rawContentURL(in), "input %s", in)
	}
}
