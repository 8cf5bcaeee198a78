package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/leakwatch/internal/domain/findings"
)

// authorServer: /u/<name> profil berisi link paste, /<id> konten paste.
func authorServer(profile string, pastes map[string]string, hits *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if strings.HasPrefix(r.URL.Path, "/u/") {
			w.Write([]byte(profile))
			return
		}
		body, ok := pastes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(body))
	}))
}

func profileHTML(ids ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, id := range ids {
		fmt.Fprintf(&sb, `<a href="/%s">paste</a>`, id)
	}
	// link non-paste harus diabaikan
	sb.WriteString(`<a href="/archive">arsip</a><a href="/u/other">user lain</a>`)
	sb.WriteString("</body></html>")
	return sb.String()
}

func TestExpandAuthorUnknownIsNoop(t *testing.T) {
	var hits int32
	srv := authorServer("", nil, &hits)
	defer srv.Close()

	e := newTestEngine(t, fastConfig(), srv)
	got := e.ExpandAuthor(context.Background(), findings.UnknownAuthor, srv.URL)

	assert.Nil(t, got)
	assert.Zero(t, atomic.LoadInt32(&hits), "unknown author tidak boleh menyentuh network")
}

func TestExpandAuthorProcessedOnce(t *testing.T) {
	var hits int32
	srv := authorServer(profileHTML(), nil, &hits)
	defer srv.Close()

	e := newTestEngine(t, fastConfig(), srv)
	e.ExpandAuthor(context.Background(), "alice", srv.URL)
	first := atomic.LoadInt32(&hits)
	require.NotZero(t, first)

	e.ExpandAuthor(context.Background(), "alice", srv.URL)
	assert.Equal(t, first, atomic.LoadInt32(&hits), "author yang sudah diproses harus no-op")
}

func TestExpandAuthorAnalyzesPastes(t *testing.T) {
	var hits int32
	srv := authorServer(
		profileHTML("aaaa1111", "bbbb2222", "cccc3333"),
		map[string]string{
			"/aaaa1111": "password: hunter22 milik budi@ui.ac.id",
			"/bbbb2222": "catatan biasa tanpa apa pun",
			"/cccc3333": "dump database leaked ui.ac.id admin@ui.ac.id password",
		},
		&hits,
	)
	defer srv.Close()

	e := newTestEngine(t, fastConfig(), srv)
	got := e.ExpandAuthor(context.Background(), "alice", srv.URL)

	require.Len(t, got, 2)
	urls := []string{got[0].URL, got[1].URL}
	assert.Contains(t, urls, srv.URL+"/aaaa1111")
	assert.Contains(t, urls, srv.URL+"/cccc3333")
}

func TestExpandAuthorFanoutCapped(t *testing.T) {
	ids := make([]string, 0, 30)
	pastes := make(map[string]string, 30)
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("past%04d", i)
		ids = append(ids, id)
		pastes["/"+id] = "password: hunter22"
	}
	var hits int32
	srv := authorServer(profileHTML(ids...), pastes, &hits)
	defer srv.Close()

	cfg := fastConfig()
	cfg.AuthorCrawlLimit = 5
	e := newTestEngine(t, cfg, srv)
	got := e.ExpandAuthor(context.Background(), "alice", srv.URL)

	assert.Len(t, got, 5, "fan-out per author harus dibatasi")
}

func TestExpandAuthorSkipsDiscovered(t *testing.T) {
	var hits int32
	srv := authorServer(
		profileHTML("aaaa1111"),
		map[string]string{"/aaaa1111": "password: hunter22"},
		&hits,
	)
	defer srv.Close()

	e := newTestEngine(t, fastConfig(), srv)
	// URL sudah pernah dianalisis di jalur lain
	e.discovered[srv.URL+"/aaaa1111"] = struct{}{}

	got := e.ExpandAuthor(context.Background(), "alice", srv.URL)
	assert.Empty(t, got)
}

func TestExpandAuthorProfileFetchFailureRecorded(t *testing.T) {
	srv := pasteServer(nil) // semua path 404
	defer srv.Close()

	e := newTestEngine(t, fastConfig(), srv)
	got := e.ExpandAuthor(context.Background(), "alice", srv.URL)

	assert.Nil(t, got)
	require.Len(t, e.skips, 1)
	assert.Equal(t, "frontier", e.skips[0].Stage)
}
