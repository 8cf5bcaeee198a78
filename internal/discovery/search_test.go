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
)

func linksHTML(ids ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, id := range ids {
		fmt.Fprintf(&sb, `<a href="/%s">hasil</a>`, id)
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

func TestSearchByKeywords(t *testing.T) {
	var searches int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		atomic.AddInt32(&searches, 1)
		switch r.URL.Query().Get("q") {
		case "password ui.ac.id":
			w.Write([]byte(linksHTML("aaaa1111", "bbbb2222")))
		case "leaked ui.ac.id":
			// bbbb2222 duplikat lintas keyword
			w.Write([]byte(linksHTML("bbbb2222", "cccc3333")))
		default:
			w.Write([]byte(linksHTML()))
		}
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.Sources = []string{srv.URL}
	e := newTestEngine(t, cfg, srv)

	got := e.SearchByKeywords(context.Background(), []string{"password ui.ac.id", "leaked ui.ac.id"}, 50)

	assert.Equal(t, []string{
		srv.URL + "/aaaa1111",
		srv.URL + "/bbbb2222",
		srv.URL + "/cccc3333",
	}, got, "duplikat lintas keyword harus dibuang, urutan penemuan dijaga")
	assert.Equal(t, int32(2), atomic.LoadInt32(&searches))
}

func TestSearchByKeywordsArchiveFallback(t *testing.T) {
	var archiveHits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/archive":
			atomic.AddInt32(&archiveHits, 1)
			w.Write([]byte(linksHTML("dddd4444", "eeee5555")))
		case "/dddd4444":
			w.Write([]byte("dump akun kampus, ada kata password di dalamnya"))
		case "/eeee5555":
			w.Write([]byte("catatan belanja tanpa sinyal apa pun"))
		default:
			// endpoint search tidak tersedia
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.Sources = []string{srv.URL}
	e := newTestEngine(t, cfg, srv)

	got := e.SearchByKeywords(context.Background(), []string{"password"}, 50)

	// cuma kandidat yang kontennya memuat keyword yang lolos
	assert.Equal(t, []string{srv.URL + "/dddd4444"}, got)
	assert.Equal(t, int32(1), atomic.LoadInt32(&archiveHits))
	// kegagalan search tercatat sebagai skip, bukan abort
	require.NotEmpty(t, e.skips)
	assert.Equal(t, "search", e.skips[0].Stage)
}

func TestSearchArchiveFallbackNoMatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/archive":
			w.Write([]byte(linksHTML("zzzz9999")))
		case "/zzzz9999":
			w.Write([]byte("konten lain yang tidak memuat kata itu"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.Sources = []string{srv.URL}
	e := newTestEngine(t, cfg, srv)

	// arsip ada isinya tapi tidak ada yang cocok: hasil kosong, bukan error
	got := e.SearchByKeywords(context.Background(), []string{"orgname"}, 50)
	assert.Empty(t, got)
}

func TestSearchArchiveFallbackInspectionCap(t *testing.T) {
	var inspected int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/archive":
			w.Write([]byte(linksHTML("aaaa0001", "aaaa0002", "aaaa0003")))
		case "/search":
			w.WriteHeader(http.StatusNotFound)
		default:
			atomic.AddInt32(&inspected, 1)
			w.Write([]byte("ada password di sini"))
		}
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.Sources = []string{srv.URL}
	cfg.ArchiveScanLimit = 2
	e := newTestEngine(t, cfg, srv)

	got := e.SearchByKeywords(context.Background(), []string{"password"}, 50)

	assert.Len(t, got, 2)
	assert.Equal(t, int32(2), atomic.LoadInt32(&inspected), "kandidat ketiga tidak boleh di-fetch")
}

func TestMirrorDiscoveryWithoutProxy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			w.Write([]byte(linksHTML("ffff6666")))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.MirrorSources = []string{srv.URL}
	parent, err := NewEngine(cfg)
	require.NoError(t, err)

	// tanpa socks proxy mirror tetap jalan lewat client default
	m, err := NewMirrorDiscovery(cfg, "", parent)
	require.NoError(t, err)

	got, err := m.Discover(context.Background(), []string{"password"}, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{srv.URL + "/ffff6666"}, got)
}

func TestMirrorDiscoverySkipsMergeToParent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.MirrorSources = []string{srv.URL}
	parent, err := NewEngine(cfg)
	require.NoError(t, err)
	m, err := NewMirrorDiscovery(cfg, "", parent)
	require.NoError(t, err)

	got, err := m.Discover(context.Background(), []string{"password"}, 50)
	require.NoError(t, err)
	assert.Empty(t, got)
	// skip jalur mirror muncul di ledger run utama
	require.NotEmpty(t, parent.skips)
	assert.Empty(t, m.engine.skips)
}

func TestSearchByKeywordsRespectsLimit(t *testing.T) {
	ids := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		ids = append(ids, fmt.Sprintf("link%04d", i))
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(linksHTML(ids...)))
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.Sources = []string{srv.URL}
	e := newTestEngine(t, cfg, srv)

	got := e.SearchByKeywords(context.Background(), []string{"password"}, 15)
	assert.Len(t, got, 15)
}

func TestSearchByKeywordsEmpty(t *testing.T) {
	e, err := NewEngine(fastConfig())
	require.NoError(t, err)
	assert.Nil(t, e.SearchByKeywords(context.Background(), nil, 50))
}

func TestSearchSubLimitFloor(t *testing.T) {
	// 50 / 8 keyword = 6 → floor naik ke 10 per keyword
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := make([]string, 0, 40)
		for i := 0; i < 40; i++ {
			ids = append(ids, fmt.Sprintf("%s%04d", r.URL.Query().Get("q"), i))
		}
		w.Write([]byte(linksHTML(ids...)))
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.Sources = []string{srv.URL}
	e := newTestEngine(t, cfg, srv)

	keywords := []string{"kw1a", "kw2a", "kw3a", "kw4a", "kw5a", "kw6a", "kw7a", "kw8a"}
	got := e.SearchByKeywords(context.Background(), keywords, 50)

	// tiap keyword dapat minimal 10 slot, total tetap dipotong di limit
	assert.Len(t, got, 50)
}
