package scryfall

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a client at a synthetic provider. The courtesy limiter
// is disabled so timing assertions only see the page delay.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Config{
		BaseURL:   srv.URL,
		UserAgent: "mtgfactory-test/1.0",
		Timeout:   2 * time.Second,
	})
	return c, srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

const lightningBoltJSON = `{
	"object": "card",
	"name": "Lightning Bolt",
	"mana_cost": "{R}",
	"type_line": "Instant",
	"oracle_text": "Lightning Bolt deals 3 damage to any target.",
	"colors": ["R"],
	"image_uris": {"normal": "https://cards.example/bolt-normal.jpg", "art_crop": "https://cards.example/bolt-crop.jpg"}
}`

const notFoundJSON = `{"object":"error","code":"not_found","status":404,"details":"No cards found matching “Xyzzy”"}`

func TestLookupCard_Success(t *testing.T) {
	var gotPath, gotFuzzy string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFuzzy = r.URL.Query().Get("fuzzy")
		writeJSON(w, http.StatusOK, lightningBoltJSON)
	})

	got, err := c.LookupCard(context.Background(), "lightning bolt")
	require.NoError(t, err)

	assert.Equal(t, "/cards/named", gotPath)
	assert.Equal(t, "lightning bolt", gotFuzzy)
	assert.Equal(t, "Lightning Bolt", got.Name)
	assert.Equal(t, "{R}", got.ManaCost)
	assert.Equal(t, "Instant", got.TypeLine)
	assert.Equal(t, []string{"R"}, got.Colors)
	assert.Equal(t, "https://cards.example/bolt-normal.jpg", got.ImageURL)
	assert.Empty(t, got.Power)
	assert.Empty(t, got.Toughness)
}

func TestLookupCard_RequestHeaders(t *testing.T) {
	var headers http.Header
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		writeJSON(w, http.StatusOK, lightningBoltJSON)
	})

	_, err := c.LookupCard(context.Background(), "Lightning Bolt")
	require.NoError(t, err)

	assert.Equal(t, "mtgfactory-test/1.0", headers.Get("User-Agent"))
	assert.Equal(t, "application/json", headers.Get("Accept"))
	assert.Contains(t, headers.Get("Accept-Encoding"), "br")
}

func TestLookupCard_FuzzyTypoResolvesToCanonicalName(t *testing.T) {
	var searchQuery string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cards/named":
			if r.URL.Query().Get("fuzzy") != "Counterspel" {
				writeJSON(w, http.StatusNotFound, notFoundJSON)
				return
			}
			writeJSON(w, http.StatusOK, `{"object":"card","name":"Counterspell","mana_cost":"{U}{U}","type_line":"Instant","oracle_text":"Counter target spell.","colors":["U"]}`)
		case "/cards/search":
			searchQuery = r.URL.Query().Get("q")
			writeJSON(w, http.StatusOK, `{"object":"list","total_cards":1,"has_more":false,"data":[
				{"name":"Counterspell","set":"lea","set_name":"Limited Edition Alpha","collector_number":"54","artist":"Mark Poole",
				 "image_uris":{"normal":"https://cards.example/cs.jpg","art_crop":"https://cards.example/cs-crop.jpg"}}]}`)
		}
	})

	resolved, err := c.LookupCard(context.Background(), "Counterspel")
	require.NoError(t, err)
	assert.Equal(t, "Counterspell", resolved.Name)

	versions := c.LookupArtVersions(context.Background(), resolved.Name)
	require.Len(t, versions, 1)
	assert.Equal(t, `!"Counterspell" unique:art`, searchQuery)
	assert.Equal(t, "Mark Poole", versions[0].Artist)
}

func TestLookupCard_RepeatedCallsAreStable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, lightningBoltJSON)
	})

	first, err := c.LookupCard(context.Background(), "bolt")
	require.NoError(t, err)
	second, err := c.LookupCard(context.Background(), "bolt")
	require.NoError(t, err)

	assert.NotEmpty(t, first.Name)
	assert.Equal(t, first, second)
}

func TestLookupCard_InvalidQuery(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		writeJSON(w, http.StatusOK, lightningBoltJSON)
	})

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := c.LookupCard(context.Background(), q)
		assert.ErrorIs(t, err, ErrInvalidQuery, "query %q", q)
	}
	assert.Zero(t, atomic.LoadInt32(&hits), "blank queries must not reach the provider")
}

func TestLookupCard_NotFound(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantAmbiguous bool
	}{
		{
			name:   "404 error envelope",
			status: http.StatusNotFound,
			body:   notFoundJSON,
		},
		{
			name:   "error envelope inside 200",
			status: http.StatusOK,
			body:   `{"object":"error","code":"not_found","details":"No match"}`,
		},
		{
			name:          "ambiguous name",
			status:        http.StatusNotFound,
			body:          `{"object":"error","code":"not_found","type":"ambiguous","status":404,"details":"Too many cards match ambiguous name “bolt”."}`,
			wantAmbiguous: true,
		},
		{
			name:   "400 error envelope",
			status: http.StatusBadRequest,
			body:   `{"object":"error","code":"bad_request","status":400,"details":"Invalid name"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := c.LookupCard(context.Background(), "Xyzzy")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.NotErrorIs(t, err, ErrTransient)

			var nf *NotFoundError
			require.True(t, errors.As(err, &nf))
			assert.Equal(t, "Xyzzy", nf.Query)
			assert.Equal(t, tt.wantAmbiguous, nf.Ambiguous)
		})
	}
}

func TestLookupCard_TransientErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "500 plain text",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte("server error"))
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "429 error envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusTooManyRequests, `{"object":"error","code":"rate_limited","status":429,"details":"Slow down"}`)
			},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name: "503 error envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusServiceUnavailable, `{"object":"error","code":"unavailable","status":503}`)
			},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name: "404 without envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte("<html>gone</html>"))
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "invalid JSON",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, "{invalid json}")
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "empty body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, "")
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "card without name",
			handler: func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, `{"object":"card","type_line":"Instant"}`)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)

			_, err := c.LookupCard(context.Background(), "Lightning Bolt")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTransient)
			assert.NotErrorIs(t, err, ErrNotFound)

			var te *TransientError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.wantStatus, te.Status)
			assert.NotEmpty(t, te.Error())
		})
	}
}

func TestLookupCard_NetworkError(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, lightningBoltJSON)
	})
	srv.Close()

	_, err := c.LookupCard(context.Background(), "Lightning Bolt")
	assert.ErrorIs(t, err, ErrTransient)
}

func TestLookupCard_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, Timeout: 100 * time.Millisecond})

	start := time.Now()
	_, err := c.LookupCard(context.Background(), "Lightning Bolt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransient)
	assert.Less(t, time.Since(start), 1500*time.Millisecond)
}

func TestLookupCard_RateLimiterHonorsContext(t *testing.T) {
	c := New(Config{
		BaseURL:           "http://127.0.0.1:0",
		RequestsPerSecond: 0.001,
		Burst:             1,
	})
	// Drain the only token
	require.True(t, c.limiter.Allow())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.LookupCard(ctx, "Lightning Bolt")
	assert.ErrorIs(t, err, ErrTransient)
}

// searchPages serves a fixed sequence of search pages. Each page links to
// the next with an absolute URL carrying a token the client cannot guess.
type searchPages struct {
	mu       sync.Mutex
	srv      *httptest.Server
	pages    []string
	failPage int
	requests []string
	times    []time.Time
}

func (s *searchPages) handler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	s.times = append(s.times, time.Now())
	n := len(s.requests)
	s.mu.Unlock()

	if s.failPage > 0 && n >= s.failPage {
		// Drop the connection to simulate a network failure. The transport may
		// replay the GET once on a fresh connection, so keep failing.
		hj, ok := w.(http.Hijacker)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		conn, _, err := hj.Hijack()
		if err == nil {
			conn.Close()
		}
		return
	}
	if n > len(s.pages) {
		writeJSON(w, http.StatusNotFound, notFoundJSON)
		return
	}
	writeJSON(w, http.StatusOK, s.pages[n-1])
}

func (s *searchPages) recorded() ([]string, []time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...), append([]time.Time(nil), s.times...)
}

func (s *searchPages) nextURL(page int) string {
	return fmt.Sprintf("%s/cards/search?page=%d&token=opaque-%d", s.srv.URL, page, page*7)
}

func (s *searchPages) page(n int, hasMore bool) string {
	next := ""
	if hasMore {
		next = s.nextURL(n + 1)
	}
	return fmt.Sprintf(`{"object":"list","total_cards":6,"has_more":%t,"next_page":%q,"data":[
		{"name":"Lightning Bolt","set":"s%[3]d","set_name":"Set %[3]d","collector_number":"%[3]d","artist":"Artist %[3]d",
		 "image_uris":{"normal":"https://cards.example/%[3]d-a.jpg","art_crop":"https://cards.example/%[3]d-a-crop.jpg"}},
		{"name":"Lightning Bolt","set":"t%[3]d","set_name":"Token %[3]d","collector_number":"%[3]db","artist":"Artist %[3]db",
		 "image_uris":{"normal":"https://cards.example/%[3]d-b.jpg"}}
	]}`, hasMore, next, n)
}

func newSearchPages(t *testing.T, hasMore ...bool) (*Client, *searchPages) {
	t.Helper()
	s := &searchPages{}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handler))
	t.Cleanup(s.srv.Close)
	for i, more := range hasMore {
		s.pages = append(s.pages, s.page(i+1, more))
	}
	c := New(Config{BaseURL: s.srv.URL, Timeout: 2 * time.Second})
	return c, s
}

func TestLookupArtVersions_FollowsPagination(t *testing.T) {
	c, s := newSearchPages(t, true, true, false)

	versions := c.LookupArtVersions(context.Background(), "Lightning Bolt")
	requests, times := s.recorded()

	require.Len(t, requests, 3)
	assert.Equal(t, "/cards/search?page=2&token=opaque-14", requests[1])
	assert.Equal(t, "/cards/search?page=3&token=opaque-21", requests[2])
	for i := 1; i < len(times); i++ {
		gap := times[i].Sub(times[i-1])
		assert.GreaterOrEqual(t, gap, MinPageDelay, "gap before request %d", i+1)
	}

	require.Len(t, versions, 6)
	assert.Equal(t, "s1", versions[0].SetCode)
	assert.Equal(t, "t3", versions[5].SetCode)
	for _, v := range versions {
		assert.True(t, v.HasImage())
	}
}

func TestLookupArtVersions_FirstRequestIsExactUniqueArtSearch(t *testing.T) {
	c, s := newSearchPages(t, false)

	c.LookupArtVersions(context.Background(), "Lightning Bolt")
	requests, _ := s.recorded()

	require.Len(t, requests, 1)
	req, err := http.NewRequest(http.MethodGet, s.srv.URL+requests[0], nil)
	require.NoError(t, err)
	assert.Equal(t, "/cards/search", req.URL.Path)
	assert.Equal(t, `!"Lightning Bolt" unique:art`, req.URL.Query().Get("q"))
}

func TestLookupArtVersions_PartialFailureKeepsEarlierPages(t *testing.T) {
	c, s := newSearchPages(t, true, true, false)
	s.failPage = 2

	versions := c.LookupArtVersions(context.Background(), "Lightning Bolt")

	require.Len(t, versions, 2)
	assert.Equal(t, "s1", versions[0].SetCode)
	assert.Equal(t, "t1", versions[1].SetCode)
	requests, _ := s.recorded()
	for _, r := range requests {
		assert.NotContains(t, r, "page=3", "the walk must stop at the failed page")
	}
}

func TestLookupArtVersions_FirstPageFailureReturnsEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"no cards found", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, notFoundJSON)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"invalid JSON", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, "{nope")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, tt.handler)

			versions := c.LookupArtVersions(context.Background(), "Lightning Bolt")
			assert.NotNil(t, versions)
			assert.Empty(t, versions)
		})
	}
}

func TestLookupArtVersions_BlankNameSkipsRequest(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	})

	versions := c.LookupArtVersions(context.Background(), "  ")
	assert.NotNil(t, versions)
	assert.Empty(t, versions)
	assert.Zero(t, atomic.LoadInt32(&hits))
}

func TestLookupArtVersions_StopsAtMaxPages(t *testing.T) {
	s := &searchPages{}
	s.srv = httptest.NewServer(http.HandlerFunc(s.handler))
	defer s.srv.Close()
	for i := 1; i <= 5; i++ {
		s.pages = append(s.pages, s.page(i, true))
	}

	c := New(Config{BaseURL: s.srv.URL, MaxPages: 2})
	versions := c.LookupArtVersions(context.Background(), "Lightning Bolt")
	requests, _ := s.recorded()

	assert.Len(t, requests, 2)
	assert.Len(t, versions, 4)
}

func TestLookupArtVersions_CancelDuringDelayReturnsPartial(t *testing.T) {
	c, s := newSearchPages(t, true, false)
	c.pageDelay = 5 * time.Second

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	versions := c.LookupArtVersions(ctx, "Lightning Bolt")

	assert.Less(t, time.Since(start), 2*time.Second)
	requests, _ := s.recorded()
	assert.Len(t, requests, 1)
	assert.Len(t, versions, 2)
}

func TestLookupArtVersions_ConcurrentCalls(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"object":"list","has_more":false,"data":[
			{"name":"X","set":"abc","image_uris":{"normal":"https://cards.example/x.jpg"}}]}`)
	})

	var wg sync.WaitGroup
	results := make([]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = len(c.LookupArtVersions(context.Background(), fmt.Sprintf("Card %d", i)))
		}(i)
	}
	wg.Wait()

	for i, n := range results {
		assert.Equal(t, 1, n, "call %d", i)
	}
}

func TestNew_AppliesDefaults(t *testing.T) {
	c := New(Config{PageDelay: time.Millisecond})

	assert.Equal(t, DefaultBaseURL, c.baseURL)
	assert.Equal(t, DefaultUserAgent, c.userAgent)
	assert.Equal(t, MinPageDelay, c.pageDelay)
	assert.Equal(t, defaultMaxPages, c.maxPages)
	assert.Equal(t, defaultTimeout, c.timeout)
	assert.Nil(t, c.limiter)
	require.NotNil(t, c.http)
	assert.Equal(t, defaultTimeout, c.http.Timeout)
}

func TestNew_DefaultConfigEnablesCourtesyLimiter(t *testing.T) {
	c := New(DefaultConfig())
	require.NotNil(t, c.limiter)
	assert.Equal(t, 10, c.limiter.Burst())
}
