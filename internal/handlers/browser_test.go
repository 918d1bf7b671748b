package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBrowserRendersFactory checks the server-rendered pages in a real browser
func TestBrowserRendersFactory(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping browser test in short mode")
	}
	skipIfNoBrowser(t)

	h, _ := newTestHandler()
	ts := httptest.NewServer(setupTestRouter(h))
	defer ts.Close()

	l := launcher.New().Headless(true)
	browserURL := l.MustLaunch()
	defer l.Kill()

	browser := rod.New().ControlURL(browserURL).MustConnect()
	defer browser.MustClose()

	t.Run("home page", func(t *testing.T) {
		page := browser.MustPage(ts.URL)
		defer page.MustClose()
		page.MustWaitLoad()

		assert.Equal(t, "MTG Card Factory", page.MustInfo().Title)
		assert.True(t, page.MustHas("#deck-red"))
		assert.True(t, page.MustHas("#deck-blue"))
		assert.True(t, page.MustHas("input#cardName"))
		assert.Equal(t, "MTG Card Factory", page.MustElement("h1").MustText())
	})

	t.Run("deck page", func(t *testing.T) {
		page := browser.MustPage(ts.URL + "/deck/blue")
		defer page.MustClose()
		page.MustWaitLoad()

		require.True(t, page.MustHas("#deck-blue"))
		assert.Contains(t, page.MustElement(".deck-counts").MustText(), "0/60 cards")
	})
}

// skipIfNoBrowser skips when no Chrome or Chromium binary can be found
func skipIfNoBrowser(t *testing.T) {
	t.Helper()
	path, ok := launcher.LookPath()
	if !ok {
		t.Skip("Skipping browser test: Chrome/Chromium not available")
	}
	t.Logf("Using browser at %s", path)
}
