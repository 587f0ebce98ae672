package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ScrapeDebLinks(t *testing.T) {
	t.Parallel()

	listing := `<html><body>
<a href="debs/com.example.foo_1.0_arm.deb">foo</a>
<a href="debs/com.example.bar_2.0_arm.deb?download=1">bar</a>
<a href="debs/com.example.foo_1.0_arm.deb">duplicate</a>
<a href="https://mirror.example.net/other/com.example.ext_1.0_arm.deb">external</a>
<a href="readme.txt">not an archive</a>
<a href="../escape/com.example.up_1.0_arm.deb#frag">parent</a>
</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repo/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(listing))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, WithRetries(0))

	links, err := c.ScrapeDebLinks(context.Background(), srv.URL+"/repo/")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"debs/com.example.foo_1.0_arm.deb",
		"debs/com.example.bar_2.0_arm.deb",
		"https://mirror.example.net/other/com.example.ext_1.0_arm.deb",
		srv.URL + "/escape/com.example.up_1.0_arm.deb",
	}, links)
}

func TestClient_ScrapeDebLinks_EmptyListing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>nothing here</body></html>"))
	}))
	t.Cleanup(srv.Close)

	c := newTestClient(t, WithRetries(0))

	links, err := c.ScrapeDebLinks(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Empty(t, links)
}
