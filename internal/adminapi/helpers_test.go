package adminapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func testContext(t *testing.T, target string, header map[string]string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestParsePagination(t *testing.T) {
	c := testContext(t, "/?page=3&page_size=50", nil)
	page, pageSize := parsePagination(c)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, pageSize)

	c = testContext(t, "/", nil)
	page, pageSize = parsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)

	c = testContext(t, "/?page=0&page_size=5000", nil)
	page, pageSize = parsePagination(c)
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, pageSize)
}

func TestSessionIDHeaderWinsOverQuery(t *testing.T) {
	c := testContext(t, "/?session=from-query", map[string]string{"X-Session-ID": "from-header"})
	assert.Equal(t, "from-header", sessionID(c))

	c = testContext(t, "/?session=from-query", nil)
	assert.Equal(t, "from-query", sessionID(c))

	c = testContext(t, "/", nil)
	assert.Empty(t, sessionID(c))
}
