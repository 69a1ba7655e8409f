package fixture_test

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-rod/harness/lib/fixture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	r := fixture.Router()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, fixture.CalculatorPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, `<input ng-model="a"`)
	assert.Contains(t, body, `<input ng-model="b"`)
	assert.Contains(t, body, `<select ng-model="operation"`)
	assert.Contains(t, body, `class="result"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, fixture.CalculatorPath, w.Header().Get("Location"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nothing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServe(t *testing.T) {
	s, err := fixture.Serve("")
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	assert.Equal(t, s.URL+fixture.CalculatorPath, s.CalculatorURL(0))
	assert.Equal(t, s.URL+fixture.CalculatorPath+"?delay=50", s.CalculatorURL(50*time.Millisecond))

	res, err := http.Get(s.CalculatorURL(0))
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	body, err := ioutil.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, fixture.CalculatorHTML, string(body))
}

func TestStall(t *testing.T) {
	s, err := fixture.Serve("")
	require.NoError(t, err)
	defer func() { assert.NoError(t, s.Close()) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.StallURL(), nil)
	require.NoError(t, err)

	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = res.Body.Close() }()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	buf := make([]byte, len("<html><body>loading"))
	_, err = io.ReadFull(res.Body, buf)
	require.NoError(t, err)
	assert.Equal(t, "<html><body>loading", string(buf))
}
