package harness_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-rod/harness"
	"github.com/go-rod/harness/lib/js"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// fakeBrowser answers the methods the harness calls with canned results.
// Element lookups whose expression mentions "missing" resolve to null.
type fakeBrowser struct {
	srv *httptest.Server

	mu    sync.Mutex
	calls []gjson.Result
}

func newFakeBrowser(t *testing.T) *fakeBrowser {
	fb := &fakeBrowser{}
	upgrader := websocket.Upgrader{}
	objects := 0

	fb.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			req := gjson.ParseBytes(data)
			fb.mu.Lock()
			fb.calls = append(fb.calls, req)
			fb.mu.Unlock()

			result := `{}`
			params := req.Get("params")

			switch req.Get("method").String() {
			case "Target.createBrowserContext":
				result = `{"browserContextId":"ctx-1"}`
			case "Target.createTarget":
				result = `{"targetId":"target-1"}`
			case "Target.attachToTarget":
				result = `{"sessionId":"session-1"}`
			case "Page.navigate":
				result = `{"frameId":"frame-1"}`
				if strings.Contains(params.Get("url").String(), "refused") {
					result = `{"frameId":"frame-1","errorText":"net::ERR_CONNECTION_REFUSED"}`
				}
			case "Runtime.evaluate":
				expr := params.Get("expression").String()
				switch {
				case expr == "document.readyState":
					result = `{"result":{"type":"string","value":"complete"}}`
				case strings.Contains(expr, "missing"):
					result = `{"result":{"type":"object","subtype":"null","value":null}}`
				default:
					objects++
					result, _ = sjson.Set(`{"result":{"type":"object","subtype":"node"}}`, "result.objectId", fmt.Sprint(objects))
				}
			case "Runtime.callFunctionOn":
				fn := params.Get("functionDeclaration").String()
				arg := params.Get("arguments.0.value").String()
				switch fn {
				case js.SelectText.Definition:
					result, _ = sjson.Set(`{"result":{"type":"boolean"}}`, "result.value", arg == "+" || arg == "")
				case js.Text.Definition:
					result = `{"result":{"type":"string","value":"3 + 5 = 8"}}`
				default:
					result = `{"result":{"type":"undefined"}}`
				}
			}

			res, _ := sjson.SetBytes([]byte(`{}`), "id", req.Get("id").Int())
			res, _ = sjson.SetRawBytes(res, "result", []byte(result))
			if err := conn.WriteMessage(websocket.TextMessage, res); err != nil {
				return
			}
		}
	}))
	t.Cleanup(fb.srv.Close)

	return fb
}

func (fb *fakeBrowser) url() string {
	return "ws" + strings.TrimPrefix(fb.srv.URL, "http") + "/devtools/browser/fake"
}

// methods called so far, in order
func (fb *fakeBrowser) methods() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	list := []string{}
	for _, c := range fb.calls {
		list = append(list, c.Get("method").String())
	}
	return list
}

func (fb *fakeBrowser) find(method string) []gjson.Result {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	list := []gjson.Result{}
	for _, c := range fb.calls {
		if c.Get("method").String() == method {
			list = append(list, c)
		}
	}
	return list
}

func connectFake(t *testing.T) (*fakeBrowser, *harness.Session, *harness.Page) {
	fb := newFakeBrowser(t)

	s, err := harness.Connect(context.Background(), fb.url())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	p, err := s.NewPage()
	require.NoError(t, err)

	return fb, s, p
}

func TestFakeSessionLifecycle(t *testing.T) {
	fb, s, _ := connectFake(t)

	created := fb.find("Target.createTarget")
	require.Len(t, created, 1)
	assert.Equal(t, "ctx-1", created[0].Get("params.browserContextId").String())
	assert.Equal(t, "about:blank", created[0].Get("params.url").String())

	attached := fb.find("Target.attachToTarget")
	require.Len(t, attached, 1)
	assert.True(t, attached[0].Get("params.flatten").Bool())

	require.NoError(t, s.Close())

	disposed := fb.find("Target.disposeBrowserContext")
	require.Len(t, disposed, 1)
	assert.Equal(t, "ctx-1", disposed[0].Get("params.browserContextId").String())
	assert.NotContains(t, fb.methods(), "Browser.close")
}

func TestFakeConnectEmptyURL(t *testing.T) {
	_, err := harness.Connect(context.Background(), "")
	assert.Error(t, err)
}

func TestFakeNavigate(t *testing.T) {
	fb, _, p := connectFake(t)

	require.NoError(t, p.Navigate("http://calculator.test/"))

	nav := fb.find("Page.navigate")
	require.Len(t, nav, 1)
	assert.Equal(t, "session-1", nav[0].Get("sessionId").String())

	err := p.Navigate("http://refused.test/")
	assert.True(t, harness.IsError(err, harness.ErrNavigation))
	assert.False(t, harness.IsError(err, harness.ErrTimeout))
	assert.Contains(t, err.Error(), "net::ERR_CONNECTION_REFUSED")
}

func TestFakeElementNotFound(t *testing.T) {
	fb, _, p := connectFake(t)

	_, err := p.Text(harness.CSS("missing", "#missing"))
	assert.True(t, harness.IsError(err, harness.ErrElementNotFound))

	// not retried
	assert.Len(t, fb.find("Runtime.evaluate"), 1)
	assert.Len(t, fb.find("Runtime.releaseObject"), 0)

	has, err := p.Has(harness.CSS("missing", "#missing"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestFakeSelect(t *testing.T) {
	fb, _, p := connectFake(t)
	l := harness.CSS("operation-select", "select")

	require.NoError(t, p.Select(l, "+"))

	err := p.Select(l, "%")
	assert.True(t, harness.IsError(err, harness.ErrOptionNotFound))

	calls := fb.find("Runtime.callFunctionOn")
	require.Len(t, calls, 2)
	assert.Equal(t, "%", calls[1].Get("params.arguments.0.value").String())
	assert.True(t, calls[1].Get("params.returnByValue").Bool())
}

func TestFakeElementsReleased(t *testing.T) {
	fb, _, p := connectFake(t)
	p = p.WaitOptions(fast)

	text, err := p.Text(harness.Class("result-display", "result"))
	require.NoError(t, err)
	assert.Equal(t, "3 + 5 = 8", text)

	lookups := fb.find("Runtime.evaluate")
	released := fb.find("Runtime.releaseObject")
	assert.Len(t, lookups, 3)
	assert.Len(t, released, 3)

	for i, l := range lookups {
		assert.Equal(t, harness.ObjectGroup, l.Get("params.objectGroup").String())
		assert.Equal(t, fmt.Sprint(i+1), released[i].Get("params.objectId").String())
	}

	require.NoError(t, p.Input(harness.CSS("operand-a", "input"), "12"))
	insert := fb.find("Input.insertText")
	require.Len(t, insert, 1)
	assert.Equal(t, "12", insert[0].Get("params.text").String())
	assert.Len(t, fb.find("Runtime.releaseObject"), 4)

	require.NoError(t, p.ReleaseElements())
	assert.Len(t, fb.find("Runtime.releaseObjectGroup"), 1)
}
