// Package cdp for application layer communication with browser.
package cdp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/go-rod/harness/lib/defaults"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrConnClosed is returned by Call once the websocket is gone
var ErrConnClosed = errors.New("cdp connection closed")

// ErrMalformedResponse is returned by Call when the browser replies with something that can't be decoded
var ErrMalformedResponse = errors.New("cdp malformed response")

// Client is a devtools protocol connection instance.
// To enable debug log, set env "harness=cdp".
type Client struct {
	ctx   context.Context
	close func()

	wsURL  string
	header http.Header
	ws     WebSocketable

	muSend sync.Mutex

	pending *pendingRequests // buffer for response from browser

	chEvent chan *Event // events from browser

	count uint64

	debug bool
}

// Request to send to browser
type Request struct {
	ID        int         `json:"id"`
	SessionID string      `json:"sessionId,omitempty"`
	Method    string      `json:"method"`
	Params    interface{} `json:"params,omitempty"`
}

// Response from browser
type Response struct {
	ID     int             `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// Event from browser
type Event struct {
	SessionID string          `json:"sessionId,omitempty"`
	Method    string          `json:"method"`
	Params    json.RawMessage `json:"params,omitempty"`
}

// WebSocketable enables you to choose the websocket lib you want to use.
// The default one is based on gorilla/websocket.
type WebSocketable interface {
	// Connect to server
	Connect(ctx context.Context, url string, header http.Header) error
	// Send text message only
	Send([]byte) error
	// Read returns text message only
	Read() ([]byte, error)
	// Close the connection
	Close() error
}

// New creates a cdp connection, all messages from Client.Event must be received or they will block the client.
func New(websocketURL string) *Client {
	return &Client{
		pending: newPendingRequests(),
		chEvent: make(chan *Event),
		wsURL:   websocketURL,
		debug:   defaults.CDP,
	}
}

// Header set the header of the remote control websocket request
func (cdp *Client) Header(header http.Header) *Client {
	cdp.header = header
	return cdp
}

// Websocket set the websocket lib to use
func (cdp *Client) Websocket(ws WebSocketable) *Client {
	cdp.ws = ws
	return cdp
}

// Debug enables or disables the log of every message that goes through the client
func (cdp *Client) Debug(enable bool) *Client {
	cdp.debug = enable
	return cdp
}

// Connect to browser
func (cdp *Client) Connect(ctx context.Context) error {
	if cdp.ws == nil {
		cdp.ws = &WebSocket{}
	}

	err := cdp.ws.Connect(ctx, cdp.wsURL, cdp.header)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())

	cdp.ctx = ctx
	cdp.close = cancel

	go cdp.readMsgFromBrowser()

	return nil
}

// Close the connection, pending calls will return ErrConnClosed
func (cdp *Client) Close() {
	if cdp.close == nil {
		return
	}
	cdp.wsClose(nil)
}

// Call a method and get its response
func (cdp *Client) Call(ctx context.Context, sessionID, method string, params interface{}) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	req := &Request{
		ID:        int(atomic.AddUint64(&cdp.count, 1)),
		SessionID: sessionID,
		Method:    method,
		Params:    params,
	}

	data, err := req.encode()
	if err != nil {
		return nil, err
	}

	cdp.log(req)

	pending := newPendingRequest()
	if err := cdp.pending.add(req.ID, pending); err != nil {
		return nil, err
	}
	defer cdp.pending.delete(req.ID)

	if err := cdp.sendMsg(data); err != nil {
		return nil, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()

	case r := <-pending.result:
		if r.err != nil {
			return nil, r.err
		}
		res := r.response
		if res.Error != nil {
			return nil, res.Error
		}
		return res.Result, nil
	}
}

// Event returns a channel that will emit browser devtools protocol events. Must be consumed or will block producer.
// The channel is closed when the connection is closed.
func (cdp *Client) Event() <-chan *Event {
	return cdp.chEvent
}

// encode the envelope, params are embedded as raw json so the browser sees them untouched
func (req *Request) encode() ([]byte, error) {
	data, err := sjson.SetBytes([]byte(`{}`), "id", req.ID)
	if err != nil {
		return nil, err
	}

	if req.SessionID != "" {
		data, err = sjson.SetBytes(data, "sessionId", req.SessionID)
		if err != nil {
			return nil, err
		}
	}

	data, err = sjson.SetBytes(data, "method", req.Method)
	if err != nil {
		return nil, err
	}

	if req.Params == nil {
		return data, nil
	}

	raw, err := json.Marshal(req.Params)
	if err != nil {
		return nil, err
	}

	return sjson.SetRawBytes(data, "params", raw)
}

func (cdp *Client) sendMsg(data []byte) error {
	cdp.muSend.Lock()
	defer cdp.muSend.Unlock()

	err := cdp.ws.Send(data)
	if err != nil {
		cdp.wsClose(err)
		return err
	}

	return nil
}

func (cdp *Client) readMsgFromBrowser() {
	defer close(cdp.chEvent)

	for {
		data, err := cdp.ws.Read()
		if err != nil {
			cdp.wsClose(err)
			return
		}

		if id := gjson.GetBytes(data, "id"); id.Exists() {
			var res Response
			if err := json.Unmarshal(data, &res); err != nil {
				err = fmt.Errorf("%w: %v", ErrMalformedResponse, err)
				cdp.log(err)
				cdp.pending.fail(int(id.Int()), err)
				continue
			}
			cdp.log(&res)
			cdp.pending.fulfill(res.ID, &res)
			continue
		}

		var evt Event
		if err := json.Unmarshal(data, &evt); err != nil {
			cdp.log(fmt.Errorf("malformed event: %w", err))
			continue
		}
		cdp.log(&evt)

		select {
		case <-cdp.ctx.Done():
			return
		case cdp.chEvent <- &evt:
		}
	}
}

func (cdp *Client) wsClose(err error) {
	cdp.log(err)
	if err == nil {
		err = ErrConnClosed
	} else {
		err = fmt.Errorf("%w: %v", ErrConnClosed, err)
	}
	cdp.pending.close(err)
	cdp.close()
	_ = cdp.ws.Close()
}

// pendingRequests tracks requests that are waiting for the browser.
type pendingRequests struct {
	mu      sync.Mutex
	err     error
	pending map[int]*pendingRequest
}

func newPendingRequests() *pendingRequests {
	return &pendingRequests{
		pending: make(map[int]*pendingRequest),
	}
}

// close marks the requests as not being able to make new requests.
// It will also close any pending requests.
func (reqs *pendingRequests) close(err error) {
	reqs.mu.Lock()
	defer reqs.mu.Unlock()

	if reqs.err != nil {
		return
	}

	reqs.err = err

	for _, pending := range reqs.pending {
		pending.close(err)
	}
	reqs.pending = map[int]*pendingRequest{}
}

// add adds a new pending request. When the browser has disconnected
// then it will return an error.
func (reqs *pendingRequests) add(id int, resp *pendingRequest) error {
	reqs.mu.Lock()
	defer reqs.mu.Unlock()
	if reqs.err != nil {
		return reqs.err
	}
	reqs.pending[id] = resp
	return nil
}

// fulfill fills in a pending request and removes from the map.
func (reqs *pendingRequests) fulfill(id int, r *Response) {
	reqs.mu.Lock()
	defer reqs.mu.Unlock()

	pending, ok := reqs.pending[id]
	if !ok {
		return
	}
	pending.respond(r)
	delete(reqs.pending, id)
}

// fail completes a pending request with the error and removes it from the map.
func (reqs *pendingRequests) fail(id int, err error) {
	reqs.mu.Lock()
	defer reqs.mu.Unlock()

	pending, ok := reqs.pending[id]
	if !ok {
		return
	}
	pending.close(err)
	delete(reqs.pending, id)
}

func (reqs *pendingRequests) delete(id int) {
	reqs.mu.Lock()
	defer reqs.mu.Unlock()
	delete(reqs.pending, id)
}

type pendingRequest struct {
	done   sync.Once
	result chan pendingResponse
}

type pendingResponse struct {
	response *Response
	err      error
}

func newPendingRequest() *pendingRequest {
	return &pendingRequest{result: make(chan pendingResponse, 1)}
}

func (pending *pendingRequest) respond(r *Response) {
	pending.done.Do(func() {
		pending.result <- pendingResponse{response: r}
	})
}

func (pending *pendingRequest) close(err error) {
	pending.done.Do(func() {
		pending.result <- pendingResponse{err: err}
	})
}
