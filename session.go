// Package harness is a small page-object test harness on top of the Chrome DevTools Protocol.
// A Session owns one browser, a Page is one tab of it, a Locator names an element of the Page,
// and Wait / WaitStable are the only places where the harness sleeps.
package harness

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/harness/lib/cdp"
	"github.com/go-rod/harness/lib/defaults"
	"github.com/go-rod/harness/lib/launcher"
	"github.com/tidwall/gjson"
	"github.com/ysmood/kit"
)

// Session owns one browser connection.
// Either it launched its own browser, which is killed when the Session is closed,
// or it connected to a running browser, in which case it works inside its own incognito
// browser context, which is disposed when the Session is closed.
// A Session should never be shared between tests.
type Session struct {
	ctx    context.Context
	cancel func()

	client   *cdp.Client
	launcher *launcher.Launcher

	browserContextID string

	trace      bool
	slowmotion time.Duration
	show       bool

	closeOnce sync.Once
	closeErr  error
}

// NewSession connects to the browser of defaults.URL if it's set, or launches a local one.
// It returns launcher.ErrBrowserNotFound when there's neither.
func NewSession(ctx context.Context) (*Session, error) {
	return open(ctx, defaults.URL)
}

// Connect to a running browser, the url can be any form launcher.ResolveURL accepts.
// The session works in its own incognito browser context.
func Connect(ctx context.Context, u string) (*Session, error) {
	if u == "" {
		return nil, errors.New("[harness] empty browser url")
	}
	return open(ctx, u)
}

// MustNewSession is similar to NewSession
func MustNewSession(ctx context.Context) *Session {
	s, err := NewSession(ctx)
	kit.E(err)
	return s
}

// open a session, an empty url means to launch a browser
func open(ctx context.Context, u string) (*Session, error) {
	ctx, cancel := context.WithCancel(ctx)

	s := &Session{
		ctx:        ctx,
		cancel:     cancel,
		trace:      defaults.Trace,
		slowmotion: defaults.Slow,
		show:       defaults.Show,
	}

	err := s.connect(u)
	if err != nil {
		_ = s.Close()
		return nil, err
	}

	return s, nil
}

func (s *Session) connect(u string) error {
	var err error

	if u == "" {
		s.launcher = launcher.New().Context(s.ctx)
		if s.trace {
			s.launcher.Log(func(msg string) { kit.Log("[launcher]", msg) })
		}
		u, err = s.launcher.Launch()
		if err != nil {
			s.launcher = nil
			return err
		}
	} else {
		u, err = launcher.ResolveURL(s.ctx, u)
		if err != nil {
			return err
		}
	}

	client := cdp.New(u)
	err = client.Connect(s.ctx)
	if err != nil {
		return err
	}
	s.client = client

	go s.pump()

	if s.launcher != nil {
		return nil
	}

	res, err := s.call(s.ctx, "", "Target.createBrowserContext", nil)
	if err != nil {
		return err
	}
	s.browserContextID = res.Get("browserContextId").String()

	return nil
}

// pump drains the events so that the cdp client never blocks on them
func (s *Session) pump() {
	for e := range s.client.Event() {
		if s.trace && e.Method == "Inspector.targetCrashed" {
			kit.Log("[harness] target crashed", e.SessionID)
		}
	}
}

// Context of the session, it's canceled when the session is closed
func (s *Session) Context() context.Context {
	return s.ctx
}

// Trace enables logging of every input action
func (s *Session) Trace(enable bool) *Session {
	s.trace = enable
	return s
}

// Slowmotion pauses after every input action
func (s *Session) Slowmotion(d time.Duration) *Session {
	s.slowmotion = d
	return s
}

// NewPage opens a blank tab
func (s *Session) NewPage() (*Page, error) {
	params := map[string]interface{}{"url": "about:blank"}
	if s.browserContextID != "" {
		params["browserContextId"] = s.browserContextID
	}

	res, err := s.call(s.ctx, "", "Target.createTarget", params)
	if err != nil {
		return nil, err
	}
	targetID := res.Get("targetId").String()

	res, err = s.call(s.ctx, "", "Target.attachToTarget", map[string]interface{}{
		"targetId": targetID,
		"flatten":  true,
	})
	if err != nil {
		return nil, err
	}

	p := &Page{
		session:   s,
		targetID:  targetID,
		sessionID: res.Get("sessionId").String(),
		wait:      DefaultWaitOptions(),

		navigation: defaults.Navigation,
	}

	if s.show {
		err = p.Maximize()
		if err != nil {
			return nil, err
		}
	}

	return p, nil
}

// MustNewPage is similar to NewPage
func (s *Session) MustNewPage() *Page {
	p, err := s.NewPage()
	kit.E(err)
	return p
}

// Close the session and release the browser, it's safe to call it multiple times
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.close()
	})
	return s.closeErr
}

func (s *Session) close() error {
	defer s.cancel()

	var err error

	if s.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if s.launcher != nil {
			_, err = s.call(ctx, "", "Browser.close", nil)
			if errors.Is(err, cdp.ErrConnClosed) {
				// the browser may drop the connection before it responds
				s.launcher.Kill()
				err = nil
			}
		} else if s.browserContextID != "" {
			_, err = s.call(ctx, "", "Target.disposeBrowserContext", map[string]interface{}{
				"browserContextId": s.browserContextID,
			})
		}

		s.client.Close()
	}

	if s.launcher != nil {
		if s.client == nil || err != nil {
			s.launcher.Kill()
		}
		s.launcher.Cleanup()
	}

	return err
}

func (s *Session) call(ctx context.Context, sessionID, method string, params interface{}) (gjson.Result, error) {
	data, err := s.client.Call(ctx, sessionID, method, params)
	if err != nil {
		return gjson.Result{}, err
	}
	return gjson.ParseBytes(data), nil
}

func (s *Session) traceInput(p *Page, action string, l Locator, value string) {
	if s.trace {
		kit.Log(fmt.Sprintf("[harness] %s %s %s %s", p.targetID, action, l.Name, kit.MustToJSON(value)))
	}
	if s.slowmotion > 0 {
		t := time.NewTimer(s.slowmotion)
		defer t.Stop()
		select {
		case <-s.ctx.Done():
		case <-t.C:
		}
	}
}
