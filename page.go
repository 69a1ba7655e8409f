package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/ysmood/kit"
)

// ObjectGroup of the remote objects the page resolves
const ObjectGroup = "harness"

// Page is one tab of a Session
type Page struct {
	session   *Session
	targetID  string
	sessionID string
	wait      WaitOptions

	navigation time.Duration
}

// TargetID of the tab
func (p *Page) TargetID() string {
	return p.targetID
}

// Session the page belongs to
func (p *Page) Session() *Session {
	return p.session
}

// WaitOptions overrides the options of the waits the page performs
func (p *Page) WaitOptions(opts WaitOptions) *Page {
	newP := *p
	newP.wait = opts
	return &newP
}

// NavigationTimeout overrides defaults.Navigation for the page
func (p *Page) NavigationTimeout(d time.Duration) *Page {
	newP := *p
	newP.navigation = d
	return &newP
}

// GetWaitOptions returns the options of the waits the page performs
func (p *Page) GetWaitOptions() WaitOptions {
	return p.wait
}

// Navigate to the url and wait until the document is loaded.
// It fails with ErrNavigation if the browser can't load the url, wrapping ErrTimeout
// if it doesn't load within the navigation timeout.
func (p *Page) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(p.session.ctx, p.navigation)
	defer cancel()

	res, err := p.session.call(ctx, p.sessionID, "Page.navigate", map[string]interface{}{
		"url": url,
	})
	if errors.Is(err, context.DeadlineExceeded) {
		err = newErr(ErrTimeout, fmt.Sprintf("no response within %s", p.navigation), err)
	}
	if err != nil {
		return newErr(ErrNavigation, url, err)
	}
	if text := res.Get("errorText").String(); text != "" {
		return newErr(ErrNavigation, url, errors.New(text))
	}

	opts := p.wait
	opts.Timeout = p.navigation

	err = Wait(ctx, opts, func() (bool, error) {
		state, err := p.Eval(`document.readyState`)
		if err != nil {
			return false, err
		}
		return state.String() == "complete", nil
	})
	if err != nil {
		return newErr(ErrNavigation, url, err)
	}
	return nil
}

// MustNavigate is similar to Navigate
func (p *Page) MustNavigate(url string) *Page {
	kit.E(p.Navigate(url))
	return p
}

// Eval a js expression on the page and returns its value.
// If the value is a promise it will be awaited.
func (p *Page) Eval(js string) (gjson.Result, error) {
	res, err := p.call("Runtime.evaluate", map[string]interface{}{
		"expression":    js,
		"returnByValue": true,
		"awaitPromise":  true,
	})
	return evalResult(res, err)
}

// MustEval is similar to Eval
func (p *Page) MustEval(js string) gjson.Result {
	res, err := p.Eval(js)
	kit.E(err)
	return res
}

// Element resolves the locator once. It returns ErrElementNotFound immediately if nothing matches.
func (p *Page) Element(l Locator) (*Element, error) {
	js, err := l.js()
	if err != nil {
		return nil, err
	}

	res, err := p.call("Runtime.evaluate", map[string]interface{}{
		"expression":  js,
		"objectGroup": ObjectGroup,
	})
	if err != nil {
		return nil, err
	}
	if ex := res.Get("exceptionDetails"); ex.Exists() {
		return nil, newErr(ErrEval, exceptionText(ex), nil)
	}

	id := res.Get("result.objectId").String()
	if id == "" || res.Get("result.subtype").String() == "null" {
		return nil, newErr(ErrElementNotFound, l.String(), nil)
	}

	return &Element{page: p, locator: l, objectID: id}, nil
}

// MustElement is similar to Element
func (p *Page) MustElement(l Locator) *Element {
	el, err := p.Element(l)
	kit.E(err)
	return el
}

// ReleaseElements releases every element the page has resolved and not released yet
func (p *Page) ReleaseElements() error {
	_, err := p.call("Runtime.releaseObjectGroup", map[string]interface{}{
		"objectGroup": ObjectGroup,
	})
	return err
}

// with resolves the locator, runs fn on the element, then releases the element
func (p *Page) with(l Locator, fn func(el *Element) error) error {
	el, err := p.Element(l)
	if err != nil {
		return err
	}
	defer func() { _ = el.Release() }()

	return fn(el)
}

// Has checks if the locator matches an element now
func (p *Page) Has(l Locator) (bool, error) {
	err := p.with(l, func(*Element) error { return nil })
	if IsError(err, ErrElementNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Input appends the text to the element of the locator
func (p *Page) Input(l Locator, text string) error {
	return p.with(l, func(el *Element) error { return el.Input(text) })
}

// Clear the value of the element of the locator
func (p *Page) Clear(l Locator) error {
	return p.with(l, (*Element).Clear)
}

// Select the option whose visible text is the text
func (p *Page) Select(l Locator, text string) error {
	return p.with(l, func(el *Element) error { return el.Select(text) })
}

// SelectValue selects the option whose value attribute is the value
func (p *Page) SelectValue(l Locator, value string) error {
	return p.with(l, func(el *Element) error { return el.SelectValue(value) })
}

// Text polls the visible text of the element of the locator until it's stable.
// The locator is resolved again on every read, so a re-rendered element is followed.
func (p *Page) Text(l Locator) (string, error) {
	return WaitStable(p.session.ctx, p.wait, p.reader(l, (*Element).Text))
}

// Value polls the value of the form element of the locator until it's stable
func (p *Page) Value(l Locator) (string, error) {
	return WaitStable(p.session.ctx, p.wait, p.reader(l, func(el *Element) (string, error) {
		v, err := el.Property("value")
		return v.String(), err
	}))
}

// WaitText waits until the visible text of the element of the locator is the expected one
func (p *Page) WaitText(l Locator, expected string) error {
	return WaitText(p.session.ctx, p.wait, expected, p.reader(l, (*Element).Text))
}

func (p *Page) reader(l Locator, read func(*Element) (string, error)) func() (string, error) {
	return func() (string, error) {
		var v string
		err := p.with(l, func(el *Element) error {
			var err error
			v, err = read(el)
			return err
		})
		return v, err
	}
}

// Maximize the browser window of the page. It only makes sense when the browser isn't headless.
func (p *Page) Maximize() error {
	res, err := p.session.call(p.session.ctx, "", "Browser.getWindowForTarget", map[string]interface{}{
		"targetId": p.targetID,
	})
	if err != nil {
		return err
	}

	_, err = p.session.call(p.session.ctx, "", "Browser.setWindowBounds", map[string]interface{}{
		"windowId": res.Get("windowId").Int(),
		"bounds":   map[string]interface{}{"windowState": "maximized"},
	})
	return err
}

// Close the tab
func (p *Page) Close() error {
	_, err := p.session.call(p.session.ctx, "", "Target.closeTarget", map[string]interface{}{
		"targetId": p.targetID,
	})
	return err
}

func (p *Page) call(method string, params interface{}) (gjson.Result, error) {
	return p.session.call(p.session.ctx, p.sessionID, method, params)
}

func evalResult(res gjson.Result, err error) (gjson.Result, error) {
	if err != nil {
		return gjson.Result{}, err
	}
	if ex := res.Get("exceptionDetails"); ex.Exists() {
		return gjson.Result{}, newErr(ErrEval, exceptionText(ex), nil)
	}
	return res.Get("result.value"), nil
}

func exceptionText(ex gjson.Result) string {
	if d := ex.Get("exception.description").String(); d != "" {
		return d
	}
	return ex.Get("text").String()
}
