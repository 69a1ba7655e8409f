package harness

import (
	"github.com/go-rod/harness/lib/js"
	"github.com/tidwall/gjson"
	"github.com/ysmood/kit"
)

// Element is a resolved Locator. It can go stale once the page re-renders it,
// prefer the Page helpers that resolve the locator on every action.
type Element struct {
	page     *Page
	locator  Locator
	objectID string
}

// Locator the element is resolved from
func (el *Element) Locator() Locator {
	return el.locator
}

// Release the remote object of the element, the element can't be used afterwards
func (el *Element) Release() error {
	_, err := el.page.call("Runtime.releaseObject", map[string]interface{}{
		"objectId": el.objectID,
	})
	return err
}

// Focus the element and move the caret to the end of its value
func (el *Element) Focus() error {
	_, err := el.call(js.Focus)
	return err
}

// Input types the text at the end of the current value, like a user typing into the field
func (el *Element) Input(text string) error {
	el.page.session.traceInput(el.page, "input", el.locator, text)

	err := el.Focus()
	if err != nil {
		return err
	}

	_, err = el.page.call("Input.insertText", map[string]interface{}{"text": text})
	return err
}

// MustInput is similar to Input
func (el *Element) MustInput(text string) *Element {
	kit.E(el.Input(text))
	return el
}

// Clear the value and notify the page about it
func (el *Element) Clear() error {
	el.page.session.traceInput(el.page, "clear", el.locator, "")

	_, err := el.call(js.Clear)
	return err
}

// MustClear is similar to Clear
func (el *Element) MustClear() *Element {
	kit.E(el.Clear())
	return el
}

// Select the option of a select element whose visible text is the text.
// It returns ErrOptionNotFound if there's no such option.
func (el *Element) Select(text string) error {
	el.page.session.traceInput(el.page, "select", el.locator, text)
	return el.selectBy(js.SelectText, text)
}

// MustSelect is similar to Select
func (el *Element) MustSelect(text string) *Element {
	kit.E(el.Select(text))
	return el
}

// SelectValue selects the option whose value attribute is the value.
// It returns ErrOptionNotFound if there's no such option.
func (el *Element) SelectValue(value string) error {
	el.page.session.traceInput(el.page, "select-value", el.locator, value)
	return el.selectBy(js.SelectValue, value)
}

func (el *Element) selectBy(fn *js.Function, v string) error {
	res, err := el.call(fn, v)
	if err != nil {
		return err
	}
	if !res.Bool() {
		return newErr(ErrOptionNotFound, v, nil)
	}
	return nil
}

// Options returns the visible text of each option of a select element
func (el *Element) Options() ([]string, error) {
	res, err := el.call(js.Options)
	if err != nil {
		return nil, err
	}

	list := []string{}
	for _, o := range res.Array() {
		list = append(list, o.String())
	}
	return list, nil
}

// Text is the visible text of the element, surrounding white spaces are trimmed
func (el *Element) Text() (string, error) {
	res, err := el.call(js.Text)
	return res.String(), err
}

// MustText is similar to Text
func (el *Element) MustText() string {
	s, err := el.Text()
	kit.E(err)
	return s
}

// Property of the dom object
func (el *Element) Property(name string) (gjson.Result, error) {
	return el.call(js.Property, name)
}

func (el *Element) call(fn *js.Function, args ...interface{}) (gjson.Result, error) {
	list := []map[string]interface{}{}
	for _, a := range args {
		list = append(list, map[string]interface{}{"value": a})
	}

	res, err := el.page.call("Runtime.callFunctionOn", map[string]interface{}{
		"objectId":            el.objectID,
		"functionDeclaration": fn.Definition,
		"arguments":           list,
		"returnByValue":       true,
		"awaitPromise":        true,
	})
	return evalResult(res, err)
}
