// Package calculator is the page object of the AngularJS simple calculator.
// It only speaks in terms of operands, operations and the rendered result,
// the markup details live in Locators.
package calculator

import (
	"github.com/go-rod/harness"
	"github.com/go-rod/harness/lib/defaults"
	"github.com/ysmood/kit"
)

// URL of the live calculator
const URL = "https://www.globalsqa.com/angularJs-protractor/SimpleCalculator/"

// ErrInvalidOperationSymbol error code, the operation select has no option for the symbol
const ErrInvalidOperationSymbol = "invalid operation symbol"

// Page object of the calculator
type Page struct {
	page     *harness.Page
	locators *harness.Registry
	url      string
}

// New page object on the tab. The url is defaults.Target if it's set, or the live URL.
func New(p *harness.Page) *Page {
	u := defaults.Target
	if u == "" {
		u = URL
	}

	return &Page{
		page:     p,
		locators: Locators,
		url:      u,
	}
}

// URL overrides the url to navigate to
func (c *Page) URL(u string) *Page {
	c.url = u
	return c
}

// GetURL returns the url to navigate to
func (c *Page) GetURL() string {
	return c.url
}

// Driver returns the underlying tab
func (c *Page) Driver() *harness.Page {
	return c.page
}

// NavigateTo the calculator and wait for it to load
func (c *Page) NavigateTo() error {
	return c.page.Navigate(c.url)
}

// EnterOperandA types the operand at the end of the current content of the first field
func (c *Page) EnterOperandA(o Operand) error {
	return c.page.Input(c.locators.MustGet(RoleOperandA), o.String())
}

// EnterOperandB types the operand at the end of the current content of the second field
func (c *Page) EnterOperandB(o Operand) error {
	return c.page.Input(c.locators.MustGet(RoleOperandB), o.String())
}

// SelectOperation picks the option whose visible text is the symbol of op.
// It fails with ErrInvalidOperationSymbol if the page has no such option.
func (c *Page) SelectOperation(op Operation) error {
	err := c.page.Select(c.locators.MustGet(RoleOperationSelect), string(op))
	if harness.IsError(err, harness.ErrOptionNotFound) {
		return &harness.Error{Code: ErrInvalidOperationSymbol, Details: op, Err: err}
	}
	return err
}

// Result is the visible text of the result once it stops changing
func (c *Page) Result() (string, error) {
	return c.page.Text(c.locators.MustGet(RoleResultDisplay))
}

// ClearOperandA empties the first field
func (c *Page) ClearOperandA() error {
	return c.page.Clear(c.locators.MustGet(RoleOperandA))
}

// ClearOperandB empties the second field
func (c *Page) ClearOperandB() error {
	return c.page.Clear(c.locators.MustGet(RoleOperandB))
}

// Clear empties both fields, resets the operation to the empty option,
// then waits until the page stops rendering a result.
func (c *Page) Clear() error {
	err := c.ClearOperandA()
	if err != nil {
		return err
	}

	err = c.ClearOperandB()
	if err != nil {
		return err
	}

	err = c.page.SelectValue(c.locators.MustGet(RoleOperationSelect), string(None))
	if err != nil {
		return err
	}

	return c.page.WaitText(c.locators.MustGet(RoleResultDisplay), "")
}

// Calculate enters both operands, selects the operation and returns the result
func (c *Page) Calculate(a Operand, op Operation, b Operand) (string, error) {
	err := c.EnterOperandA(a)
	if err != nil {
		return "", err
	}
	err = c.EnterOperandB(b)
	if err != nil {
		return "", err
	}
	err = c.SelectOperation(op)
	if err != nil {
		return "", err
	}
	return c.Result()
}

// MustNavigateTo is similar to NavigateTo
func (c *Page) MustNavigateTo() *Page {
	kit.E(c.NavigateTo())
	return c
}

// MustEnterOperandA is similar to EnterOperandA
func (c *Page) MustEnterOperandA(o Operand) *Page {
	kit.E(c.EnterOperandA(o))
	return c
}

// MustEnterOperandB is similar to EnterOperandB
func (c *Page) MustEnterOperandB(o Operand) *Page {
	kit.E(c.EnterOperandB(o))
	return c
}

// MustSelectOperation is similar to SelectOperation
func (c *Page) MustSelectOperation(op Operation) *Page {
	kit.E(c.SelectOperation(op))
	return c
}

// MustResult is similar to Result
func (c *Page) MustResult() string {
	s, err := c.Result()
	kit.E(err)
	return s
}

// MustClearOperandA is similar to ClearOperandA
func (c *Page) MustClearOperandA() *Page {
	kit.E(c.ClearOperandA())
	return c
}

// MustClearOperandB is similar to ClearOperandB
func (c *Page) MustClearOperandB() *Page {
	kit.E(c.ClearOperandB())
	return c
}

// MustClear is similar to Clear
func (c *Page) MustClear() *Page {
	kit.E(c.Clear())
	return c
}
