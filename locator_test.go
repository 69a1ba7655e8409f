package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocatorJS(t *testing.T) {
	js, err := CSS("a", "input[ng-model='a']").js()
	assert.NoError(t, err)
	assert.Equal(t, `document.querySelector("input[ng-model='a']")`, js)

	js, err = Class("result", "result").js()
	assert.NoError(t, err)
	assert.Equal(t, `document.getElementsByClassName("result")[0] || null`, js)

	js, err = XPath("h2", `//h2[@class="result"]`).js()
	assert.NoError(t, err)
	assert.Contains(t, js, `document.evaluate("//h2[@class=\"result\"]", document`)

	_, err = Locator{By: "tag", Value: "h2"}.js()
	assert.EqualError(t, err, "[harness] unknown locator strategy: tag")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(map[string]Locator{
		"operand-a":      CSS("", "input[ng-model='a']"),
		"result-display": Class("result", "result"),
	})

	l, err := r.Get("operand-a")
	assert.NoError(t, err)
	assert.Equal(t, "operand-a", l.Name)
	assert.Equal(t, "operand-a(css=input[ng-model='a'])", l.String())

	assert.Equal(t, "result", r.MustGet("result-display").Name)
	assert.Equal(t, []string{"operand-a", "result-display"}, r.Roles())

	_, err = r.Get("operand-c")
	assert.True(t, IsError(err, ErrUnknownRole))

	assert.Panics(t, func() { r.MustGet("operand-c") })
}
