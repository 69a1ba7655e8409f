// Package js holds the functions the harness calls on dom elements via Runtime.callFunctionOn.
// "this" is the element in each of them.
package js

// Function definition
type Function struct {
	Name       string
	Definition string
}

// Focus the element and move the caret to the end of its value
var Focus = &Function{
	Name: "focus",
	Definition: `function() {
		this.focus()
		try {
			const n = (this.value || '').length
			this.setSelectionRange(n, n)
		} catch (e) {}
	}`,
}

// Clear the value and fire the events a user edit would fire
var Clear = &Function{
	Name: "clear",
	Definition: `function() {
		this.value = ''
		this.dispatchEvent(new Event('input', { bubbles: true }))
		this.dispatchEvent(new Event('change', { bubbles: true }))
	}`,
}

// SelectText selects the option whose trimmed text equals the argument, returns false if there's none
var SelectText = &Function{
	Name: "selectText",
	Definition: `function(text) {
		const opt = Array.from(this.options).find(o => o.text.trim() === text)
		if (!opt) return false
		opt.selected = true
		this.dispatchEvent(new Event('input', { bubbles: true }))
		this.dispatchEvent(new Event('change', { bubbles: true }))
		return true
	}`,
}

// SelectValue selects the option whose value equals the argument, returns false if there's none
var SelectValue = &Function{
	Name: "selectValue",
	Definition: `function(value) {
		const opt = Array.from(this.options).find(o => o.value === value)
		if (!opt) return false
		opt.selected = true
		this.dispatchEvent(new Event('input', { bubbles: true }))
		this.dispatchEvent(new Event('change', { bubbles: true }))
		return true
	}`,
}

// Options returns the trimmed text of each option
var Options = &Function{
	Name: "options",
	Definition: `function() {
		return Array.from(this.options).map(o => o.text.trim())
	}`,
}

// Text returns the rendered text, hidden text is excluded
var Text = &Function{
	Name:       "text",
	Definition: `function() { return (this.innerText || '').trim() }`,
}

// Property returns the property of the argument name
var Property = &Function{
	Name:       "property",
	Definition: `function(name) { return this[name] }`,
}
