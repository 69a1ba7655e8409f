package harness

import (
	"fmt"
	"sort"

	"github.com/ysmood/kit"
)

// By is the strategy a Locator uses to find its element
type By string

const (
	// ByCSS matches the first element of a css selector
	ByCSS By = "css"
	// ByClass matches the first element that has the class name
	ByClass By = "class"
	// ByXPath matches the first node of an xpath expression
	ByXPath By = "xpath"
)

// Locator is a symbolic reference to one element of a page.
// It's a plain value, it isn't bound to any live element until it's resolved by Page.Element.
type Locator struct {
	// Name is only used in logs and errors
	Name  string
	By    By
	Value string
}

// CSS locator
func CSS(name, selector string) Locator {
	return Locator{Name: name, By: ByCSS, Value: selector}
}

// Class locator
func Class(name, class string) Locator {
	return Locator{Name: name, By: ByClass, Value: class}
}

// XPath locator
func XPath(name, xpath string) Locator {
	return Locator{Name: name, By: ByXPath, Value: xpath}
}

// String ...
func (l Locator) String() string {
	return fmt.Sprintf("%s(%s=%s)", l.Name, l.By, l.Value)
}

// js expression that returns the element or null
func (l Locator) js() (string, error) {
	v := kit.MustToJSON(l.Value)

	switch l.By {
	case ByCSS:
		return fmt.Sprintf(`document.querySelector(%s)`, v), nil
	case ByClass:
		return fmt.Sprintf(`document.getElementsByClassName(%s)[0] || null`, v), nil
	case ByXPath:
		return fmt.Sprintf(
			`document.evaluate(%s, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue`, v,
		), nil
	}
	return "", fmt.Errorf("[harness] unknown locator strategy: %s", l.By)
}

// Registry maps the semantic roles of a page to their locators.
// It's fixed once created.
type Registry struct {
	list map[string]Locator
}

// NewRegistry creates a registry, the name of each locator is set to its role if it's empty
func NewRegistry(locators map[string]Locator) *Registry {
	list := make(map[string]Locator, len(locators))
	for role, l := range locators {
		if l.Name == "" {
			l.Name = role
		}
		list[role] = l
	}
	return &Registry{list: list}
}

// Get the locator of the role
func (r *Registry) Get(role string) (Locator, error) {
	l, has := r.list[role]
	if !has {
		return Locator{}, newErr(ErrUnknownRole, role, nil)
	}
	return l, nil
}

// MustGet is similar to Get
func (r *Registry) MustGet(role string) Locator {
	l, err := r.Get(role)
	kit.E(err)
	return l
}

// Roles sorted by name
func (r *Registry) Roles() []string {
	list := make([]string, 0, len(r.list))
	for role := range r.list {
		list = append(list, role)
	}
	sort.Strings(list)
	return list
}
