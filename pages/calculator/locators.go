package calculator

import "github.com/go-rod/harness"

// Roles of the elements the page object drives
const (
	RoleOperandA        = "operand-a"
	RoleOperandB        = "operand-b"
	RoleOperationSelect = "operation-select"
	RoleResultDisplay   = "result-display"
)

// Locators of the calculator page, they must follow the markup of the page
var Locators = harness.NewRegistry(map[string]harness.Locator{
	RoleOperandA:        harness.CSS("", "input[ng-model='a']"),
	RoleOperandB:        harness.CSS("", "input[ng-model='b']"),
	RoleOperationSelect: harness.CSS("", "select[ng-model='operation']"),
	RoleResultDisplay:   harness.Class("", "result"),
})
