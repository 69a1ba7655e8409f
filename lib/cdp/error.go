package cdp

import "github.com/ysmood/kit"

// Error of the Response
type Error struct {
	Code    int64  `json:"code"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
}

// Error interface
func (e *Error) Error() string {
	return kit.MustToJSON(e)
}

// Is matches the code and message, the data is ignored
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code && t.Message == e.Message
}

// ErrCtxNotFound type
var ErrCtxNotFound = &Error{
	Code:    -32000,
	Message: "Cannot find context with specified id",
}

// ErrCtxDestroyed type
var ErrCtxDestroyed = &Error{
	Code:    -32000,
	Message: "Execution context was destroyed.",
}

// ErrObjNotFound type
var ErrObjNotFound = &Error{
	Code:    -32000,
	Message: "Could not find object with given id",
}
