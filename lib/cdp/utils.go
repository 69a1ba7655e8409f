package cdp

import (
	"fmt"

	"github.com/ysmood/kit"
)

func (cdp *Client) log(msg interface{}) {
	if !cdp.debug || msg == nil {
		return
	}

	switch v := msg.(type) {
	case *Request:
		kit.Log(fmt.Sprintf("[cdp] -> %d %s %s %s", v.ID, v.SessionID, v.Method, kit.MustToJSON(v.Params)))
	case *Response:
		if v.Error != nil {
			kit.Log(fmt.Sprintf("[cdp] <- %d error %s", v.ID, v.Error.Error()))
			return
		}
		kit.Log(fmt.Sprintf("[cdp] <- %d %s", v.ID, string(v.Result)))
	case *Event:
		kit.Log(fmt.Sprintf("[cdp] <= %s %s %s", v.SessionID, v.Method, string(v.Params)))
	default:
		kit.Log("[cdp]", kit.Sdump(msg))
	}
}
