package rxstream

import "fmt"

// NotSubscribableError is returned from [Lookup]
// when a value does not expose the Subscribe capability.
type NotSubscribableError struct {
	Value any
}

func (e NotSubscribableError) Error() string {
	if isNil(e.Value) {
		return fmt.Sprintf("nil value (%T) does not expose Subscribe", e.Value)
	}
	return fmt.Sprintf("value of type %T does not expose Subscribe", e.Value)
}
