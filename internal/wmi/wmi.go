// Package wmi implements the management-interface method transport: locating
// a provider object by query and invoking named methods with keyed
// parameters. Devices that cannot be driven through EC registers use this
// path.
package wmi

// Result is the out-parameter bag of a method invocation.
type Result map[string]interface{}

// Invoker locates exactly one provider object matching query within scope
// and invokes a named method on it. The outs list names the out-parameters
// to extract from the reply. Calls never retry automatically.
type Invoker interface {
	Invoke(scope, query, method string, params map[string]interface{}, outs ...string) (Result, error)
}

// Int extracts an integer out-parameter, tolerating the provider's numeric
// type. The second return is false when the key is absent or non-numeric.
func (r Result) Int(key string) (int, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return 0, false
	}

	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// Value invokes a method and projects the out-parameter bag into a typed
// result. Any failure, including a failed projection, yields the zero value.
func Value[T any](inv Invoker, scope, query, method string, params map[string]interface{},
	project func(Result) (T, bool), outs ...string,
) T {
	var zero T

	result, err := inv.Invoke(scope, query, method, params, outs...)
	if err != nil {
		return zero
	}

	v, ok := project(result)
	if !ok {
		return zero
	}

	return v
}
