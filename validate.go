package cachified

// Validator checks a value before it is served or persisted.
//
// The engine applies it to stored values (a rejection triggers
// recomputation, never an error) and to freshly produced values (a
// rejection is terminal). Implementations must be pure predicates safe for
// concurrent use; they may be invoked for the same key from multiple
// decision calls at once.
type Validator[T any] interface {
	Check(value T) error
}

// ValidatorFunc adapts a plain function to the Validator interface.
type ValidatorFunc[T any] func(value T) error

// Check calls f(value).
func (f ValidatorFunc[T]) Check(value T) error { return f(value) }

// NonEmptyString rejects empty strings.
var NonEmptyString Validator[string] = ValidatorFunc[string](func(v string) error {
	if v == "" {
		return &ValidationError{Reason: "string is empty"}
	}
	return nil
})

// NotZero returns a validator that rejects the zero value of T.
func NotZero[T comparable]() Validator[T] {
	return ValidatorFunc[T](func(v T) error {
		var zero T
		if v == zero {
			return &ValidationError{Reason: "value is zero"}
		}
		return nil
	})
}
