package visitors

import "errors"

// Rendering errors. Visitors record the first error they hit; callers
// retrieve it with Err() after rendering and match it with errors.Is.
var (
	// ErrUnsupported reports a construct the target dialect cannot express.
	ErrUnsupported = errors.New("unsupported SQL feature")

	// ErrNullComparison reports a NULL value compared with an operator
	// other than IS / IS NOT.
	ErrNullComparison = errors.New("missing operator (IS, IS NOT) with null value")

	// ErrEmptyList reports an IN / NOT IN predicate with no values.
	ErrEmptyList = errors.New("impossible to generate condition with empty list of values")

	// ErrInvalidName reports a function, type or operator name containing
	// characters that could break out of the SQL fragment.
	ErrInvalidName = errors.New("invalid SQL name")

	// ErrUnboundParam reports a named placeholder with no binding.
	ErrUnboundParam = errors.New("unbound named parameter")
)
