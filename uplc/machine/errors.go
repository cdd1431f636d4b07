package machine

import "github.com/spacebudz/aiken/errors"

// Expected evaluation outcomes. A validator failing with one of these
// has correctly rejected its input.
var (
	// ErrExplicit is raised when the program reaches its error term.
	ErrExplicit = errors.New("explicit error term")
	// ErrOutOfBudget is raised when a step would exceed the supplied
	// execution budget.
	ErrOutOfBudget = errors.New("execution budget exhausted")
)

// Program bugs surfaced as evaluation failures: the program applied a
// builtin to the wrong shape of value or to a value outside its
// domain.
var (
	ErrTypeMismatch = errors.New("builtin argument type mismatch")
	ErrDivideByZero = errors.New("division by zero")
	ErrEmptyList    = errors.New("empty list")
	ErrByteRange    = errors.New("byte value out of range")
	ErrIndexRange   = errors.New("index out of range")
	ErrUtf8         = errors.New("invalid utf-8 byte string")
	ErrDataVariant  = errors.New("unexpected data variant")
	ErrConstrTag    = errors.New("constructor tag out of range")
	ErrCryptoInput  = errors.New("malformed cryptographic input")
)

// Internal faults: the term itself is malformed and should have been
// rejected before evaluation. These are distinct from the expected
// failures above so tooling can tell "program rejected the input"
// from "term builder is broken".
var (
	ErrOpenTermEvaluated    = errors.New("open term evaluated")
	ErrNonFunctionApply     = errors.New("apply of a non-function value")
	ErrNonPolymorphicForce  = errors.New("force of a non-delay value")
	ErrUnexpectedBuiltinArg = errors.New("builtin argument before required force")
	ErrMissingCaseBranch    = errors.New("case scrutinee tag has no branch")
	ErrCaseNonConstr        = errors.New("case scrutinee is not a constructor value")
	ErrDischargeTooDeep     = errors.New("result term too deep to rebuild")
)

var internal = map[error]bool{
	ErrOpenTermEvaluated:    true,
	ErrNonFunctionApply:     true,
	ErrNonPolymorphicForce:  true,
	ErrUnexpectedBuiltinArg: true,
	ErrMissingCaseBranch:    true,
	ErrCaseNonConstr:        true,
	ErrDischargeTooDeep:     true,
}

// IsInternal reports whether err indicates a malformed term rather
// than an ordinary evaluation failure.
func IsInternal(err error) bool {
	return internal[errors.Root(err)]
}
