package errz

import (
	"errors"
	"fmt"
)

// ContractError reports misuse of the assembler or bytecode store by a
// front end. It is raised with panic and is never recovered locally; only
// the compilation entrypoint converts it back into an error.
type ContractError struct {
	Op      string
	Message string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrContract, e.Op, e.Message)
}

// ContractViolation panics with a ContractError.
func ContractViolation(op, format string, args ...any) {
	panic(&ContractError{Op: op, Message: fmt.Sprintf(format, args...)})
}

// RecoverContract converts a recovered ContractError into an error assigned
// to *errp. Any other panic value is re-raised. Use it deferred:
//
//	defer errz.RecoverContract(&err)
func RecoverContract(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if ce, ok := r.(*ContractError); ok {
		*errp = ce
		return
	}
	panic(r)
}

// IsContractViolation reports whether err is or wraps a ContractError.
func IsContractViolation(err error) bool {
	var ce *ContractError
	return errors.As(err, &ce)
}
