package row

import (
	"errors"
	"fmt"
)

// Result is the outcome code of a row operation. Every value other than
// Success is also an error, so results can be returned and matched with
// errors.Is.
type Result uint8

const (
	Success Result = iota
	Failure
	NotFound
	Exists
	TooBig
	TypeMismatch
	InsufficientPermissions
	TypeConstraint
	InvalidRow
	InsufficientBuffer
	Canceled
)

var resultNames = [...]string{
	Success:                 "success",
	Failure:                 "failure",
	NotFound:                "not found",
	Exists:                  "exists",
	TooBig:                  "too big",
	TypeMismatch:            "type mismatch",
	InsufficientPermissions: "insufficient permissions",
	TypeConstraint:          "type constraint",
	InvalidRow:              "invalid row",
	InsufficientBuffer:      "insufficient buffer",
	Canceled:                "canceled",
}

func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return fmt.Sprintf("Result(%d)", uint8(r))
}

func (r Result) Error() string {
	return "row: " + r.String()
}

// Err returns nil for Success and r otherwise.
func (r Result) Err() error {
	if r == Success {
		return nil
	}
	return r
}

// ResultOf maps an error back to its Result. Errors that are not Results
// map to Failure.
func ResultOf(err error) Result {
	if err == nil {
		return Success
	}
	var r Result
	if errors.As(err, &r) {
		return r
	}
	return Failure
}
