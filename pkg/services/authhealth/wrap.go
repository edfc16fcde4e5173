package authhealth

import (
	"context"
	"fmt"

	"github.com/wellfit-labs/wellfit/pkg/models/domain"
)

type checkFunc func(ctx context.Context) (domain.CheckResult, error)

type fixFunc func(ctx context.Context) (domain.FixResult, error)

// tryCheck normalizes every failure mode of a probe into a result value.
// A returned error or a panic both count as a detected problem, so
// transient provider failures are reported rather than swallowed.
func tryCheck(ctx context.Context, fn checkFunc) (result domain.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.CheckResult{
				HasProblem: true,
				Details:    fmt.Sprintf("check did not complete: %v", r),
			}
		}
	}()

	res, err := fn(ctx)
	if err != nil {
		return domain.CheckResult{
			HasProblem: true,
			Details:    fmt.Sprintf("check failed: %v", err),
		}
	}
	return res
}

// tryFix normalizes every failure mode of a remediation into a result
// value. Nothing escapes to the caller as an error or panic.
func tryFix(ctx context.Context, fn fixFunc) (result domain.FixResult) {
	defer func() {
		if r := recover(); r != nil {
			result = domain.FixResult{
				Success: false,
				Message: "fix attempt did not complete",
				Details: fmt.Sprintf("%v", r),
			}
		}
	}()

	res, err := fn(ctx)
	if err != nil {
		return domain.FixResult{
			Success: false,
			Message: "fix attempt failed",
			Details: err.Error(),
		}
	}
	return res
}
