package probe

import (
	"errors"

	"github.com/openafs-contrib/afsmon/internal/runner"
)

// FromInvocationError maps a runner error to a terminal result. A timeout
// is CRITICAL with a message naming the elapsed seconds; a launch failure
// means the probe itself is misdeployed and is UNKNOWN.
func FromInvocationError(err error) *Result {
	var te *runner.TimeoutError
	if errors.As(err, &te) {
		return &Result{Status: StatusCritical, Message: te.Error()}
	}
	return &Result{Status: StatusUnknown, Message: err.Error()}
}
