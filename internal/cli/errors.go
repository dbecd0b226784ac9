package cli

import "fmt"

type usageError struct {
	arg string
	msg string
}

func (e usageError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.arg, e.msg)
}

func errUsage(arg, msg string) error {
	return usageError{arg: arg, msg: msg}
}

// mutationError reports a post the backend rejected. The reload after it still ran.
type mutationError struct {
	kind string
	err  error
}

func (e mutationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.kind, e.err)
}

func (e mutationError) Unwrap() error { return e.err }

type unknownSectionError struct {
	what string
	name string
}

func (e unknownSectionError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.what, e.name)
}
