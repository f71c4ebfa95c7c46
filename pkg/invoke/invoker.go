package invoke

import "context"

// Invoker runs xbe commands such as
//
//	view customers list --limit 1
//	do customers create --name X --broker 12
//	do customers delete 42 --confirm
//
// Failures are reported in the Result, never as a
// panic or an error return.
type Invoker interface {
	Run(ctx context.Context, args ...string) Result
	// JSON is Run with --json appended.
	JSON(ctx context.Context, args ...string) Result
}

func withJSON(args []string) []string {
	for _, a := range args {
		if a == "--json" {
			return args
		}
	}
	out := make([]string, 0, len(args)+1)
	out = append(out, args...)
	return append(out, "--json")
}
