package handler

import "fmt"

// PartialFailureError reports a two-step tool whose first step changed the
// issue upstream but whose follow-up fetch failed. The change is not rolled
// back.
type PartialFailureError struct {
	IssueKey string
	// Action is "created" or "updated".
	Action string
	Err    error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("issue %s was %s but could not be fetched: %v", e.IssueKey, e.Action, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}

// UnknownToolError is returned for a tool name outside the registry.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}
