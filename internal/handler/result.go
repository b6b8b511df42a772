package handler

// ErrorPrefix starts every failed tool response.
const ErrorPrefix = "Error: "

// Result is the outcome of a tool: either response text or an error.
type Result struct {
	text string
	err  error
}

// Text is a successful plain-text result.
func Text(s string) Result {
	return Result{text: s}
}

// JSON is a successful result rendered as indented JSON.
func JSON(v any) Result {
	return Result{text: prettyPrintJSON(v)}
}

// Failure is a failed result.
func Failure(err error) Result {
	return Result{err: err}
}

// Err returns the failure, or nil on success.
func (r Result) Err() error {
	return r.err
}

// Render turns either variant into the text handed back to the caller.
func (r Result) Render() string {
	if r.err != nil {
		return ErrorPrefix + r.err.Error()
	}
	return r.text
}
