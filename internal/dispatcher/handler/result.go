package handler

import "fmt"

// ResultStatus is the outcome of a command.
type ResultStatus uint8

const (
	StatusOK ResultStatus = iota
	// StatusNoOp means nothing changed. Unknown labels end here too.
	StatusNoOp
	// StatusError means the handler failed; the error stops at the handler
	// boundary and is carried in Result.Error.
	StatusError
	// StatusCancelled means the user declined to choose a resource.
	StatusCancelled
)

var statusNames = [...]string{
	StatusOK:        "ok",
	StatusNoOp:      "no-op",
	StatusError:     "error",
	StatusCancelled: "cancelled",
}

func (s ResultStatus) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Result is what a handler returns for one command.
type Result struct {
	Status  ResultStatus
	Error   error
	Message string

	// Mutated is set when the document content changed, so paired
	// documents must be brought up to date.
	Mutated bool

	Data map[string]any
}

func (r Result) IsOK() bool    { return r.Status == StatusOK }
func (r Result) IsError() bool { return r.Status == StatusError }

func Success() Result   { return Result{Status: StatusOK} }
func NoOp() Result      { return Result{Status: StatusNoOp} }
func Cancelled() Result { return Result{Status: StatusCancelled} }

func SuccessWithMessage(msg string) Result   { return Success().WithMessage(msg) }
func NoOpWithMessage(msg string) Result      { return NoOp().WithMessage(msg) }
func CancelledWithMessage(msg string) Result { return Cancelled().WithMessage(msg) }

// Error wraps err in an error result.
func Error(err error) Result {
	return Result{Status: StatusError, Error: err}
}

// Errorf is Error(fmt.Errorf(format, args...)).
func Errorf(format string, args ...any) Result {
	return Error(fmt.Errorf(format, args...))
}

func (r Result) WithMessage(msg string) Result {
	r.Message = msg
	return r
}

func (r Result) WithMutation(changed bool) Result {
	r.Mutated = changed
	return r
}

// WithData returns r with key set. The map is copied so results derived
// from the same value do not share data.
func (r Result) WithData(key string, value any) Result {
	data := make(map[string]any, len(r.Data)+1)
	for k, v := range r.Data {
		data[k] = v
	}
	data[key] = value
	r.Data = data
	return r
}

func (r Result) GetData(key string) (any, bool) {
	v, ok := r.Data[key]
	return v, ok
}

func (r Result) GetDataString(key string) string {
	return dataAs[string](r, key)
}

func (r Result) GetDataBool(key string) bool {
	return dataAs[bool](r, key)
}

func dataAs[T any](r Result, key string) T {
	v, _ := r.Data[key].(T)
	return v
}
