package submission

// Stage says where a submission failed.
type Stage string

const (
	StageValidation Stage = "validation"
	StageTransport  Stage = "transport"
	StageServer     Stage = "server"
	StageContract   Stage = "contract"
)

// Error is a failed submission. Message is the single line shown under the form.
type Error struct {
	Stage   Stage
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Stage) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Stage) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }
