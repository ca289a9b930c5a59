// Package submission implements the scan form: mode switching, input
// validation, the single backend call and the hand-off to the result route.
//
// A Form moves through Idle → Validating → Submitting → Success | Failed and
// then back to Idle. Only one submission may be outstanding at a time and the
// inputs cannot be edited while it is.
package submission

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/raysh454/vulnscan-web/internal/api"
	"github.com/raysh454/vulnscan-web/internal/interfaces"
	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/model"
	"github.com/raysh454/vulnscan-web/internal/resultcache"
	"github.com/raysh454/vulnscan-web/internal/utils"
)

// State is a step of the submission state machine.
type State string

const (
	StateIdle       State = "idle"
	StateValidating State = "validating"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// User-facing messages.
const (
	MsgEmptyURL        = "Please enter a website URL."
	MsgInvalidURL      = "Please enter a valid URL."
	MsgEmptyLog        = "Please paste log data to scan."
	MsgInvalidResponse = "Invalid scan response from server"
	MsgFallback        = "Scan failed. Please check backend logs."
)

var (
	// ErrBusy is returned by the input mutators while a submission is outstanding.
	ErrBusy = errors.New("form inputs are disabled while a scan is submitting")
	// ErrInFlight is returned by Submit when another submission is outstanding.
	ErrInFlight = errors.New("a scan is already being submitted")
)

// Transition is published to the observer on every state change.
type Transition struct {
	From    State          `json:"from"`
	To      State          `json:"to"`
	Mode    model.ScanKind `json:"mode"`
	Message string         `json:"message,omitempty"`
	ScanID  string         `json:"scan_id,omitempty"`
	At      time.Time      `json:"at"`
}

// Observer receives transitions. It is called without the form lock held.
type Observer func(Transition)

// Snapshot is what the form template renders.
type Snapshot struct {
	State       State
	Mode        model.ScanKind
	URL         string
	LogFilename string
	LogBody     string
	Premium     bool
	Error       string
}

// Busy reports whether inputs and the submit control are disabled.
func (s Snapshot) Busy() bool {
	return s.State == StateValidating || s.State == StateSubmitting
}

// IsURL reports whether the form is in url mode.
func (s Snapshot) IsURL() bool {
	return s.Mode == model.ScanKindURL
}

// Form is one user's scan form. It is safe for concurrent use.
type Form struct {
	api      interfaces.ScanSubmitter
	cache    resultcache.Writer
	logger   logging.Logger
	observer Observer
	now      func() time.Time

	mu       sync.Mutex
	state    State
	mode     model.ScanKind
	url      string
	filename string
	body     string
	premium  bool
	errMsg   string
}

// NewForm returns an idle form in url mode. observer may be nil.
func NewForm(scanAPI interfaces.ScanSubmitter, cache resultcache.Writer, logger logging.Logger, observer Observer) *Form {
	return &Form{
		api:      scanAPI,
		cache:    cache,
		logger:   logger.With(logging.Field{Key: "component", Value: "submission"}),
		observer: observer,
		now:      time.Now,
		state:    StateIdle,
		mode:     model.ScanKindURL,
		filename: model.DefaultLogFilename,
	}
}

// Snapshot returns a copy of the current render state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		State:       f.state,
		Mode:        f.mode,
		URL:         f.url,
		LogFilename: f.filename,
		LogBody:     f.body,
		Premium:     f.premium,
		Error:       f.errMsg,
	}
}

// SetMode switches between url and log mode. Switching to url clears the log
// body; switching to log clears the URL and turns premium off. Selecting the
// current mode again applies the same clearing.
func (f *Form) SetMode(mode model.ScanKind) error {
	return f.edit(func() error {
		switch mode {
		case model.ScanKindURL:
			f.body = ""
		case model.ScanKindLog:
			f.url = ""
			f.premium = false
		default:
			return model.ErrInvalidScanRequest
		}
		f.mode = mode
		return nil
	})
}

func (f *Form) SetURL(s string) error {
	return f.edit(func() error { f.url = s; return nil })
}

func (f *Form) SetLogFilename(s string) error {
	return f.edit(func() error { f.filename = s; return nil })
}

func (f *Form) SetLogBody(s string) error {
	return f.edit(func() error { f.body = s; return nil })
}

func (f *Form) SetPremium(on bool) error {
	return f.edit(func() error { f.premium = on; return nil })
}

func (f *Form) edit(apply func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == StateValidating || f.state == StateSubmitting {
		return ErrBusy
	}
	return apply()
}

// Submit validates the inputs, issues exactly one backend call and, on
// success, stores the result in the cache and returns the navigation to the
// result route. Any failure comes back as *Error and leaves the inputs intact.
func (f *Form) Submit(ctx context.Context) (*model.Navigation, error) {
	f.mu.Lock()
	if f.state == StateValidating || f.state == StateSubmitting {
		f.mu.Unlock()
		return nil, ErrInFlight
	}
	f.errMsg = ""
	req := f.request()
	t := f.moveLocked(StateValidating, "", "")
	f.mu.Unlock()
	f.publish(t)

	req, verr := validate(req)
	if verr != nil {
		return nil, f.fail(verr)
	}

	f.transition(StateSubmitting, "", "")
	res, err := f.send(ctx, req)
	if err != nil {
		return nil, f.fail(classify(err))
	}
	if res == nil || res.ScanID == "" {
		f.logger.Warn("scan response without scan_id", logging.Field{Key: "mode", Value: string(req.Kind)})
		return nil, f.fail(&Error{Stage: StageContract, Message: MsgInvalidResponse})
	}

	if err := f.cache.Put(ctx, res); err != nil {
		// The result is still shown through navigation state.
		f.logger.Error("caching scan result", logging.Field{Key: "scan_id", Value: res.ScanID}, logging.Field{Key: "error", Value: err.Error()})
	}

	f.transition(StateSuccess, "", res.ScanID)
	f.transition(StateIdle, "", "")
	return &model.Navigation{Path: model.ResultPath(res.ScanID), State: res}, nil
}

// request snapshots the inputs of the current mode; f.mu must be held.
func (f *Form) request() model.ScanRequest {
	if f.mode == model.ScanKindLog {
		return model.NewLogScanRequest(f.filename, f.body, f.premium)
	}
	return model.NewURLScanRequest(f.url, f.premium)
}

func (f *Form) send(ctx context.Context, req model.ScanRequest) (*model.ScanResult, error) {
	if req.Kind == model.ScanKindLog {
		return f.api.SubmitLogScan(ctx, req.Filename, req.Content, req.Premium)
	}
	return f.api.SubmitURLScan(ctx, req.URL, req.Premium)
}

// validate runs the client-side checks and returns the request to send, with
// the default scheme applied to URLs.
func validate(req model.ScanRequest) (model.ScanRequest, *Error) {
	switch req.Kind {
	case model.ScanKindLog:
		if strings.TrimSpace(req.Content) == "" {
			return req, &Error{Stage: StageValidation, Message: MsgEmptyLog}
		}
	default:
		if strings.TrimSpace(req.URL) == "" {
			return req, &Error{Stage: StageValidation, Message: MsgEmptyURL}
		}
		target, err := utils.NormalizeTargetURL(req.URL)
		if err != nil {
			return req, &Error{Stage: StageValidation, Message: MsgInvalidURL, Err: err}
		}
		req.URL = target
	}
	if err := req.Validate(); err != nil {
		return req, &Error{Stage: StageValidation, Message: MsgFallback, Err: err}
	}
	return req, nil
}

// classify turns a client failure into the message shown inline.
func classify(err error) *Error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case api.KindServer:
			msg := apiErr.Detail
			if msg == "" {
				msg = MsgFallback
			}
			return &Error{Stage: StageServer, Message: msg, Err: err}
		case api.KindContract:
			return &Error{Stage: StageContract, Message: MsgInvalidResponse, Err: err}
		}
	}
	return &Error{Stage: StageTransport, Message: MsgFallback, Err: err}
}

func (f *Form) fail(e *Error) *Error {
	f.mu.Lock()
	f.errMsg = e.Message
	f.mu.Unlock()
	f.transition(StateFailed, e.Message, "")
	f.transition(StateIdle, e.Message, "")
	return e
}

func (f *Form) transition(to State, msg, scanID string) {
	f.mu.Lock()
	t := f.moveLocked(to, msg, scanID)
	f.mu.Unlock()
	f.publish(t)
}

func (f *Form) moveLocked(to State, msg, scanID string) Transition {
	t := Transition{From: f.state, To: to, Mode: f.mode, Message: msg, ScanID: scanID, At: f.now()}
	f.state = to
	return t
}

func (f *Form) publish(t Transition) {
	f.logger.Debug("form transition",
		logging.Field{Key: "from", Value: string(t.From)},
		logging.Field{Key: "to", Value: string(t.To)},
		logging.Field{Key: "mode", Value: string(t.Mode)})
	if f.observer != nil {
		f.observer(t)
	}
}
