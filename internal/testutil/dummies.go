// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// ErrorCount returns how many Error entries were recorded.
func (l *DummyLogger) ErrorCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Errors)
}

// HasError reports whether an Error entry contains substr.
func (l *DummyLogger) HasError(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.Errors {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}

// ─── Scan API ──────────────────────────────────────────────────────────

// ScanCall records one submission made against DummyScanAPI.
type ScanCall struct {
	Kind     model.ScanKind
	URL      string
	Filename string
	Content  string
	Premium  bool
}

// DummyScanAPI implements the scan, history and info contracts in memory.
// Result and Err are returned from both submit calls; Delay holds each call
// until it elapses or ctx is done, and Block, when non-nil, holds each call
// until the channel is closed.
type DummyScanAPI struct {
	mu sync.Mutex

	Result *model.ScanResult
	Err    error
	Delay  time.Duration
	Block  chan struct{}

	History    *model.History
	HistoryErr error
	Features   *model.FeatureInfo
	Tiers      *model.TierInfo
	InfoErr    error

	Calls        []ScanCall
	HistoryCalls []int
}

func (d *DummyScanAPI) wait(ctx context.Context) error {
	if d.Block != nil {
		select {
		case <-d.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if d.Delay > 0 {
		select {
		case <-time.After(d.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (d *DummyScanAPI) SubmitURLScan(ctx context.Context, url string, premium bool) (*model.ScanResult, error) {
	d.mu.Lock()
	d.Calls = append(d.Calls, ScanCall{Kind: model.ScanKindURL, URL: url, Premium: premium})
	d.mu.Unlock()
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.Result, d.Err
}

func (d *DummyScanAPI) SubmitLogScan(ctx context.Context, filename, content string, premium bool) (*model.ScanResult, error) {
	d.mu.Lock()
	d.Calls = append(d.Calls, ScanCall{Kind: model.ScanKindLog, Filename: filename, Content: content, Premium: premium})
	d.mu.Unlock()
	if err := d.wait(ctx); err != nil {
		return nil, err
	}
	return d.Result, d.Err
}

func (d *DummyScanAPI) FetchHistory(ctx context.Context, limit int) (*model.History, error) {
	d.mu.Lock()
	d.HistoryCalls = append(d.HistoryCalls, limit)
	d.mu.Unlock()
	if d.HistoryErr != nil {
		return nil, d.HistoryErr
	}
	if d.History == nil {
		return &model.History{}, nil
	}
	return d.History, nil
}

func (d *DummyScanAPI) FetchFeatures(ctx context.Context) (*model.FeatureInfo, error) {
	if d.InfoErr != nil {
		return nil, d.InfoErr
	}
	if d.Features == nil {
		return &model.FeatureInfo{}, nil
	}
	return d.Features, nil
}

func (d *DummyScanAPI) FetchTiers(ctx context.Context) (*model.TierInfo, error) {
	if d.InfoErr != nil {
		return nil, d.InfoErr
	}
	if d.Tiers == nil {
		return &model.TierInfo{}, nil
	}
	return d.Tiers, nil
}

// CallCount returns the number of submissions received.
func (d *DummyScanAPI) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.Calls)
}

// LastCall returns the most recent submission, or the zero value.
func (d *DummyScanAPI) LastCall() ScanCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.Calls) == 0 {
		return ScanCall{}
	}
	return d.Calls[len(d.Calls)-1]
}

// MustDecode decodes a scan result payload or panics; for fixtures only.
func MustDecode(payload string) *model.ScanResult {
	r, err := model.DecodeScanResult([]byte(payload))
	if err != nil {
		panic(err)
	}
	return r
}
