package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/raysh454/vulnscan-web/internal/logging"
	"github.com/raysh454/vulnscan-web/internal/model"
	"github.com/raysh454/vulnscan-web/internal/webclient"
)

// RequestTimeout is fixed for every backend call.
const RequestTimeout = 30 * time.Second

// DefaultHistoryLimit is used when FetchHistory is called with limit <= 0.
const DefaultHistoryLimit = 50

const (
	pathScanURL  = "/v1/scan/url"
	pathScanLog  = "/v1/scan/log"
	pathHistory  = "/v1/scans/history"
	pathFeatures = "/info/features"
	pathTiers    = "/info/tiers"
)

// Client talks to the scanning backend. It never retries.
type Client struct {
	baseURL string
	wc      webclient.WebClient
	logger  logging.Logger
}

// NewClient builds a Client for baseURL. When wc is nil a net/http
// webclient with RequestTimeout is created.
func NewClient(baseURL string, wc webclient.WebClient, logger logging.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", baseURL)
	}
	logger = logger.With(logging.Field{Key: "component", Value: "api"})
	if wc == nil {
		wc, err = webclient.NewNetHTTPClient(webclient.Config{Timeout: RequestTimeout}, logger, nil)
		if err != nil {
			return nil, fmt.Errorf("creating webclient: %w", err)
		}
	}
	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		wc:      wc,
		logger:  logger,
	}, nil
}

// Close releases the underlying webclient.
func (c *Client) Close() error {
	return c.wc.Close()
}

// SubmitURLScan runs POST /v1/scan/url.
func (c *Client) SubmitURLScan(ctx context.Context, target string, premium bool) (*model.ScanResult, error) {
	body, err := c.do(ctx, "submit url scan", http.MethodPost, pathScanURL, model.URLScanPayload{URL: target, Premium: premium})
	if err != nil {
		return nil, err
	}
	return c.decodeResult("submit url scan", body)
}

// SubmitLogScan runs POST /v1/scan/log.
func (c *Client) SubmitLogScan(ctx context.Context, filename, content string, premium bool) (*model.ScanResult, error) {
	payload := model.LogScanPayload{Filename: filename, LogContent: content, Premium: premium}
	body, err := c.do(ctx, "submit log scan", http.MethodPost, pathScanLog, payload)
	if err != nil {
		return nil, err
	}
	return c.decodeResult("submit log scan", body)
}

// FetchHistory runs GET /v1/scans/history?limit=N.
func (c *Client) FetchHistory(ctx context.Context, limit int) (*model.History, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	var out model.History
	if err := c.getJSON(ctx, "fetch history", pathHistory+"?limit="+strconv.Itoa(limit), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchFeatures runs GET /info/features.
func (c *Client) FetchFeatures(ctx context.Context) (*model.FeatureInfo, error) {
	var out model.FeatureInfo
	if err := c.getJSON(ctx, "fetch features", pathFeatures, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchTiers runs GET /info/tiers.
func (c *Client) FetchTiers(ctx context.Context) (*model.TierInfo, error) {
	var out model.TierInfo
	if err := c.getJSON(ctx, "fetch tiers", pathTiers, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, v any) error {
	body, err := c.do(ctx, op, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return c.contractError(op, body, err)
	}
	return nil
}

func (c *Client) decodeResult(op string, body []byte) (*model.ScanResult, error) {
	res, err := model.DecodeScanResult(body)
	if err != nil {
		return nil, c.contractError(op, body, err)
	}
	for _, name := range res.Dropped {
		c.logger.Debug("dropping mismatched field",
			logging.Field{Key: "op", Value: op},
			logging.Field{Key: "field", Value: name})
	}
	return res, nil
}

// do performs one request and classifies every failure into *Error, logging
// it once here so callers do not have to.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	req := &webclient.Request{
		Method:  method,
		URL:     c.baseURL + path,
		Headers: http.Header{},
	}
	req.Headers.Set("Accept", "application/json")
	req.Headers.Set("Content-Type", "application/json")
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, c.fail(&Error{Kind: KindRequest, Op: op, Err: fmt.Errorf("encoding payload: %w", err)})
		}
		req.Body = b
	}

	ctx, cancel := context.WithTimeout(ctx, RequestTimeout)
	defer cancel()

	resp, err := c.wc.Do(ctx, req)
	if err != nil {
		kind := KindNoResponse
		if errors.Is(err, webclient.ErrRequestSetup) {
			kind = KindRequest
		}
		return nil, c.fail(&Error{Kind: kind, Op: op, Err: err})
	}
	if !resp.OK() {
		return nil, c.fail(&Error{
			Kind:       KindServer,
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       resp.Body,
			Detail:     DetailMessage(resp.Body),
		})
	}
	return resp.Body, nil
}

func (c *Client) contractError(op string, body []byte, err error) error {
	return c.fail(&Error{Kind: KindContract, Op: op, StatusCode: http.StatusOK, Body: body, Err: fmt.Errorf("decoding response: %w", err)})
}

func (c *Client) fail(e *Error) error {
	switch e.Kind {
	case KindServer:
		c.logger.Error("api error",
			logging.Field{Key: "op", Value: e.Op},
			logging.Field{Key: "status", Value: e.StatusCode},
			logging.Field{Key: "body", Value: truncate(e.Body, 2048)})
	case KindContract:
		c.logger.Error("invalid response body",
			logging.Field{Key: "op", Value: e.Op},
			logging.Field{Key: "error", Value: e.Err.Error()},
			logging.Field{Key: "body", Value: truncate(e.Body, 2048)})
	case KindNoResponse:
		c.logger.Error("no response from server",
			logging.Field{Key: "op", Value: e.Op},
			logging.Field{Key: "error", Value: e.Err.Error()})
	default:
		c.logger.Error("request error",
			logging.Field{Key: "op", Value: e.Op},
			logging.Field{Key: "error", Value: e.Err.Error()})
	}
	return e
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
