package interfaces

import (
	"context"

	"github.com/raysh454/vulnscan-web/internal/model"
)

// ScanSubmitter submits scans to the backend.
type ScanSubmitter interface {
	SubmitURLScan(ctx context.Context, url string, premium bool) (*model.ScanResult, error)
	SubmitLogScan(ctx context.Context, filename, content string, premium bool) (*model.ScanResult, error)
}

// HistoryFetcher lists past scans, newest first.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, limit int) (*model.History, error)
}

// InfoFetcher reads the backend's descriptive metadata.
type InfoFetcher interface {
	FetchFeatures(ctx context.Context) (*model.FeatureInfo, error)
	FetchTiers(ctx context.Context) (*model.TierInfo, error)
}

// ScanAPI is everything the front end needs from the backend.
type ScanAPI interface {
	ScanSubmitter
	HistoryFetcher
	InfoFetcher
}
