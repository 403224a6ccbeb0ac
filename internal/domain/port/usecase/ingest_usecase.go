package usecase

import (
	"context"
	"time"
)

// IngestResult summarizes a committed ingest
type IngestResult struct {
	FileName string `json:"fileName"`
	Created  int    `json:"created"`
	Updated  int    `json:"updated"`
	Skipped  int    `json:"skipped"`
}

// Ingester applies a reassembled CSV file to the record store
type Ingester interface {
	// Ingest upserts every row of the file in one transaction, stamping new
	// records with at. Either all rows are applied or none are.
	Ingest(ctx context.Context, fileName string, at time.Time) (*IngestResult, error)
}
