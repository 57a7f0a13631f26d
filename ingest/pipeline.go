// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/poiesic/eventide/core"
	"github.com/poiesic/eventide/opendata"
	"github.com/poiesic/eventide/table"
)

// Fetcher is the pipeline's view of the open-data collaborator.
type Fetcher interface {
	// FetchEvents issues one filtered fetch and returns the raw records.
	FetchEvents(ctx context.Context, q opendata.Query) ([]core.RawRecord, error)
}

// Config holds the parameters of one ingestion run.
type Config struct {
	// Region restricts the fetch and the validation to one region.
	Region string

	// Limit caps the number of records requested. Default: 5000.
	Limit int

	// SinceDays and UntilDays span the fetch date window around the
	// current time. Default: 365 each.
	SinceDays int
	UntilDays int

	// WriteErrors enables the rejection log. ErrorFile is where it is
	// written, one JSON object per line.
	WriteErrors bool
	ErrorFile   string

	// Now supplies the run's reference time. Default: time.Now.
	Now func() time.Time
}

// Validate checks the configuration, applying defaults for unset
// optional values.
func (c *Config) Validate() error {
	if c.Region == "" {
		return core.ErrRegionRequired
	}
	if c.Limit <= 0 {
		c.Limit = 5000
	}
	if c.SinceDays <= 0 {
		c.SinceDays = 365
	}
	if c.UntilDays <= 0 {
		c.UntilDays = 365
	}
	if c.WriteErrors && c.ErrorFile == "" {
		return ErrErrorFileRequired
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return nil
}

// Report summarizes one completed ingestion run.
type Report struct {
	Fetched  int
	Accepted int
	Rejected int
	Columns  int
}

// Pipeline orchestrates one ingestion run: fetch, validate, partition,
// persist. Runs are synchronous and single-batch; concurrent runs
// against the same destination are not coordinated.
type Pipeline struct {
	fetcher   Fetcher
	validator *core.Validator
	cfg       Config
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(fetcher Fetcher, cfg Config, opts ...Option) (*Pipeline, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	validator, err := core.NewValidator(core.ValidatorConfig{
		Region:    cfg.Region,
		UntilDays: cfg.UntilDays,
		Now:       cfg.Now,
	})
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		fetcher:   fetcher,
		validator: validator,
		cfg:       cfg,
		logger:    slog.Default().With("component", "ingest-pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run executes one ingestion and writes the accepted batch as a parquet
// table at destination. A fetch that yields zero raw records is fatal;
// a batch where every record is rejected still writes an empty table.
// Fetch failures are wrapped and returned, never retried.
func (p *Pipeline) Run(ctx context.Context, destination string) (*Report, error) {
	now := p.cfg.Now()
	query := opendata.Query{
		Region: p.cfg.Region,
		Since:  now.AddDate(0, 0, -p.cfg.SinceDays),
		Until:  now.AddDate(0, 0, p.cfg.UntilDays),
		Limit:  p.cfg.Limit,
	}

	records, err := p.fetcher.FetchEvents(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching events: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}
	p.logger.Debug("fetched raw records", "count", len(records))

	var accepted []*core.Event
	var rejected []*core.Rejection
	for _, record := range records {
		ev, rej := p.validator.Validate(record)
		if rej != nil {
			rejected = append(rejected, rej)
			continue
		}
		accepted = append(accepted, ev)
	}

	if len(rejected) > 0 {
		p.logger.Warn("records did not pass validation", "rejected", len(rejected))
		if p.cfg.WriteErrors {
			// Best-effort logging; a failed write never fails the run.
			if err := p.writeRejections(rejected); err != nil {
				p.logger.Error("error writing rejection log", "path", p.cfg.ErrorFile, "err", err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	rows, cols, err := table.WriteEvents(destination, accepted)
	if err != nil {
		return nil, err
	}
	p.logger.Info("data saved", "path", destination, "rows", rows, "columns", cols)

	return &Report{
		Fetched:  len(records),
		Accepted: len(accepted),
		Rejected: len(rejected),
		Columns:  cols,
	}, nil
}

// writeRejections overwrites the rejection log with one JSON object per
// rejected record, each carrying the raw record and its failure reason.
func (p *Pipeline) writeRejections(rejected []*core.Rejection) error {
	if err := os.MkdirAll(filepath.Dir(p.cfg.ErrorFile), 0o755); err != nil {
		return err
	}

	file, err := os.Create(p.cfg.ErrorFile)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, rej := range rejected {
		if err := encoder.Encode(rej); err != nil {
			return err
		}
	}

	p.logger.Warn("rejection log written", "path", p.cfg.ErrorFile, "entries", len(rejected))
	return nil
}
