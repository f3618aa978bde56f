package scraper

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
)

// ErrUnknownTarget is returned when asked to scrape a site that has no
// registered scraper.
var ErrUnknownTarget = errors.New("unknown scrape target")

// Registered target names.
const (
	TargetAWSFAQ = "aws-faqs"
	TargetBG3    = "bg3"
)

// Scraper fetches a site's pages and stores them through a Writer.
type Scraper interface {
	Run(ctx context.Context) error
}

// TargetOption configures a target scraper.
type TargetOption func(*targetConfig)

type targetConfig struct {
	baseURL  string
	poolSize int
}

// WithBaseURL overrides the scraper's site URL. Used in tests.
func WithBaseURL(url string) TargetOption {
	return func(c *targetConfig) {
		c.baseURL = url
	}
}

// WithPoolSize sets how many pages are fetched concurrently.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) TargetOption {
	return func(c *targetConfig) {
		if size < 1 {
			size = 1
		}
		c.poolSize = size
	}
}

func newTargetConfig(opts ...TargetOption) targetConfig {
	cfg := targetConfig{poolSize: runtime.NumCPU()}
	if cfg.poolSize < 1 {
		cfg.poolSize = 1
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// New creates the scraper registered under target, writing through writer.
func New(target string, fetcher *Fetcher, writer Writer, opts ...TargetOption) (Scraper, error) {
	switch target {
	case TargetAWSFAQ:
		return NewAWSFAQ(fetcher, writer, opts...), nil
	case TargetBG3:
		return NewBG3(fetcher, writer, opts...), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, target)
	}
}

// Targets lists the registered target names.
func Targets() []string {
	targets := []string{TargetAWSFAQ, TargetBG3}
	sort.Strings(targets)
	return targets
}
