package main

import (
	"context"

	"github.com/sirupsen/logrus"
)

// extractor defines the interface for extracting URLs from different sources
type extractor interface {
	extract(ctx context.Context) ([]string, error)
}

// flagExtractor returns the URLs given on the command line - it satisfies
// the extractor interface
type flagExtractor struct {
	urls []string
}

func newFlagExtractor(urls []string) *flagExtractor {
	return &flagExtractor{urls}
}

func (f *flagExtractor) extract(_ context.Context) ([]string, error) {
	return f.urls, nil
}

// csvExtractor is responsible for reading a CSV file and extracting URLs
// from it - it satisfies the extractor interface
type csvExtractor struct {
	inputFile string
}

func newCSVExtractor(inputFile string) *csvExtractor {
	return &csvExtractor{inputFile}
}

func (c *csvExtractor) extract(_ context.Context) ([]string, error) {
	if c.inputFile == "" {
		return nil, nil
	}

	return readURLsFromCSV(c.inputFile)
}

// extractTargets collects targets from every configured source, in order
func extractTargets(ctx context.Context, cfg config, log logrus.FieldLogger) ([]*target, error) {
	var urls []string

	extractors := []extractor{
		newFlagExtractor(cfg.urls),
		newCSVExtractor(cfg.input),
	}

	for _, e := range extractors {
		extracted, err := e.extract(ctx)
		if err != nil {
			return nil, err
		}

		urls = append(urls, extracted...)
	}

	return filterTargets(urls, log), nil
}
