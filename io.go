package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
)

// validateInputFile checks if the input CSV file exists and is readable
func validateInputFile(filename string) error {
	if filename == "" {
		return nil // not using input file
	}

	_, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", filename)
	} else if err != nil {
		return fmt.Errorf("cannot access input file: %w", err)
	}

	return nil
}

// urlHeaders are the header names recognised as the URL column
var urlHeaders = []string{"url", "urls", "website", "link", "page"}

// readURLsFromCSV reads the URL column of the given CSV file
func readURLsFromCSV(filename string) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	urls, err := readURLs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV %s: %w", filename, err)
	}

	return urls, nil
}

// readURLs streams CSV records from r. The first record is a header naming
// the URL column (see urlHeaders), the first column is used when no header
// matches. Lines starting with # and blank cells are skipped.
func readURLs(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("CSV file is empty or missing header")
	}
	if err != nil {
		return nil, err
	}

	col := urlColumn(header)

	var urls []string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if col >= len(row) {
			continue
		}

		if url := strings.TrimSpace(row[col]); url != "" {
			urls = append(urls, url)
		}
	}

	return urls, nil
}

func urlColumn(header []string) int {
	for i, name := range header {
		if slices.Contains(urlHeaders, strings.ToLower(strings.TrimSpace(name))) {
			return i
		}
	}

	return 0
}

// writeResultsToCSV writes one row per page load to the output CSV
func writeResultsToCSV(filename string, results []clickResult) error {
	outFile, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer outFile.Close()

	writer := csv.NewWriter(outFile)

	err = writer.Write([]string{"URL", "Clicked", "Ticks", "Elapsed (ms)", "Element", "Error"})
	if err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	for _, res := range results {
		errText := ""
		if res.err != nil {
			errText = res.err.Error()
		}

		err := writer.Write([]string{
			res.url,
			boolToEmoji(res.clicked),
			fmt.Sprint(res.ticks),
			fmt.Sprint(res.elapsed.Milliseconds()),
			res.element,
			errText,
		})
		if err != nil {
			return fmt.Errorf("failed to write to file: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}

	return nil
}

// boolToEmoji takes in a boolean and returns corresponding
// emoji to visual inspection
func boolToEmoji(ok bool) string {
	if !ok {
		return "❌"
	}

	return "✅"
}
