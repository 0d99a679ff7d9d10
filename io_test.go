package main

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadURLsFromCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := filepath.Join(dir, "urls.csv")
	data := "url,note\n https://example.com/a ,first\n\nhttps://example.com/b\n,empty\n"
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))

	urls, err := readURLsFromCSV(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, urls)
}

func TestReadURLsFromCSVEmpty(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(p, nil, 0o600))

	_, err := readURLsFromCSV(p)
	assert.ErrorContains(t, err, "CSV file is empty or missing header")
}

func TestReadURLsColumn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want []string
	}{
		{
			name: "named_column",
			data: "name,Website,notes\nAcme,https://acme.test,x\nBeta, https://beta.test ,y\n",
			want: []string{"https://acme.test", "https://beta.test"},
		},
		{
			name: "first_column_fallback",
			data: "address\nhttps://a.test\nhttps://b.test\n",
			want: []string{"https://a.test", "https://b.test"},
		},
		{
			name: "comments_and_short_rows",
			data: "id,url\n# skipped for now\n1,https://a.test\n2\n3,\n",
			want: []string{"https://a.test"},
		},
		{
			name: "header_only",
			data: "url\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			urls, err := readURLs(strings.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, urls)
		})
	}
}

func TestReadURLsMalformed(t *testing.T) {
	t.Parallel()

	_, err := readURLs(strings.NewReader("url\n\"https://a.test\n"))
	assert.Error(t, err)
}

func TestValidateInputFile(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validateInputFile(""))

	err := validateInputFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorContains(t, err, "input file does not exist")
}

func TestWriteResultsToCSV(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "report.csv")
	results := []clickResult{
		{
			url:     "https://example.com/a",
			clicked: true,
			ticks:   6,
			elapsed: 612 * time.Millisecond,
			element: `button "Readme"`,
		},
		{
			url: "https://example.com/b",
			err: errors.New("context deadline exceeded"),
		},
	}

	require.NoError(t, writeResultsToCSV(p, results))

	f, err := os.Open(p)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"URL", "Clicked", "Ticks", "Elapsed (ms)", "Element", "Error"},
		{"https://example.com/a", "✅", "6", "612", `button "Readme"`, ""},
		{"https://example.com/b", "❌", "0", "0", "", "context deadline exceeded"},
	}, records)
}
