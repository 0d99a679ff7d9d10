package main

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	s := newSpinner(&out)
	s.Start("Waiting for #readme-button")
	s.Stop(true)

	assert.Contains(t, out.String(), "✅")
	assert.Contains(t, out.String(), " Waiting for #readme-button\n")

	s.Start("Waiting again")
	s.Stop(false)

	assert.Contains(t, out.String(), "❌")
	assert.Contains(t, out.String(), " Waiting again\n")
}

func TestSpinnerWrite(t *testing.T) {
	t.Parallel()

	var out syncBuffer
	s := newSpinner(&out)

	_, err := s.Write([]byte("before\n"))
	require.NoError(t, err)
	assert.Equal(t, "before\n", out.String())

	s.Start("Waiting for #readme-button")
	_, err = s.Write([]byte("found\n"))
	require.NoError(t, err)
	s.Stop(true)

	assert.Contains(t, out.String(), clearLine+"found\n")

	// the final mark is printed after the log line, not glued to it
	got := out.String()
	assert.Less(t, strings.Index(got, "found\n"), strings.LastIndex(got, " Waiting for #readme-button\n"))
}

func TestSpinnerNilWriter(t *testing.T) {
	t.Parallel()

	s := newSpinner(nil)
	s.Start("ignored")
	s.Stop(true)

	var nilSpinner *Spinner
	nilSpinner.Start("ignored")
	nilSpinner.Stop(false)
}
