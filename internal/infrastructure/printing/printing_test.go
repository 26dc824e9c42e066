package printing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

// writeScript drops an executable shell script into dir and returns its path.
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// writeDoc creates a dummy document to print.
func writeDoc(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func TestCUPSConfig_Validate(t *testing.T) {
	config := &CUPSConfig{}
	assert.Error(t, config.Validate())

	config = &CUPSConfig{PrinterName: "labels"}
	require.NoError(t, config.Validate())
	assert.Equal(t, "lp", config.LPPath)
	assert.Equal(t, "lpstat", config.LPStatPath)
	assert.NotZero(t, config.JobTimeout)
}

func TestCUPSPrinter_PrintDocuments(t *testing.T) {
	dir := t.TempDir()
	argLog := filepath.Join(dir, "args.log")
	lp := writeScript(t, dir, "lp", `echo "$@" >> `+argLog+`; echo "request id is labels-42 (1 file(s))"`)

	printer, err := NewCUPSPrinter(&CUPSConfig{
		PrinterName: "labels",
		ServerHost:  "cups.local:631",
		LPPath:      lp,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)

	label := writeDoc(t, dir, "label.pdf")
	slip := writeDoc(t, dir, "slip.pdf")
	require.NoError(t, printer.PrintDocuments(context.Background(), []string{label, slip}))

	data, err := os.ReadFile(argLog)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "-h cups.local:631 -d labels "+label, lines[0])
	assert.Equal(t, "-h cups.local:631 -d labels "+slip, lines[1])
}

func TestCUPSPrinter_NoServerHostOmitsFlag(t *testing.T) {
	printer, err := NewCUPSPrinter(&CUPSConfig{PrinterName: "labels"})
	require.NoError(t, err)
	assert.Equal(t, []string{"-d", "labels", "doc.pdf"}, printer.lpArgs("doc.pdf"))
}

func TestCUPSPrinter_MissingDocument(t *testing.T) {
	dir := t.TempDir()
	lp := writeScript(t, dir, "lp", `exit 0`)

	printer, err := NewCUPSPrinter(&CUPSConfig{PrinterName: "labels", LPPath: lp})
	require.NoError(t, err)

	err = printer.PrintDocuments(context.Background(), []string{filepath.Join(dir, "nope.pdf")})
	assert.ErrorIs(t, err, fulfillment.ErrDocumentNotFound)
}

func TestCUPSPrinter_NoDocuments(t *testing.T) {
	printer, err := NewCUPSPrinter(&CUPSConfig{PrinterName: "labels"})
	require.NoError(t, err)

	err = printer.PrintDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, fulfillment.ErrPrintFailed)
}

func TestCUPSPrinter_LPFailure(t *testing.T) {
	dir := t.TempDir()
	lp := writeScript(t, dir, "lp", `echo "lp: The printer or class does not exist." >&2; exit 1`)

	printer, err := NewCUPSPrinter(&CUPSConfig{
		PrinterName: "ghosts",
		LPPath:      lp,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)

	doc := writeDoc(t, dir, "label.pdf")
	err = printer.PrintDocuments(context.Background(), []string{doc})
	assert.ErrorIs(t, err, fulfillment.ErrPrintFailed)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestCUPSPrinter_StopsAtFirstFailure(t *testing.T) {
	dir := t.TempDir()
	argLog := filepath.Join(dir, "args.log")
	lp := writeScript(t, dir, "lp", `echo "$@" >> `+argLog+`; exit 1`)

	printer, err := NewCUPSPrinter(&CUPSConfig{
		PrinterName: "labels",
		LPPath:      lp,
		Logger:      zap.NewNop(),
	})
	require.NoError(t, err)

	label := writeDoc(t, dir, "label.pdf")
	slip := writeDoc(t, dir, "slip.pdf")
	err = printer.PrintDocuments(context.Background(), []string{label, slip})
	require.Error(t, err)

	data, err := os.ReadFile(argLog)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 1)
}

func TestCUPSPrinter_Probe(t *testing.T) {
	dir := t.TempDir()

	ok := writeScript(t, dir, "lpstat-ok", `echo "printer labels is idle."`)
	printer, err := NewCUPSPrinter(&CUPSConfig{PrinterName: "labels", LPStatPath: ok})
	require.NoError(t, err)
	assert.NoError(t, printer.Probe(context.Background()))

	bad := writeScript(t, dir, "lpstat-bad", `echo "lpstat: Invalid destination name" >&2; exit 1`)
	printer, err = NewCUPSPrinter(&CUPSConfig{PrinterName: "labels", LPStatPath: bad})
	require.NoError(t, err)
	err = printer.Probe(context.Background())
	assert.ErrorIs(t, err, fulfillment.ErrPrinterUnreachable)
}

func TestDryRunPrinter(t *testing.T) {
	dir := t.TempDir()
	printer := NewDryRunPrinter(zap.NewNop())

	label := writeDoc(t, dir, "label.pdf")
	slip := writeDoc(t, dir, "slip.pdf")
	require.NoError(t, printer.PrintDocuments(context.Background(), []string{label, slip}))
	assert.Equal(t, []string{label, slip}, printer.Printed())

	err := printer.PrintDocuments(context.Background(), []string{filepath.Join(dir, "nope.pdf")})
	assert.ErrorIs(t, err, fulfillment.ErrDocumentNotFound)

	err = printer.PrintDocuments(context.Background(), nil)
	assert.ErrorIs(t, err, fulfillment.ErrPrintFailed)
}
