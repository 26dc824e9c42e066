// Package printing submits documents to a CUPS print queue through the lp
// command-line tools. A dry-run sink is provided for setups without a
// reachable printer.
package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

const (
	defaultLPPath     = "lp"
	defaultLPStatPath = "lpstat"
	defaultJobTimeout = 30 * time.Second
)

// CUPSConfig contains configuration for the CUPS print sink
type CUPSConfig struct {
	// PrinterName is the CUPS queue to print to. Required.
	PrinterName string
	// ServerHost is the CUPS server, host or host:port. Empty uses the
	// local default server.
	ServerHost string
	// LPPath is the path to the lp binary. Default: lp
	LPPath string
	// LPStatPath is the path to the lpstat binary. Default: lpstat
	LPStatPath string
	// JobTimeout bounds a single lp invocation
	JobTimeout time.Duration
	// Logger for output
	Logger *zap.Logger
}

// Validate checks required fields and fills defaults
func (c *CUPSConfig) Validate() error {
	if c.PrinterName == "" {
		return errors.New("printing: printer name is required")
	}
	if c.LPPath == "" {
		c.LPPath = defaultLPPath
	}
	if c.LPStatPath == "" {
		c.LPStatPath = defaultLPStatPath
	}
	if c.JobTimeout == 0 {
		c.JobTimeout = defaultJobTimeout
	}
	return nil
}

// CUPSPrinter submits documents to a CUPS queue via lp
type CUPSPrinter struct {
	config *CUPSConfig
	logger *zap.Logger
}

// NewCUPSPrinter creates the CUPS print sink.
func NewCUPSPrinter(config *CUPSConfig) (*CUPSPrinter, error) {
	if config == nil {
		config = &CUPSConfig{}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CUPSPrinter{config: config, logger: logger}, nil
}

// PrintDocuments submits each document to the queue in order. It fails on
// the first document that cannot be submitted; earlier submissions are not
// recalled.
func (p *CUPSPrinter) PrintDocuments(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: no documents to print", fulfillment.ErrPrintFailed)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s: %v", fulfillment.ErrDocumentNotFound, path, err)
		}
	}

	for _, path := range paths {
		if err := p.submit(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// submit runs a single lp invocation for the document.
func (p *CUPSPrinter) submit(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.JobTimeout)
	defer cancel()

	args := p.lpArgs(path)
	cmd := exec.CommandContext(ctx, p.config.LPPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: lp timed out after %v for %s",
				fulfillment.ErrPrintFailed, p.config.JobTimeout, path)
		}
		p.logger.Error("lp failed",
			zap.String("path", path),
			zap.String("stderr", stderr.String()),
			zap.Error(err))
		return fmt.Errorf("%w: %s: %s", fulfillment.ErrPrintFailed, path,
			strings.TrimSpace(stderr.String()))
	}

	// lp reports "request id is <printer>-<job> (1 file(s))"
	p.logger.Info("Submitted print job",
		zap.String("path", path),
		zap.String("printer", p.config.PrinterName),
		zap.String("lp_output", strings.TrimSpace(stdout.String())))
	return nil
}

// lpArgs builds the lp argument list for a document.
func (p *CUPSPrinter) lpArgs(path string) []string {
	args := []string{}
	if p.config.ServerHost != "" {
		args = append(args, "-h", p.config.ServerHost)
	}
	args = append(args, "-d", p.config.PrinterName, path)
	return args
}

// Probe checks that the configured queue is known to the CUPS server. A
// probe failure usually means the server is down or the queue name is wrong.
func (p *CUPSPrinter) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.JobTimeout)
	defer cancel()

	args := []string{}
	if p.config.ServerHost != "" {
		args = append(args, "-h", p.config.ServerHost)
	}
	args = append(args, "-p", p.config.PrinterName)

	cmd := exec.CommandContext(ctx, p.config.LPStatPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %s", fulfillment.ErrPrinterUnreachable,
			p.config.PrinterName, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// Ensure CUPSPrinter implements the domain port
var _ fulfillment.PrintSink = (*CUPSPrinter)(nil)
