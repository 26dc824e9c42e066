package printing

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/erp/fulfillment/internal/domain/fulfillment"
)

// DryRunPrinter logs what would be printed without touching CUPS. It is the
// fallback sink when the printer probe fails at startup, and the default in
// sandbox setups.
type DryRunPrinter struct {
	logger *zap.Logger

	mu      sync.Mutex
	printed []string
}

// NewDryRunPrinter creates the dry-run print sink.
func NewDryRunPrinter(logger *zap.Logger) *DryRunPrinter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DryRunPrinter{logger: logger}
}

// PrintDocuments verifies the documents exist and logs them instead of
// printing. Missing documents still fail so the pipeline keeps the order
// for the next pass.
func (p *DryRunPrinter) PrintDocuments(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: no documents to print", fulfillment.ErrPrintFailed)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s: %v", fulfillment.ErrDocumentNotFound, path, err)
		}
	}

	p.mu.Lock()
	p.printed = append(p.printed, paths...)
	p.mu.Unlock()

	p.logger.Info("Dry run: would print documents",
		zap.Strings("paths", paths))
	return nil
}

// Printed returns the documents recorded so far.
func (p *DryRunPrinter) Printed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.printed))
	copy(out, p.printed)
	return out
}

var _ fulfillment.PrintSink = (*DryRunPrinter)(nil)
