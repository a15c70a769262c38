package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shaharia-lab/stockroom/internal/storage"
)

// Report is a rendered inventory report.
type Report struct {
	Text   string               `json:"text"`
	Levels []storage.StockLevel `json:"levels"`
}

// InventoryCheck answers stock questions and produces reports.
type InventoryCheck struct {
	bus Emitter
}

// NewInventoryCheck returns an InventoryCheck agent emitting on bus.
func NewInventoryCheck(bus Emitter) *InventoryCheck {
	return &InventoryCheck{bus: bus}
}

// CheckStock emits inventory_checked for name.
func (c *InventoryCheck) CheckStock(ctx context.Context, name string) error {
	if err := c.bus.Emit(ctx, EventInventoryChecked, CheckPayload{ItemName: name}); err != nil {
		return fmt.Errorf("emitting %s: %w", EventInventoryChecked, err)
	}
	return nil
}

// GenerateReport renders levels as text and emits
// inventory_report_generated. Lines follow the order of levels.
func (c *InventoryCheck) GenerateReport(ctx context.Context, levels []storage.StockLevel) (Report, error) {
	report := Report{Text: FormatReport(levels), Levels: levels}

	payload := ReportPayload{Text: report.Text, Levels: levels}
	if err := c.bus.Emit(ctx, EventReportGenerated, payload); err != nil {
		return report, fmt.Errorf("emitting %s: %w", EventReportGenerated, err)
	}
	return report, nil
}

// FormatReport renders the "Inventory Report:" text block.
func FormatReport(levels []storage.StockLevel) string {
	lines := make([]string, 0, len(levels))
	for _, l := range levels {
		lines = append(lines, fmt.Sprintf("%s: %d", l.ItemName, l.Quantity))
	}
	return "Inventory Report:\n" + strings.Join(lines, "\n")
}
