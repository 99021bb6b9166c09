// Package reporter renders validation reports for downstream consumers.
//
// Supported output formats:
//   - Console: human-readable field table for terminal display
//   - JSON: the wire shape consumed by downstream collaborators
//   - CSV: one row per compared field for spreadsheet analysis
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/schema"
)

// OutputFormat represents the supported report output formats.
type OutputFormat string

const (
	FormatConsole OutputFormat = "console"
	FormatJSON    OutputFormat = "json"
	FormatCSV     OutputFormat = "csv"
)

// IsValid checks if the output format is supported.
func (f OutputFormat) IsValid() bool {
	switch f {
	case FormatConsole, FormatJSON, FormatCSV:
		return true
	default:
		return false
	}
}

// Reporter writes validation reports in the configured format.
type Reporter struct {
	format OutputFormat
}

// NewReporter creates a reporter for the given format.
func NewReporter(format OutputFormat) (*Reporter, error) {
	if !format.IsValid() {
		return nil, fmt.Errorf("unsupported output format '%s'", format)
	}
	return &Reporter{format: format}, nil
}

// Write renders the report to w.
func (r *Reporter) Write(w io.Writer, report *models.ValidationReport) error {
	switch r.format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatCSV:
		return writeCSV(w, report)
	default:
		return writeConsole(w, report)
	}
}

func writeJSON(w io.Writer, report *models.ValidationReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeConsole(w io.Writer, report *models.ValidationReport) error {
	summary := report.Summarize()

	fmt.Fprintln(w, "INVOICE VALIDATION REPORT")
	fmt.Fprintln(w, strings.Repeat("=", 72))
	fmt.Fprintf(w, "Fields compared: %d   Matched: %d   Partial: %d   Mismatched: %d\n",
		summary.TotalFields, summary.Matched, summary.PartiallyMatched, summary.Mismatched)
	fmt.Fprintf(w, "Line items: %d   Mean confidence: %.2f\n\n", summary.LineItems, summary.MeanConfidence)

	fmt.Fprintln(w, "Invoice fields:")
	writeFieldTable(w, orderedInvoiceFields(report))

	fmt.Fprintln(w, "\nPurchase order:")
	writeFieldTable(w, []namedField{{schema.FieldPurchaseOrderNumber, report.PurchaseOrder.PurchaseOrderNumber}})

	for i, item := range report.PurchaseOrder.PurchaseOrderDeliveryLineItems {
		fmt.Fprintf(w, "\nLine item %d:\n", i+1)
		writeFieldTable(w, orderedLineItemFields(item))
	}
	return nil
}

type namedField struct {
	name  string
	field models.ValidationField
}

func writeFieldTable(w io.Writer, fields []namedField) {
	for _, nf := range fields {
		fmt.Fprintf(w, "  %-22s %-18s | %-18s  %.2f  %s\n",
			nf.name,
			truncate(nf.field.ExtractedValue, 18),
			truncate(nf.field.ReferenceValue, 18),
			nf.field.MatchConfidence,
			nf.field.ComparisonStatus)
	}
}

func writeCSV(w io.Writer, report *models.ValidationReport) error {
	cw := csv.NewWriter(w)
	header := []string{"section", "field", "extracted_value", "extract_confidence",
		"reference_value", "match_confidence", "comparison_status"}
	if err := cw.Write(header); err != nil {
		return err
	}

	writeRow := func(section, name string, f models.ValidationField) error {
		return cw.Write([]string{
			section,
			name,
			f.ExtractedValue,
			strconv.FormatFloat(f.ExtractConfidence, 'f', 2, 64),
			f.ReferenceValue,
			strconv.FormatFloat(f.MatchConfidence, 'f', 2, 64),
			f.ComparisonStatus.String(),
		})
	}

	for _, nf := range orderedInvoiceFields(report) {
		if err := writeRow("Invoice", nf.name, nf.field); err != nil {
			return err
		}
	}
	if err := writeRow("PurchaseOrder", schema.FieldPurchaseOrderNumber, report.PurchaseOrder.PurchaseOrderNumber); err != nil {
		return err
	}
	for i, item := range report.PurchaseOrder.PurchaseOrderDeliveryLineItems {
		section := fmt.Sprintf("LineItem_%d", i+1)
		for _, nf := range orderedLineItemFields(item) {
			if err := writeRow(section, nf.name, nf.field); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// orderedInvoiceFields returns the invoice fields in canonical order so
// console and CSV output are deterministic.
func orderedInvoiceFields(report *models.ValidationReport) []namedField {
	fields := make([]namedField, 0, len(report.Invoice))
	for _, name := range schema.InvoiceFieldOrder {
		if f, ok := report.Invoice[name]; ok {
			fields = append(fields, namedField{name, f})
		}
	}
	return fields
}

// orderedLineItemFields orders a line item by whichever shape it carries.
func orderedLineItemFields(item models.LineItemValidation) []namedField {
	order := schema.ServiceLineItemFields
	if _, ok := item[schema.FieldQuantity]; ok {
		order = schema.MaterialLineItemFields
	}

	fields := make([]namedField, 0, len(item))
	for _, name := range order {
		if f, ok := item[name]; ok {
			fields = append(fields, namedField{name, f})
		}
	}
	return fields
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
