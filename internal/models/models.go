// Package models defines the core data types shared across the invoice
// reconciliation engine: invoice categories, extracted and validated field
// values, line items, and the validation report assembled by the reconciler.
package models

import (
	"fmt"
	"strings"
)

// InvoiceCategory is the closed set of billing categories an invoice can be
// classified into. The category determines which header fields apply and
// which line-item shape (service vs material) the invoice carries.
type InvoiceCategory string

const (
	CategoryCapexMaterial              InvoiceCategory = "CAPEX_MATERIAL"
	CategoryCapexService               InvoiceCategory = "CAPEX_SERVICE"
	CategoryRevenueMaterial            InvoiceCategory = "REVENUE_MATERIAL"
	CategoryRevenueService             InvoiceCategory = "REVENUE_SERVICE"
	CategoryRevenueServiceConnectivity InvoiceCategory = "REVENUE_SERVICE_CONNECTIVITY"

	// CategoryInvalid is the sentinel returned when classification fails,
	// e.g. a malformed WBS code. Callers branch on it instead of handling
	// an error value.
	CategoryInvalid InvoiceCategory = "INVALID"
)

// String returns the string representation of the category
func (c InvoiceCategory) String() string {
	return string(c)
}

// IsValid checks if the category is one of the five classifiable categories
func (c InvoiceCategory) IsValid() bool {
	switch c {
	case CategoryCapexMaterial, CategoryCapexService,
		CategoryRevenueMaterial, CategoryRevenueService,
		CategoryRevenueServiceConnectivity:
		return true
	default:
		return false
	}
}

// IsCapex reports whether the category is on the capital-expenditure axis
func (c InvoiceCategory) IsCapex() bool {
	return c == CategoryCapexMaterial || c == CategoryCapexService
}

// IsConnectivity reports whether the category is the connectivity variant
func (c InvoiceCategory) IsConnectivity() bool {
	return c == CategoryRevenueServiceConnectivity
}

// ParseInvoiceCategory parses a category from its string form, tolerant of
// case and surrounding whitespace.
func ParseInvoiceCategory(s string) (InvoiceCategory, error) {
	c := InvoiceCategory(strings.ToUpper(strings.TrimSpace(s)))
	if c.IsValid() || c == CategoryInvalid {
		return c, nil
	}
	return "", fmt.Errorf("unknown invoice category '%s'", s)
}

// FieldStatus describes how an extraction field came out of the upstream
// extraction collaborator.
type FieldStatus string

const (
	FieldStatusExtracted FieldStatus = "Extracted"
	FieldStatusMissing   FieldStatus = "Missing"
	FieldStatusPartial   FieldStatus = "Partial"
)

// String returns the string representation of the field status
func (s FieldStatus) String() string {
	return string(s)
}

// IsValid checks if the field status is valid
func (s FieldStatus) IsValid() bool {
	return s == FieldStatusExtracted || s == FieldStatusMissing || s == FieldStatusPartial
}

// ComparisonStatus classifies the agreement between an extracted and a
// reference value, derived from the match confidence through the fixed
// threshold table in the scoring configuration.
type ComparisonStatus string

const (
	StatusMatched          ComparisonStatus = "Matched"
	StatusPartiallyMatched ComparisonStatus = "PartiallyMatched"
	StatusMismatched       ComparisonStatus = "Mismatched"
)

// String returns the string representation of the comparison status
func (s ComparisonStatus) String() string {
	return string(s)
}

// IsValid checks if the comparison status is valid
func (s ComparisonStatus) IsValid() bool {
	return s == StatusMatched || s == StatusPartiallyMatched || s == StatusMismatched
}

// ExtractedField is one field as produced by the external extraction
// collaborator. Consumed read-only by the reconciler.
type ExtractedField struct {
	Value           string      `json:"Value"`
	ConfidenceScore float64     `json:"ConfidenceScore"`
	FieldStatus     FieldStatus `json:"FieldStatus,omitempty"`
}

// IsEmpty reports whether the extracted value is blank after trimming
func (f ExtractedField) IsEmpty() bool {
	return strings.TrimSpace(f.Value) == ""
}

// ValidationField is the per-field outcome of reconciliation: the extracted
// value, its extraction confidence, the trusted reference value, the match
// confidence assigned by the scorer, and the derived comparison status.
// Immutable after creation.
type ValidationField struct {
	ExtractedValue    string           `json:"ExtractedValue"`
	ExtractConfidence float64          `json:"ExtractConfidence"`
	ReferenceValue    string           `json:"ReferenceValue"`
	MatchConfidence   float64          `json:"MatchConfidence"`
	ComparisonStatus  ComparisonStatus `json:"ComparisonStatus"`
}

// String returns a compact representation useful in logs
func (v ValidationField) String() string {
	return fmt.Sprintf("ValidationField{Extracted: %q, Reference: %q, Confidence: %.2f, Status: %s}",
		v.ExtractedValue, v.ReferenceValue, v.MatchConfidence, v.ComparisonStatus)
}

// LineItemValidation holds the validated fields of a single line item,
// keyed by field name. Order across line items is positional, matching
// the input order.
type LineItemValidation map[string]ValidationField

// PurchaseOrderValidation groups the purchase-order side of the report.
type PurchaseOrderValidation struct {
	PurchaseOrderNumber            ValidationField      `json:"PurchaseOrderNumber"`
	PurchaseOrderDeliveryLineItems []LineItemValidation `json:"PurchaseOrderDeliveryLineItems"`
}

// ValidationReport is the full output of a reconciliation run. It is
// JSON-serializable with every leaf a ValidationField.
type ValidationReport struct {
	Invoice       map[string]ValidationField `json:"Invoice"`
	PurchaseOrder PurchaseOrderValidation    `json:"PurchaseOrder"`
}

// Summary aggregates the comparison statuses across the whole report.
type Summary struct {
	TotalFields      int     `json:"total_fields"`
	Matched          int     `json:"matched"`
	PartiallyMatched int     `json:"partially_matched"`
	Mismatched       int     `json:"mismatched"`
	LineItems        int     `json:"line_items"`
	MeanConfidence   float64 `json:"mean_confidence"`
}

// Summarize walks the report and tallies statuses and mean confidence.
func (r *ValidationReport) Summarize() Summary {
	var s Summary
	var total float64

	count := func(v ValidationField) {
		s.TotalFields++
		total += v.MatchConfidence
		switch v.ComparisonStatus {
		case StatusMatched:
			s.Matched++
		case StatusPartiallyMatched:
			s.PartiallyMatched++
		case StatusMismatched:
			s.Mismatched++
		}
	}

	for _, v := range r.Invoice {
		count(v)
	}
	count(r.PurchaseOrder.PurchaseOrderNumber)
	for _, item := range r.PurchaseOrder.PurchaseOrderDeliveryLineItems {
		s.LineItems++
		for _, v := range item {
			count(v)
		}
	}

	if s.TotalFields > 0 {
		s.MeanConfidence = total / float64(s.TotalFields)
	}
	return s
}

// HeaderCodes carries the upstream request header codes consumed by the
// category classifier. All values are plain strings and may be empty.
type HeaderCodes struct {
	WBSCode             string `json:"wbs_code"`
	CostCenter          string `json:"cost_center"`
	ServiceConfirmation string `json:"service_confirmation"`
	AdvanceShipment     string `json:"advance_shipment"`
	CktID               string `json:"ckt_id"`
	Bandwidth           string `json:"bandwidth"`
}

// nullMarkers are the values treated as absent in addition to blank strings.
var nullMarkers = map[string]bool{
	"0":    true,
	"#N/A": true,
	"NA":   true,
}

// IsNullValue reports whether a header value counts as absent: empty or
// whitespace-only, or one of the conventional null markers, case-insensitive.
func IsNullValue(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return true
	}
	return nullMarkers[strings.ToUpper(trimmed)]
}
