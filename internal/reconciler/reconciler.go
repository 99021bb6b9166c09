// Package reconciler orchestrates field reconciliation: it consumes an
// extraction result and a trusted reference record, selects the fields to
// compare, scores each pair through the confidence scorer, and assembles
// the structured validation report.
//
// The engine is pure and stateless aside from its injected scoring
// configuration; it holds no resources and is safe to invoke concurrently
// across independent invoices.
//
// Example usage:
//
//	engine := reconciler.NewEngine(scoring.DefaultConfig())
//	report, err := engine.Reconcile(extraction, reference)
package reconciler

import (
	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/schema"
	"invoice-reconciliation-service/internal/scoring"
	"invoice-reconciliation-service/pkg/errors"
	"invoice-reconciliation-service/pkg/logger"
)

// Engine reconciles extraction results against reference data.
type Engine struct {
	scorer *scoring.Scorer
	log    logger.Logger
}

// NewEngine creates a reconciliation engine with the given scoring
// configuration. A nil config selects the default threshold profile.
func NewEngine(config *scoring.Config) *Engine {
	return &Engine{
		scorer: scoring.NewScorer(config),
		log:    logger.GetGlobalLogger().WithComponent("reconciler"),
	}
}

// ReconcileJSON decodes both payloads from JSON bytes and reconciles them.
// Payloads that arrive as JSON-encoded strings are deserialized once; a
// parse failure at that point is an input-shape error.
func (e *Engine) ReconcileJSON(extractionJSON, referenceJSON []byte) (*models.ValidationReport, error) {
	extraction, err := models.DecodeExtractionResult(extractionJSON)
	if err != nil {
		return nil, errors.InputError(errors.CodeInvalidPayload, "extraction result", err)
	}

	reference, err := models.DecodeReferenceData(referenceJSON)
	if err != nil {
		return nil, errors.InputError(errors.CodeInvalidPayload, "reference data", err)
	}

	return e.Reconcile(extraction, reference)
}

// Reconcile compares every canonical field of the extraction result against
// the reference record and returns the validation report.
//
// A missing Invoice section in the extraction result violates the upstream
// contract and aborts the call. A missing PurchaseOrder section on either
// side is tolerated and treated as empty. Per-field scoring failures are
// isolated to the field and never abort the rest of the report.
func (e *Engine) Reconcile(extraction *models.ExtractionResult, reference *models.ReferenceData) (*models.ValidationReport, error) {
	if extraction == nil || extraction.Invoice == nil {
		return nil, errors.InputError(errors.CodeMissingSection, "Invoice", nil)
	}

	refMap := flattenReference(reference)

	report := &models.ValidationReport{
		Invoice: make(map[string]models.ValidationField, len(schema.InvoiceFieldOrder)),
	}

	for _, field := range schema.InvoiceFieldOrder {
		extracted := extraction.Invoice[field]
		refValue := refMap[referenceKeyFor(field)]
		report.Invoice[field] = e.validateField(extracted, refValue, field)
	}

	var po *models.ExtractionPurchaseOrder
	if extraction.PurchaseOrder != nil {
		po = extraction.PurchaseOrder
	} else {
		po = &models.ExtractionPurchaseOrder{}
	}

	report.PurchaseOrder.PurchaseOrderNumber = e.validateField(
		po.PurchaseOrderNumber,
		refMap[schema.FieldPurchaseOrderNumber],
		schema.FieldPurchaseOrderNumber,
	)

	report.PurchaseOrder.PurchaseOrderDeliveryLineItems = e.reconcileLineItems(
		models.FilterEmptyLineItems(po.InvoiceDeliveryLineItems),
		referenceLineItems(reference),
		extraction.Invoice,
	)

	summary := report.Summarize()
	e.log.WithFields(logger.Fields{
		"fields":     summary.TotalFields,
		"matched":    summary.Matched,
		"partial":    summary.PartiallyMatched,
		"mismatched": summary.Mismatched,
		"line_items": summary.LineItems,
	}).Info("reconciliation completed")

	return report, nil
}

// validateField scores one extracted/reference pair and builds the
// validation leaf.
func (e *Engine) validateField(extracted models.ExtractedField, refValue string, fieldName string) models.ValidationField {
	score := e.scorer.Score(extracted.Value, refValue, fieldName)
	return models.ValidationField{
		ExtractedValue:    extracted.Value,
		ExtractConfidence: extracted.ConfidenceScore,
		ReferenceValue:    refValue,
		MatchConfidence:   score,
		ComparisonStatus:  e.scorer.Config().StatusFor(score),
	}
}

// reconcileLineItems walks both line-item lists positionally up to the
// longer length. Indices beyond one side's length read as all-empty on
// that side, driving genuinely extra or missing rows toward Mismatched.
func (e *Engine) reconcileLineItems(
	extractedItems []map[string]models.ExtractedField,
	referenceItems []map[string]string,
	invoiceFields map[string]models.ExtractedField,
) []models.LineItemValidation {

	count := len(extractedItems)
	if len(referenceItems) > count {
		count = len(referenceItems)
	}
	if count == 0 {
		return []models.LineItemValidation{}
	}

	shape := detectLineItemShape(extractedItems, invoiceFields)
	fields := schema.LineItemFields(shape)

	e.log.WithFields(logger.Fields{
		"extracted_items": len(extractedItems),
		"reference_items": len(referenceItems),
		"shape":           string(shape),
	}).Debug("reconciling line items")

	items := make([]models.LineItemValidation, 0, count)
	for i := 0; i < count; i++ {
		var extracted map[string]models.ExtractedField
		if i < len(extractedItems) {
			extracted = extractedItems[i]
		}

		var reference map[string]string
		if i < len(referenceItems) {
			reference = referenceItems[i]
		}

		item := make(models.LineItemValidation, len(fields))
		for _, field := range fields {
			item[field] = e.validateField(extracted[field], reference[field], field)
		}
		items = append(items, item)
	}
	return items
}

// detectLineItemShape picks the line-item field set: material when the
// first extracted item carries quantity or unit price, overridden to the
// service shape when connectivity marker keys appear at invoice level.
// Key presence alone is the marker; the extractor only emits the circuit
// keys for connectivity invoices, even when it failed to read a value.
func detectLineItemShape(
	extractedItems []map[string]models.ExtractedField,
	invoiceFields map[string]models.ExtractedField,
) schema.LineItemShape {

	if hasKey(invoiceFields, schema.FieldCktID) || hasKey(invoiceFields, schema.FieldBandwidth) {
		return schema.ShapeService
	}

	if len(extractedItems) > 0 {
		first := extractedItems[0]
		if _, ok := first[schema.FieldQuantity]; ok {
			return schema.ShapeMaterial
		}
		if _, ok := first[schema.FieldUnitPrice]; ok {
			return schema.ShapeMaterial
		}
	}
	return schema.ShapeService
}

func hasKey(fields map[string]models.ExtractedField, name string) bool {
	_, ok := fields[name]
	return ok
}

// referenceKeyFor resolves the reference lookup key for a canonical invoice
// field. The service period on the invoice is validated against the
// purchase order's period, not a same-named reference field.
func referenceKeyFor(field string) string {
	if field == schema.FieldInvoiceServicePeriod {
		return schema.FieldPurchaseOrderPeriod
	}
	return field
}

// flattenReference folds the reference record's Invoice and PurchaseOrder
// sections into one canonical name-to-value map, applying field aliasing.
func flattenReference(reference *models.ReferenceData) map[string]string {
	flat := make(map[string]string)
	if reference == nil {
		return flat
	}

	for name, value := range reference.Invoice {
		flat[schema.Canonicalize(name)] = value.String()
	}
	if reference.PurchaseOrder != nil {
		for name, value := range reference.PurchaseOrder.Fields {
			flat[schema.Canonicalize(name)] = value.String()
		}
	}
	return flat
}

// referenceLineItems canonicalizes the field names of each reference line
// item, preserving item order.
func referenceLineItems(reference *models.ReferenceData) []map[string]string {
	if reference == nil || reference.PurchaseOrder == nil {
		return nil
	}

	items := make([]map[string]string, 0, len(reference.PurchaseOrder.LineItems))
	for _, item := range reference.PurchaseOrder.LineItems {
		canonical := make(map[string]string, len(item))
		for name, value := range item {
			canonical[schema.Canonicalize(name)] = value.String()
		}
		items = append(items, canonical)
	}
	return items
}
