package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractionResult is the payload produced by the external OCR/LLM
// extraction collaborator. The Invoice section is required; PurchaseOrder
// is optional and treated as empty when absent.
type ExtractionResult struct {
	Invoice       map[string]ExtractedField `json:"Invoice"`
	PurchaseOrder *ExtractionPurchaseOrder  `json:"PurchaseOrder,omitempty"`
}

// ExtractionPurchaseOrder is the purchase-order section of an extraction
// result: the PO number plus the delivery line items as extracted.
type ExtractionPurchaseOrder struct {
	PurchaseOrderNumber      ExtractedField              `json:"PurchaseOrderNumber"`
	InvoiceDeliveryLineItems []map[string]ExtractedField `json:"InvoiceDeliveryLineItems"`
}

// ReferenceData is the trusted reference record supplied by the calling
// system (e.g. an ERP/SAP export). Leaf values may arrive as strings or
// numbers in the JSON; they are normalized to strings on decode.
type ReferenceData struct {
	Invoice       map[string]RefValue     `json:"Invoice"`
	PurchaseOrder *ReferencePurchaseOrder `json:"PurchaseOrder,omitempty"`
}

// ReferencePurchaseOrder is the purchase-order section of the reference
// data. Scalar fields (PurchaseOrderNumber, PurchaseOrderPeriod, and any
// others the ERP emits) are kept as a flat map so reference flattening can
// consume them uniformly; the delivery line items are split out.
type ReferencePurchaseOrder struct {
	Fields    map[string]RefValue
	LineItems []map[string]RefValue
}

const lineItemsKey = "PurchaseOrderDeliveryLineItems"

// UnmarshalJSON splits the section into scalar fields and line items.
func (p *ReferencePurchaseOrder) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("purchase order section must be an object: %w", err)
	}

	p.Fields = make(map[string]RefValue, len(raw))
	for key, value := range raw {
		if key == lineItemsKey {
			if err := json.Unmarshal(value, &p.LineItems); err != nil {
				return fmt.Errorf("invalid purchase order line items: %w", err)
			}
			continue
		}

		var rv RefValue
		if err := json.Unmarshal(value, &rv); err != nil {
			return fmt.Errorf("invalid purchase order field '%s': %w", key, err)
		}
		p.Fields[key] = rv
	}
	return nil
}

// MarshalJSON restores the original wire shape.
func (p ReferencePurchaseOrder) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(p.Fields)+1)
	for key, value := range p.Fields {
		out[key] = string(value)
	}
	if p.LineItems != nil {
		out[lineItemsKey] = p.LineItems
	}
	return json.Marshal(out)
}

// RefValue is a reference leaf normalized to its string form. JSON strings,
// numbers, and booleans are accepted; null becomes the empty string.
type RefValue string

// UnmarshalJSON implements tolerant decoding for reference leaves
func (r *RefValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*r = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*r = RefValue(s)
		return nil
	}

	// Numbers and booleans keep their literal JSON text, which preserves
	// the exact digits for downstream numeric comparison.
	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&num); err == nil {
		*r = RefValue(num.String())
		return nil
	}

	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*r = RefValue(fmt.Sprintf("%t", b))
		return nil
	}

	return fmt.Errorf("reference value must be a string, number, or boolean, got: %s", string(data))
}

// String returns the normalized string form of the reference value
func (r RefValue) String() string {
	return string(r)
}

// UnmarshalJSON decodes an extracted field, accepting Value as either a JSON
// string or a bare number. Upstream extractors are inconsistent about which
// they emit for amounts.
func (f *ExtractedField) UnmarshalJSON(data []byte) error {
	aux := struct {
		Value           json.RawMessage `json:"Value"`
		ConfidenceScore float64         `json:"ConfidenceScore"`
		FieldStatus     FieldStatus     `json:"FieldStatus"`
	}{}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	f.ConfidenceScore = aux.ConfidenceScore
	f.FieldStatus = aux.FieldStatus

	raw := bytes.TrimSpace(aux.Value)
	if len(raw) == 0 || string(raw) == "null" {
		f.Value = ""
		return nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("invalid field value: %w", err)
		}
		f.Value = s
		return nil
	}

	var num json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return fmt.Errorf("field value must be a string or number, got: %s", string(raw))
	}
	f.Value = num.String()
	return nil
}

// unquoteOnce unwraps a payload that arrived as a JSON string containing
// JSON (double-encoded). Exactly one level of unwrapping is attempted.
func unquoteOnce(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return trimmed
	}

	var inner string
	if err := json.Unmarshal(trimmed, &inner); err != nil {
		return trimmed
	}
	return []byte(inner)
}

// DecodeExtractionResult decodes an extraction payload from JSON bytes.
// A payload that arrives as a JSON-encoded string is deserialized once
// before decoding; any parse failure yields a descriptive error.
func DecodeExtractionResult(data []byte) (*ExtractionResult, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("extraction payload is empty")
	}

	var result ExtractionResult
	if err := json.Unmarshal(unquoteOnce(data), &result); err != nil {
		return nil, fmt.Errorf("extraction payload is not valid JSON: %w", err)
	}
	return &result, nil
}

// DecodeReferenceData decodes a reference payload from JSON bytes with the
// same single-pass string unwrapping as DecodeExtractionResult.
func DecodeReferenceData(data []byte) (*ReferenceData, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("reference payload is empty")
	}

	var ref ReferenceData
	if err := json.Unmarshal(unquoteOnce(data), &ref); err != nil {
		return nil, fmt.Errorf("reference payload is not valid JSON: %w", err)
	}
	return &ref, nil
}

// LineItemIsEmpty reports whether every field value in an extracted line
// item is blank. Such items are filtered out before reconciliation.
func LineItemIsEmpty(item map[string]ExtractedField) bool {
	for _, f := range item {
		if strings.TrimSpace(f.Value) != "" {
			return false
		}
	}
	return true
}

// FilterEmptyLineItems drops line items whose every field is blank,
// preserving the order of the remaining items.
func FilterEmptyLineItems(items []map[string]ExtractedField) []map[string]ExtractedField {
	filtered := make([]map[string]ExtractedField, 0, len(items))
	for _, item := range items {
		if !LineItemIsEmpty(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
