// Package schema is the field schema registry: static, read-only tables
// describing which invoice fields and which line-item fields apply to each
// invoice category. One table keyed by category replaces per-category code
// paths; consumers look shapes up instead of branching.
package schema

import (
	"invoice-reconciliation-service/internal/models"
)

// LineItemShape selects the field set a line item carries.
type LineItemShape string

const (
	// ShapeService is the 4-field line item used by service and
	// connectivity invoices.
	ShapeService LineItemShape = "service"

	// ShapeMaterial is the 6-field line item used by material invoices,
	// adding quantity and unit price.
	ShapeMaterial LineItemShape = "material"
)

// Canonical field names shared across the engine.
const (
	FieldInvoiceNumber        = "InvoiceNumber"
	FieldInvoiceDate          = "InvoiceDate"
	FieldInvoiceServicePeriod = "InvoiceServicePeriod"
	FieldInvoiceBaseAmount    = "InvoiceBaseAmount"
	FieldInvoiceWithTaxAmount = "InvoiceWithTaxAmount"
	FieldBuyerGSTNumber       = "BuyerGSTNumber"
	FieldSellerGSTNumber      = "SellerGSTNumber"
	FieldCktID                = "CKT_ID"
	FieldBandwidth            = "BandWidth"

	FieldPurchaseOrderNumber = "PurchaseOrderNumber"
	FieldPurchaseOrderPeriod = "PurchaseOrderPeriod"

	FieldLineItemNo = "LineItemNo"
	FieldProduct    = "Product"
	FieldHSNSACCode = "HSN_SAC_Code"
	FieldAmount     = "Amount"
	FieldQuantity   = "Quantity"
	FieldUnitPrice  = "UnitPrice"
)

// InvoiceFieldOrder is the fixed ordered list of canonical invoice header
// fields the reconciler walks. Order is a presentation contract.
var InvoiceFieldOrder = []string{
	FieldInvoiceNumber,
	FieldInvoiceDate,
	FieldInvoiceServicePeriod,
	FieldInvoiceBaseAmount,
	FieldInvoiceWithTaxAmount,
	FieldBuyerGSTNumber,
	FieldSellerGSTNumber,
	FieldCktID,
	FieldBandwidth,
}

// ServiceLineItemFields is the ordered 4-field service shape.
var ServiceLineItemFields = []string{
	FieldLineItemNo,
	FieldProduct,
	FieldHSNSACCode,
	FieldAmount,
}

// MaterialLineItemFields is the ordered 6-field material shape.
var MaterialLineItemFields = []string{
	FieldLineItemNo,
	FieldProduct,
	FieldHSNSACCode,
	FieldQuantity,
	FieldUnitPrice,
	FieldAmount,
}

// FieldAliases maps alternate upstream spellings to canonical field names.
// Reference flattening applies these before lookup.
var FieldAliases = map[string]string{
	"BandWidth(B/W)": FieldBandwidth,
	"Bandwidth":      FieldBandwidth,
	"CKTID":          FieldCktID,
	"CKT ID":         FieldCktID,
	"Unit":           FieldUnitPrice,
	"Item HSN SAC":   FieldHSNSACCode,
}

// Canonicalize resolves a field name through the alias table.
func Canonicalize(fieldName string) string {
	if canonical, ok := FieldAliases[fieldName]; ok {
		return canonical
	}
	return fieldName
}

// CategorySchema describes the fields applicable to one invoice category.
type CategorySchema struct {
	Category      models.InvoiceCategory
	InvoiceFields []string
	LineItemShape LineItemShape
}

// headerFieldsCommon are the invoice fields every category carries.
var headerFieldsCommon = []string{
	FieldInvoiceNumber,
	FieldInvoiceDate,
	FieldInvoiceServicePeriod,
	FieldInvoiceBaseAmount,
	FieldInvoiceWithTaxAmount,
	FieldBuyerGSTNumber,
	FieldSellerGSTNumber,
}

// registry is the single table keyed by category. Connectivity invoices add
// the circuit fields; material invoices use the 6-field line-item shape.
var registry = map[models.InvoiceCategory]CategorySchema{
	models.CategoryCapexMaterial: {
		Category:      models.CategoryCapexMaterial,
		InvoiceFields: headerFieldsCommon,
		LineItemShape: ShapeMaterial,
	},
	models.CategoryCapexService: {
		Category:      models.CategoryCapexService,
		InvoiceFields: headerFieldsCommon,
		LineItemShape: ShapeService,
	},
	models.CategoryRevenueMaterial: {
		Category:      models.CategoryRevenueMaterial,
		InvoiceFields: headerFieldsCommon,
		LineItemShape: ShapeMaterial,
	},
	models.CategoryRevenueService: {
		Category:      models.CategoryRevenueService,
		InvoiceFields: headerFieldsCommon,
		LineItemShape: ShapeService,
	},
	models.CategoryRevenueServiceConnectivity: {
		Category:      models.CategoryRevenueServiceConnectivity,
		InvoiceFields: append(append([]string(nil), headerFieldsCommon...), FieldCktID, FieldBandwidth),
		LineItemShape: ShapeService,
	},
}

// ForCategory returns the schema of a category. The boolean is false for
// the INVALID sentinel and unknown categories.
func ForCategory(category models.InvoiceCategory) (CategorySchema, bool) {
	s, ok := registry[category]
	return s, ok
}

// LineItemFields returns the ordered field list for a shape.
func LineItemFields(shape LineItemShape) []string {
	if shape == ShapeMaterial {
		return MaterialLineItemFields
	}
	return ServiceLineItemFields
}
