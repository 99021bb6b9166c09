// Package classifier assigns an invoice to one of the five billing
// categories from the upstream header codes.
//
// Classification is a pure business-rule decision over two axes:
//   - CapEx vs Revenue, decided by the 3rd character of the WBS code
//   - Material vs Service vs Connectivity, decided by shipment and
//     service-confirmation markers
//
// A malformed WBS code is an expected business outcome, not an exception:
// it yields the INVALID sentinel category with the error text carried in
// the reasoning, so callers branch on data instead of control flow.
package classifier

import (
	"fmt"
	"strings"
	"unicode"

	"invoice-reconciliation-service/internal/models"
)

// Classification is the outcome of classifying one invoice: the category,
// the human-readable reasoning clauses, and the error text when the input
// violated the classification rules.
type Classification struct {
	Category  models.InvoiceCategory `json:"category"`
	Reasoning string                 `json:"reasoning"`
	Err       string                 `json:"error,omitempty"`
}

// Succeeded reports whether classification produced a usable category.
func (c Classification) Succeeded() bool {
	return c.Category.IsValid()
}

// Classify maps header codes to an invoice category plus reasoning.
// Classification failure (a malformed WBS code) returns the INVALID
// sentinel rather than an error value.
func Classify(codes models.HeaderCodes) Classification {
	var clauses []string

	capex, axisClause, err := capexAxis(codes)
	if err != nil {
		return Classification{
			Category:  models.CategoryInvalid,
			Reasoning: err.Error(),
			Err:       err.Error(),
		}
	}
	clauses = append(clauses, axisClause)

	category, shapeClauses := shapeAxis(codes, capex)
	clauses = append(clauses, shapeClauses...)

	return Classification{
		Category:  category,
		Reasoning: strings.Join(clauses, "; "),
	}
}

// capexAxis decides CapEx vs Revenue from the WBS code's 3rd character.
// A blank WBS code defaults to Revenue regardless of cost-center presence;
// the cost center is still recorded in the reasoning. That asymmetry
// mirrors the upstream rule as observed.
func capexAxis(codes models.HeaderCodes) (capex bool, clause string, err error) {
	if models.IsNullValue(codes.WBSCode) {
		if !models.IsNullValue(codes.CostCenter) {
			return false, fmt.Sprintf("WBS code absent, cost center '%s' present, defaulting to Revenue",
				strings.TrimSpace(codes.CostCenter)), nil
		}
		return false, "WBS code absent, defaulting to Revenue", nil
	}

	wbs := strings.TrimSpace(codes.WBSCode)
	runes := []rune(wbs)
	if len(runes) < 3 {
		return false, "", fmt.Errorf("invalid WBS code '%s': shorter than 3 characters", wbs)
	}

	switch unicode.ToUpper(runes[2]) {
	case 'C':
		return true, fmt.Sprintf("WBS code '%s' 3rd character 'C' indicates CapEx", wbs), nil
	case 'R':
		return false, fmt.Sprintf("WBS code '%s' 3rd character 'R' indicates Revenue", wbs), nil
	default:
		return false, "", fmt.Errorf("invalid WBS code '%s': 3rd character '%c' is neither C nor R",
			wbs, runes[2])
	}
}

// shapeAxis decides Material vs Service vs Connectivity, in priority order:
// advance shipment wins, then service confirmation (with the connectivity
// upgrade on the Revenue axis), then the Material default.
func shapeAxis(codes models.HeaderCodes, capex bool) (models.InvoiceCategory, []string) {
	if !models.IsNullValue(codes.AdvanceShipment) {
		clause := fmt.Sprintf("advance shipment '%s' present, Material invoice",
			strings.TrimSpace(codes.AdvanceShipment))
		if capex {
			return models.CategoryCapexMaterial, []string{clause}
		}
		return models.CategoryRevenueMaterial, []string{clause}
	}

	if !models.IsNullValue(codes.ServiceConfirmation) {
		clauses := []string{fmt.Sprintf("service confirmation '%s' present, Service invoice",
			strings.TrimSpace(codes.ServiceConfirmation))}

		if capex {
			return models.CategoryCapexService, clauses
		}

		// Connectivity requires both circuit markers on top of a Revenue
		// service invoice. CapEx has no connectivity variant.
		if !models.IsNullValue(codes.CktID) && !models.IsNullValue(codes.Bandwidth) {
			clauses = append(clauses, fmt.Sprintf("circuit ID '%s' and bandwidth '%s' present, Connectivity invoice",
				strings.TrimSpace(codes.CktID), strings.TrimSpace(codes.Bandwidth)))
			return models.CategoryRevenueServiceConnectivity, clauses
		}

		return models.CategoryRevenueService, clauses
	}

	clauses := []string{"neither advance shipment nor service confirmation present, defaulting to Material"}
	if capex {
		return models.CategoryCapexMaterial, clauses
	}
	return models.CategoryRevenueMaterial, clauses
}
