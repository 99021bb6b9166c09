package classifier

import (
	"strings"
	"testing"

	"invoice-reconciliation-service/internal/models"
)

func TestClassify_Categories(t *testing.T) {
	tests := []struct {
		name     string
		codes    models.HeaderCodes
		expected models.InvoiceCategory
	}{
		{
			"capex service",
			models.HeaderCodes{WBSCode: "HOCP.MTRV.MT.4A.IT.001", ServiceConfirmation: "SC-1"},
			models.CategoryCapexService,
		},
		{
			"capex material via advance shipment",
			models.HeaderCodes{WBSCode: "ABC123", AdvanceShipment: "ASN-77"},
			models.CategoryCapexMaterial,
		},
		{
			"capex material by default",
			models.HeaderCodes{WBSCode: "XXC999"},
			models.CategoryCapexMaterial,
		},
		{
			"revenue service",
			models.HeaderCodes{WBSCode: "XXR001", ServiceConfirmation: "SC-9"},
			models.CategoryRevenueService,
		},
		{
			"revenue material by default",
			models.HeaderCodes{WBSCode: "XXR001"},
			models.CategoryRevenueMaterial,
		},
		{
			"revenue connectivity",
			models.HeaderCodes{
				WBSCode:             "XXR001",
				ServiceConfirmation: "SC-9",
				CktID:               "CKT-42",
				Bandwidth:           "100 Mbps",
			},
			models.CategoryRevenueServiceConnectivity,
		},
		{
			"connectivity needs both circuit markers",
			models.HeaderCodes{WBSCode: "XXR001", ServiceConfirmation: "SC-9", CktID: "CKT-42"},
			models.CategoryRevenueService,
		},
		{
			"capex never connectivity",
			models.HeaderCodes{
				WBSCode:             "XXC001",
				ServiceConfirmation: "SC-9",
				CktID:               "CKT-42",
				Bandwidth:           "100 Mbps",
			},
			models.CategoryCapexService,
		},
		{
			"advance shipment outranks service confirmation",
			models.HeaderCodes{WBSCode: "XXR001", AdvanceShipment: "ASN-1", ServiceConfirmation: "SC-1"},
			models.CategoryRevenueMaterial,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.codes)
			if result.Category != tt.expected {
				t.Errorf("Classify() = %s, want %s (reasoning: %s)",
					result.Category, tt.expected, result.Reasoning)
			}
			if !result.Succeeded() {
				t.Errorf("expected successful classification, got error: %s", result.Err)
			}
		})
	}
}

func TestClassify_BlankWBSDefaultsToRevenue(t *testing.T) {
	// Cost-center presence is recorded in the reasoning but never changes
	// the axis.
	tests := []struct {
		name  string
		codes models.HeaderCodes
	}{
		{"no wbs no cost center", models.HeaderCodes{ServiceConfirmation: "SC-1"}},
		{"no wbs with cost center", models.HeaderCodes{CostCenter: "CC-410", ServiceConfirmation: "SC-1"}},
		{"wbs null marker", models.HeaderCodes{WBSCode: "#N/A", CostCenter: "CC-410", ServiceConfirmation: "SC-1"}},
		{"wbs zero marker", models.HeaderCodes{WBSCode: "0", ServiceConfirmation: "SC-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.codes)
			if result.Category != models.CategoryRevenueService {
				t.Errorf("Classify() = %s, want %s", result.Category, models.CategoryRevenueService)
			}
			if !strings.Contains(result.Reasoning, "Revenue") {
				t.Errorf("reasoning should mention the Revenue default: %s", result.Reasoning)
			}
		})
	}

	withCC := Classify(models.HeaderCodes{CostCenter: "CC-410"})
	if !strings.Contains(withCC.Reasoning, "CC-410") {
		t.Errorf("reasoning should record the cost center: %s", withCC.Reasoning)
	}
}

func TestClassify_InvalidWBS(t *testing.T) {
	tests := []struct {
		name string
		wbs  string
	}{
		{"third char neither C nor R", "XYZ"},
		{"too short", "AB"},
		{"single char", "X"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(models.HeaderCodes{WBSCode: tt.wbs})
			if result.Category != models.CategoryInvalid {
				t.Errorf("Classify(wbs=%q) = %s, want INVALID", tt.wbs, result.Category)
			}
			if result.Succeeded() {
				t.Error("invalid WBS should not succeed")
			}
			if result.Err == "" {
				t.Error("invalid WBS should carry error text")
			}
		})
	}
}

func TestClassify_CaseInsensitiveWBS(t *testing.T) {
	lower := Classify(models.HeaderCodes{WBSCode: "xxc001"})
	if lower.Category != models.CategoryCapexMaterial {
		t.Errorf("lowercase 'c' WBS = %s, want %s", lower.Category, models.CategoryCapexMaterial)
	}

	mixed := Classify(models.HeaderCodes{WBSCode: "xxr001"})
	if mixed.Category != models.CategoryRevenueMaterial {
		t.Errorf("lowercase 'r' WBS = %s, want %s", mixed.Category, models.CategoryRevenueMaterial)
	}
}

func TestClassify_NullMarkers(t *testing.T) {
	// Null markers in the shape inputs behave like absence.
	result := Classify(models.HeaderCodes{
		WBSCode:             "XXR001",
		ServiceConfirmation: "NA",
		AdvanceShipment:     "#N/A",
	})
	if result.Category != models.CategoryRevenueMaterial {
		t.Errorf("null markers should default to Material, got %s", result.Category)
	}
}

func TestFormat_Structure(t *testing.T) {
	result := Classify(models.HeaderCodes{WBSCode: "XXC001", ServiceConfirmation: "SC-1"})
	text := result.Format()

	lines := strings.Split(text, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), text)
	}
	if !strings.HasPrefix(lines[0], "CATEGORY: ") {
		t.Errorf("first line should carry the category: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "REASONING: ") {
		t.Errorf("second line should carry the reasoning: %q", lines[1])
	}
	if lines[2] != "STATUS: SUCCESS" {
		t.Errorf("third line should be the success status: %q", lines[2])
	}

	invalid := Classify(models.HeaderCodes{WBSCode: "XYZ"})
	if !strings.HasSuffix(invalid.Format(), "STATUS: ERROR") {
		t.Errorf("invalid classification should format with STATUS: ERROR: %q", invalid.Format())
	}
}

func TestParseClassification_RoundTrip(t *testing.T) {
	categories := []models.InvoiceCategory{
		models.CategoryCapexMaterial,
		models.CategoryCapexService,
		models.CategoryRevenueMaterial,
		models.CategoryRevenueService,
		models.CategoryRevenueServiceConnectivity,
	}

	reasonings := []string{
		"r",
		"WBS code 'XXC001' 3rd character 'C' indicates CapEx; service confirmation present",
		"",
	}

	for _, category := range categories {
		for _, reasoning := range reasonings {
			original := Classification{Category: category, Reasoning: reasoning}
			parsed, err := ParseClassification(original.Format())
			if err != nil {
				t.Fatalf("round trip failed for %s: %v", category, err)
			}
			if parsed.Category != category {
				t.Errorf("round trip category = %s, want %s", parsed.Category, category)
			}
			if parsed.Reasoning != reasoning {
				t.Errorf("round trip reasoning = %q, want %q", parsed.Reasoning, reasoning)
			}
		}
	}
}

func TestParseClassification_BareAndTolerant(t *testing.T) {
	tests := []struct {
		input    string
		expected models.InvoiceCategory
	}{
		{"CAPEX_MATERIAL", models.CategoryCapexMaterial},
		{"  revenue_service  ", models.CategoryRevenueService},
		{"category: CAPEX_SERVICE\nreasoning: whatever\nstatus: success", models.CategoryCapexService},
		{"  CATEGORY:   revenue_material  \nSTATUS: SUCCESS", models.CategoryRevenueMaterial},
	}

	for _, tt := range tests {
		parsed, err := ParseClassification(tt.input)
		if err != nil {
			t.Errorf("ParseClassification(%q) failed: %v", tt.input, err)
			continue
		}
		if parsed.Category != tt.expected {
			t.Errorf("ParseClassification(%q) = %s, want %s", tt.input, parsed.Category, tt.expected)
		}
	}
}

func TestParseClassification_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "NOT_A_CATEGORY", "CATEGORY: bogus"} {
		if _, err := ParseClassification(input); err == nil {
			t.Errorf("ParseClassification(%q) should fail", input)
		}
	}
}
