package classifier

import (
	"fmt"
	"strings"

	"invoice-reconciliation-service/internal/models"
)

// The textual classification format is a wire contract consumed by the
// downstream extraction-prompt selector:
//
//	CATEGORY: <value>
//	REASONING: <joined clauses>
//	STATUS: SUCCESS|ERROR
//
// The parser accepts this block, a bare category string, and is tolerant
// of case and surrounding whitespace.

const (
	categoryPrefix  = "CATEGORY:"
	reasoningPrefix = "REASONING:"
	statusPrefix    = "STATUS:"

	statusSuccess = "SUCCESS"
	statusError   = "ERROR"
)

// Format renders the classification in the wire format.
func (c Classification) Format() string {
	status := statusSuccess
	if !c.Succeeded() {
		status = statusError
	}
	return fmt.Sprintf("%s %s\n%s %s\n%s %s",
		categoryPrefix, c.Category,
		reasoningPrefix, c.Reasoning,
		statusPrefix, status)
}

// ParseClassification parses the wire format back into a Classification.
// Input may be the structured three-line block or a bare category string.
func ParseClassification(s string) (Classification, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Classification{}, fmt.Errorf("classification text is empty")
	}

	var result Classification
	structured := false

	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		upper := strings.ToUpper(line)

		switch {
		case strings.HasPrefix(upper, categoryPrefix):
			value := strings.TrimSpace(line[len(categoryPrefix):])
			category, err := models.ParseInvoiceCategory(value)
			if err != nil {
				return Classification{}, fmt.Errorf("invalid classification category: %w", err)
			}
			result.Category = category
			structured = true
		case strings.HasPrefix(upper, reasoningPrefix):
			result.Reasoning = strings.TrimSpace(line[len(reasoningPrefix):])
		case strings.HasPrefix(upper, statusPrefix):
			status := strings.ToUpper(strings.TrimSpace(line[len(statusPrefix):]))
			if status == statusError {
				result.Err = result.Reasoning
			}
		}
	}

	if structured {
		if result.Category == "" {
			return Classification{}, fmt.Errorf("classification block has no category line")
		}
		return result, nil
	}

	// Bare category form.
	category, err := models.ParseInvoiceCategory(s)
	if err != nil {
		return Classification{}, fmt.Errorf("unrecognized classification text: %w", err)
	}
	return Classification{Category: category}, nil
}
