package cmd

import (
	"fmt"
	"strings"

	"invoice-reconciliation-service/internal/classifier"
	"invoice-reconciliation-service/internal/models"
	"invoice-reconciliation-service/internal/schema"
	"invoice-reconciliation-service/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	headerCodes models.HeaderCodes
	showFields  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify an invoice from its header codes",
	Long: `Classify assigns one of the five billing categories from the upstream
header codes and prints the CATEGORY/REASONING/STATUS block consumed by the
downstream extraction-prompt selector.

A malformed WBS code yields the INVALID category with STATUS: ERROR; the
command still exits zero because classification failure is an expected
business outcome, not a tool failure.

With --show-fields, the applicable header fields and line-item shape for
the resolved category are appended, so the extraction side knows which
fields to request.

Examples:
  invrec classify --wbs-code HOCP.MTRV.MT.4A.IT.001 --service-confirmation SC-1
  invrec classify --cost-center CC-410 --advance-shipment ASN-77
  invrec classify --wbs-code XXR001 --service-confirmation SC-1 --show-fields`,
	RunE: runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)

	classifyCmd.Flags().StringVar(&headerCodes.WBSCode, "wbs-code", "", "WBS code (3rd character encodes CapEx/Revenue)")
	classifyCmd.Flags().StringVar(&headerCodes.CostCenter, "cost-center", "", "cost center code")
	classifyCmd.Flags().StringVar(&headerCodes.ServiceConfirmation, "service-confirmation", "", "service confirmation number")
	classifyCmd.Flags().StringVar(&headerCodes.AdvanceShipment, "advance-shipment", "", "advance shipment number")
	classifyCmd.Flags().StringVar(&headerCodes.CktID, "ckt-id", "", "circuit identifier")
	classifyCmd.Flags().StringVar(&headerCodes.Bandwidth, "bandwidth", "", "circuit bandwidth")
	classifyCmd.Flags().BoolVar(&showFields, "show-fields", false, "append the category's applicable fields and line-item shape")
}

func runClassify(cmd *cobra.Command, args []string) error {
	result := classifier.Classify(headerCodes)

	logger.WithComponent("cli").WithFields(logger.Fields{
		"category":     result.Category.String(),
		"capex":        result.Category.IsCapex(),
		"connectivity": result.Category.IsConnectivity(),
	}).Info("invoice classified")

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Format())

	if showFields {
		if s, ok := schema.ForCategory(result.Category); ok {
			fmt.Fprintf(out, "FIELDS: %s\n", strings.Join(s.InvoiceFields, ", "))
			fmt.Fprintf(out, "LINE_ITEM_SHAPE: %s (%s)\n",
				s.LineItemShape, strings.Join(schema.LineItemFields(s.LineItemShape), ", "))
		}
	}
	return nil
}
