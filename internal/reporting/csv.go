package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the trade log as a CSV string.
func RenderCSV(trades []TradeRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("date,action,requested_quantity,executed_quantity,execution_price,commission,slippage\n")

	// Rows
	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%d,%.6f,%.6f,%.6f\n",
			t.Date.Format("2006-01-02"),
			t.Action,
			t.RequestedQuantity,
			t.ExecutedQuantity,
			t.ExecutionPrice,
			t.Commission,
			t.Slippage,
		))
	}

	return sb.String()
}
