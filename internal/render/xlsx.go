package render

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"hudgen/internal/common/metrics"
	"hudgen/internal/hud"
	"hudgen/internal/money"
)

const sheetName = "Settlement Statement"

// valueCells maps spreadsheet cells to context fields. The layout mirrors
// the HTML statement: amounts grid on top, borrower block, then the
// charge table. Templates must keep these addresses stable.
func valueCells(ctx *hud.Context) map[string]string {
	cells := map[string]string{
		"B4":  money.Format(ctx.TotalLoanAmount),
		"E4":  ctx.DealNumber,
		"B5":  money.Format(ctx.InitialAdvance),
		"E5":  ctx.HoldbackCurrent,
		"B6":  money.Format(ctx.TotalRenoDrawn),
		"E6":  ctx.HoldbackClosing,
		"B7":  money.Format(ctx.AdvanceAmount),
		"E7":  money.Format(ctx.AllocatedLoanAmount),
		"B8":  money.Format(ctx.InterestReserve),
		"E8":  money.Format(ctx.NetAmountToBorrower),
		"B9":  money.Format(ctx.AvailableBalance),
		"E9":  ctx.WorkdaySUPCode,
		"E10": ctx.AdvanceDate,
		"B12": ctx.Borrower,
		"B13": ctx.Address,
		"B16": money.Format(ctx.ConstructionAdvanceAmount),
		"B17": money.Format(ctx.InspectionFee),
		"B18": money.Format(ctx.WireFee),
		"B19": money.Format(ctx.ConstructionMgmtFee),
		"B20": money.Format(ctx.TitleFee),
	}
	row := 21
	if ctx.IncludeLateCharges {
		cells["A21"] = "Accrued Late Charges"
		cells["B21"] = money.Format(ctx.LateChargesLineItem)
		row = 22
	}
	cells[fmt.Sprintf("A%d", row)] = "Total Fees"
	cells[fmt.Sprintf("B%d", row)] = money.Format(ctx.TotalFees.Add(ctx.LateChargesLineItem))
	cells[fmt.Sprintf("A%d", row+1)] = "Reimbursement to Borrower"
	cells[fmt.Sprintf("B%d", row+1)] = money.Format(ctx.NetAmountToBorrower)
	return cells
}

var labelCells = map[string]string{
	"A4":  "Total Loan Amount:",
	"D4":  "Loan ID:",
	"A5":  "Initial Advance:",
	"D5":  "Holdback % Current:",
	"A6":  "Total Reno Drawn:",
	"D6":  "Holdback % at Closing:",
	"A7":  "Advance Amount:",
	"D7":  "Allocated Loan Amount:",
	"A8":  "Interest Reserve:",
	"D8":  "Net Amount to Borrower:",
	"A9":  "Available Balance:",
	"D9":  "Workday SUP Code:",
	"D10": "Advance Date:",
	"A12": "Borrower:",
	"A13": "Address:",
	"A15": "Charge Description",
	"B15": "Amount",
	"A16": "Construction Advance Amount",
	"A17": "3rd party Inspection Fee",
	"A18": "Wire Fee",
	"A19": "Construction Management Fee",
	"A20": "Title Fee",
}

// placeholderRows is the value region cleared before a template is
// refilled, so stale marker text never survives into the output.
var placeholderCells = []string{
	"B4", "B5", "B6", "B7", "B8", "B9",
	"E4", "E5", "E6", "E7", "E8", "E9", "E10",
	"B12", "B13",
	"A21", "B21", "A22", "B22", "A23", "B23",
	"B16", "B17", "B18", "B19", "B20",
}

// Workbook renders the statement as an .xlsx file. When a template path
// is configured and readable it is filled in place; otherwise the sheet
// is built from scratch with the same cell layout.
func (r *Renderer) Workbook(ctx *hud.Context) ([]byte, error) {
	f, fromTemplate, err := r.openWorkbook()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if fromTemplate {
		for _, addr := range placeholderCells {
			if err := f.SetCellValue(sheetName, addr, ""); err != nil {
				return nil, fmt.Errorf("clear cell %s: %w", addr, err)
			}
		}
	} else {
		if err := r.scaffold(f); err != nil {
			return nil, err
		}
	}

	for addr, val := range valueCells(ctx) {
		if err := f.SetCellValue(sheetName, addr, val); err != nil {
			return nil, fmt.Errorf("write cell %s: %w", addr, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	metrics.DocumentsRendered.WithLabelValues("xlsx").Inc()
	return buf.Bytes(), nil
}

func (r *Renderer) openWorkbook() (*excelize.File, bool, error) {
	if r.templatePath != "" {
		if _, err := os.Stat(r.templatePath); err == nil {
			f, err := excelize.OpenFile(r.templatePath)
			if err != nil {
				return nil, false, fmt.Errorf("open workbook template: %w", err)
			}
			if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
				f.Close()
				return nil, false, fmt.Errorf("workbook template missing sheet %q", sheetName)
			}
			return f, true, nil
		}
	}
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, false, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, false, fmt.Errorf("drop default sheet: %w", err)
	}
	return f, false, nil
}

func (r *Renderer) scaffold(f *excelize.File) error {
	headers := map[string]string{
		"A1": r.companyName,
		"A2": r.companyAddress,
		"A3": "Final Settlement Statement",
	}
	for addr, val := range headers {
		if err := f.SetCellValue(sheetName, addr, val); err != nil {
			return fmt.Errorf("write cell %s: %w", addr, err)
		}
	}
	for addr, val := range labelCells {
		if err := f.SetCellValue(sheetName, addr, val); err != nil {
			return fmt.Errorf("write cell %s: %w", addr, err)
		}
	}
	for col, width := range map[string]float64{"A": 30, "B": 18, "C": 4, "D": 24, "E": 18} {
		if err := f.SetColWidth(sheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}
