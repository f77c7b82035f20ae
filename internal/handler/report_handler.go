package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"inventory-service/internal/store"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"
)

// ReportHandler serves the reporting endpoints: dashboard summary, the
// date-filtered reports and the spreadsheet / PDF exports.
type ReportHandler struct {
	store *store.Store
}

func NewReportHandler(s *store.Store) *ReportHandler {
	return &ReportHandler{store: s}
}

// Summary retrieves the dashboard counts
func (h *ReportHandler) Summary(c echo.Context) error {
	log := logger.FromContext(c)

	defer prometheus.TrackDBOperation("summary")(time.Now())
	summary, err := h.store.Summarize()
	if err != nil {
		return storeError(c, log, err)
	}
	prometheus.ResetLiveTags()
	for branchID, count := range summary.TagsByBranch {
		prometheus.SetLiveTags(branchID, float64(count))
	}
	return c.JSON(http.StatusOK, summary)
}

// Transactions retrieves the audit trail for a date range with daily
// aggregates
func (h *ReportHandler) Transactions(c echo.Context) error {
	log := logger.FromContext(c)
	start, end := dateRange(c)
	log.Info("Building transaction report",
		zap.Time("start", start),
		zap.Time("end", end))

	defer prometheus.TrackDBOperation("report_transactions")(time.Now())
	report, err := h.store.ReportTransactions(start, end)
	if err != nil {
		return storeError(c, log, err)
	}
	return c.JSON(http.StatusOK, report)
}

// Sales retrieves the sales report for a date range with revenue aggregates
func (h *ReportHandler) Sales(c echo.Context) error {
	log := logger.FromContext(c)
	start, end := dateRange(c)
	log.Info("Building sales report",
		zap.Time("start", start),
		zap.Time("end", end))

	defer prometheus.TrackDBOperation("report_sales")(time.Now())
	report, err := h.store.ReportSales(start, end)
	if err != nil {
		return storeError(c, log, err)
	}
	return c.JSON(http.StatusOK, report)
}

// Transfers retrieves the transfer log for a date range
func (h *ReportHandler) Transfers(c echo.Context) error {
	log := logger.FromContext(c)
	start, end := dateRange(c)

	defer prometheus.TrackDBOperation("report_transfers")(time.Now())
	transfers, err := h.store.ReportTransfers(start, end)
	if err != nil {
		return storeError(c, log, err)
	}
	return c.JSON(http.StatusOK, transfers)
}

// Export streams a report for a date range as an xlsx spreadsheet. The type
// parameter picks sales, transactions or transfers.
func (h *ReportHandler) Export(c echo.Context) error {
	log := logger.FromContext(c)
	start, end := dateRange(c)
	reportType := c.QueryParam("type")
	if reportType == "" {
		reportType = "sales"
	}
	log.Info("Exporting report",
		zap.String("type", reportType),
		zap.Time("start", start),
		zap.Time("end", end))

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	switch reportType {
	case "sales":
		report, err := h.store.ReportSales(start, end)
		if err != nil {
			return storeError(c, log, err)
		}
		headers := []string{"Tag ID", "Product ID", "Product Name", "Category", "Branch", "Price", "Date", "Reference"}
		for i, hdr := range headers {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheet, col+"1", hdr)
		}
		for i, sale := range report.Rows {
			row := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sale.TagID)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sale.ProductID)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), sale.ProductName)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), sale.Category)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), sale.BranchID)
			if sale.SalePrice != nil {
				f.SetCellValue(sheet, fmt.Sprintf("F%d", row), *sale.SalePrice)
			}
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), sale.SaleDate.Format("2006-01-02 15:04:05"))
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), sale.Reference)
		}
	case "transactions":
		report, err := h.store.ReportTransactions(start, end)
		if err != nil {
			return storeError(c, log, err)
		}
		headers := []string{"Tag ID", "Product ID", "Product Name", "Action", "Branch", "From", "To", "Timestamp"}
		for i, hdr := range headers {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheet, col+"1", hdr)
		}
		for i, txn := range report.Rows {
			row := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), txn.TagID)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), txn.ProductID)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), txn.ProductName)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), txn.Action)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), txn.BranchID)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), txn.FromBranchID)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), txn.ToBranchID)
			f.SetCellValue(sheet, fmt.Sprintf("H%d", row), txn.Timestamp.Format("2006-01-02 15:04:05"))
		}
	case "transfers":
		transfers, err := h.store.ReportTransfers(start, end)
		if err != nil {
			return storeError(c, log, err)
		}
		headers := []string{"Tag ID", "Product ID", "Product Name", "From", "To", "Reference", "Timestamp"}
		for i, hdr := range headers {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetCellValue(sheet, col+"1", hdr)
		}
		for i, transfer := range transfers {
			row := i + 2
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), transfer.TagID)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), transfer.ProductID)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), transfer.ProductName)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), transfer.FromBranchID)
			f.SetCellValue(sheet, fmt.Sprintf("E%d", row), transfer.ToBranchID)
			f.SetCellValue(sheet, fmt.Sprintf("F%d", row), transfer.Reference)
			f.SetCellValue(sheet, fmt.Sprintf("G%d", row), transfer.Timestamp.Format("2006-01-02 15:04:05"))
		}
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown report type"})
	}

	filename := fmt.Sprintf("%s_%s_%s.xlsx", reportType, start.Format("20060102"), end.Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Response().WriteHeader(http.StatusOK)
	if err := f.Write(c.Response().Writer); err != nil {
		log.Error("Failed to write spreadsheet", zap.Error(err))
		return err
	}
	return nil
}

// PDF streams a sales summary for a date range as a PDF document
func (h *ReportHandler) PDF(c echo.Context) error {
	log := logger.FromContext(c)
	start, end := dateRange(c)
	log.Info("Exporting PDF report",
		zap.Time("start", start),
		zap.Time("end", end))

	report, err := h.store.ReportSales(start, end)
	if err != nil {
		return storeError(c, log, err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Sales Report")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", start.Format("2006-01-02"), end.Format("2006-01-02")))
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Items sold: %d    Total revenue: %.2f    Average price: %.2f",
		report.ItemsSold, report.TotalRevenue, report.AveragePrice))
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 9)
	widths := []float64{35, 30, 45, 25, 20, 35}
	headers := []string{"Tag ID", "Product", "Name", "Branch", "Price", "Date"}
	for i, hdr := range headers {
		pdf.CellFormat(widths[i], 7, hdr, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, sale := range report.Rows {
		price := ""
		if sale.SalePrice != nil {
			price = fmt.Sprintf("%.2f", *sale.SalePrice)
		}
		cells := []string{
			sale.TagID,
			sale.ProductID,
			sale.ProductName,
			sale.BranchID,
			price,
			sale.SaleDate.Format("2006-01-02"),
		}
		for i, value := range cells {
			pdf.CellFormat(widths[i], 6, value, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	filename := fmt.Sprintf("sales_%s_%s.pdf", start.Format("20060102"), end.Format("20060102"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().Header().Set(echo.HeaderContentType, "application/pdf")
	c.Response().WriteHeader(http.StatusOK)
	if err := pdf.Output(c.Response().Writer); err != nil {
		log.Error("Failed to write PDF", zap.Error(err))
		return err
	}
	return nil
}

// dateRange reads the start and end query parameters, defaulting to the last
// 30 days. Both bounds are dates; the end date is inclusive.
func dateRange(c echo.Context) (time.Time, time.Time) {
	end := time.Now().Truncate(24 * time.Hour)
	if v, err := time.Parse("2006-01-02", c.QueryParam("end")); err == nil {
		end = v
	}
	start := end.AddDate(0, 0, -30)
	if v, err := time.Parse("2006-01-02", c.QueryParam("start")); err == nil {
		start = v
	}
	return start, end
}
