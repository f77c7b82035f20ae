package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"inventory-service/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	seedProduct(t, s, "P200", "Sneaker", "Footwear")
	_, err := s.CreateBranch("north", "North Store", "", "")
	require.NoError(t, err)

	_, err = s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
	_, err = s.AssignTag("TAG2", "P100", "north", nil)
	require.NoError(t, err)
	_, err = s.AssignTag("TAG3", "P200", "north", nil)
	require.NoError(t, err)

	summary, err := s.Summarize()
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.TotalProducts)
	require.Equal(t, int64(3), summary.TotalTags)
	require.Equal(t, int64(2), summary.TotalCategories)
	require.Equal(t, int64(2), summary.TotalBranches)
	require.Equal(t, int64(1), summary.TagsByBranch[model.MainBranchID])
	require.Equal(t, int64(2), summary.TagsByBranch["north"])
}

func TestSummarizeEmptyDatabase(t *testing.T) {
	s := newTestStore(t)

	summary, err := s.Summarize()
	require.NoError(t, err)
	require.Equal(t, int64(0), summary.TotalProducts)
	require.Equal(t, int64(0), summary.TotalTags)
	// Only the seeded main branch exists
	require.Equal(t, int64(1), summary.TotalBranches)
}

func TestReportSales(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	seedProduct(t, s, "P200", "Sneaker", "Footwear")

	d1 := day(2026, 3, 1)
	d2 := day(2026, 3, 2)
	price1, price2 := 20.0, 30.0

	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
	_, err = s.AssignTag("TAG2", "P100", "", nil)
	require.NoError(t, err)
	_, err = s.AssignTag("TAG3", "P200", "", nil)
	require.NoError(t, err)

	_, err = s.Sell("TAG1", &price1, &d1)
	require.NoError(t, err)
	_, err = s.Sell("TAG2", &price2, &d2)
	require.NoError(t, err)
	_, err = s.Sell("TAG3", nil, &d2)
	require.NoError(t, err)

	report, err := s.ReportSales(day(2026, 3, 1), day(2026, 3, 2))
	require.NoError(t, err)
	require.Equal(t, 3, report.ItemsSold)
	require.Equal(t, 50.0, report.TotalRevenue)
	require.InDelta(t, 50.0/3, report.AveragePrice, 1e-9)

	require.Len(t, report.Daily, 2)
	require.Equal(t, "2026-03-01", report.Daily[0].Date)
	require.Equal(t, 20.0, report.Daily[0].Revenue)
	require.Equal(t, "2026-03-02", report.Daily[1].Date)
	require.Equal(t, 30.0, report.Daily[1].Revenue)

	require.Len(t, report.ByCategory, 2)
	byCategory := map[string]int64{}
	for _, cs := range report.ByCategory {
		byCategory[cs.Category] = cs.Count
	}
	require.Equal(t, int64(2), byCategory["Apparel"])
	require.Equal(t, int64(1), byCategory["Footwear"])
}

func TestReportSalesRangeIsInclusive(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")

	d := day(2026, 3, 2)
	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
	_, err = s.Sell("TAG1", nil, &d)
	require.NoError(t, err)

	report, err := s.ReportSales(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 1, report.ItemsSold)

	report, err = s.ReportSales(time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Equal(t, 0, report.ItemsSold)
}

func TestReportTransactions(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.CreateBranch("north", "North Store", "", "")
	require.NoError(t, err)

	d1 := day(2026, 3, 1)
	d2 := day(2026, 3, 2)

	_, err = s.AssignTag("TAG1", "P100", "", &d1)
	require.NoError(t, err)
	_, err = s.AssignTag("TAG2", "P100", "", &d1)
	require.NoError(t, err)
	_, err = s.Transfer("TAG1", "north", &d2)
	require.NoError(t, err)
	_, err = s.Sell("TAG2", nil, &d2)
	require.NoError(t, err)

	report, err := s.ReportTransactions(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, report.Rows, 4)
	require.Equal(t, "Blue Shirt", report.Rows[0].ProductName)

	require.Len(t, report.Daily, 3)
	counts := map[string]int64{}
	for _, dc := range report.Daily {
		counts[dc.Date+"/"+dc.Action] = dc.Count
	}
	require.Equal(t, int64(2), counts["2026-03-01/"+model.ActionAdded])
	require.Equal(t, int64(1), counts["2026-03-02/"+model.ActionTransferred])
	require.Equal(t, int64(1), counts["2026-03-02/"+model.ActionSold])
}

func TestReportTransfers(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.CreateBranch("north", "North Store", "", "")
	require.NoError(t, err)

	d := day(2026, 3, 5)
	_, err = s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
	_, err = s.Transfer("TAG1", "north", &d)
	require.NoError(t, err)

	transfers, err := s.ReportTransfers(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, "north", transfers[0].ToBranchID)

	transfers, err = s.ReportTransfers(time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Empty(t, transfers)
}
