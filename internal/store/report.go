package store

import (
	"time"

	"inventory-service/internal/model"
)

// Summary holds the headline counts shown on the dashboard
type Summary struct {
	TotalProducts   int64            `json:"total_products"`
	TotalTags       int64            `json:"total_tags"`
	TotalCategories int64            `json:"total_categories"`
	TotalBranches   int64            `json:"total_branches"`
	TagsByBranch    map[string]int64 `json:"tags_by_branch"`
}

// Summarize counts the live entities. An empty database yields zeroes, not an
// error.
func (s *Store) Summarize() (*Summary, error) {
	summary := &Summary{TagsByBranch: map[string]int64{}}
	if err := s.db.Model(&model.Product{}).Count(&summary.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Tag{}).Count(&summary.TotalTags).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Category{}).Count(&summary.TotalCategories).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&model.Branch{}).Count(&summary.TotalBranches).Error; err != nil {
		return nil, err
	}
	type branchCount struct {
		BranchID string
		Count    int64
	}
	var perBranch []branchCount
	if err := s.db.Model(&model.Tag{}).
		Select("branch_id, COUNT(*) as count").
		Group("branch_id").Scan(&perBranch).Error; err != nil {
		return nil, err
	}
	for _, bc := range perBranch {
		summary.TagsByBranch[bc.BranchID] = bc.Count
	}
	return summary, nil
}

// TransactionRow is one audit-trail row with the product name resolved
type TransactionRow struct {
	model.Transaction
	ProductName string `json:"product_name"`
}

// DailyCount aggregates transactions per day and action for charting
type DailyCount struct {
	Date   string `json:"date"`
	Action string `json:"action"`
	Count  int64  `json:"count"`
}

// TransactionReport is the date-filtered audit trail plus its daily aggregates
type TransactionReport struct {
	Rows  []TransactionRow `json:"rows"`
	Daily []DailyCount     `json:"daily"`
}

// ReportTransactions returns audit-trail rows between start and end inclusive.
// An empty range yields an empty report.
func (s *Store) ReportTransactions(start, end time.Time) (*TransactionReport, error) {
	var transactions []model.Transaction
	if err := s.db.Where("timestamp >= ? AND timestamp < ?", start, end.Add(24*time.Hour)).
		Order("timestamp").Find(&transactions).Error; err != nil {
		return nil, err
	}

	names := map[string]string{}
	report := &TransactionReport{Rows: make([]TransactionRow, 0, len(transactions))}
	dailyIndex := map[[2]string]int{}
	for _, txn := range transactions {
		name, ok := names[txn.ProductID]
		if !ok {
			name = "Unknown"
			var product model.Product
			if s.db.First(&product, "id = ?", txn.ProductID).Error == nil {
				name = product.Name
			}
			names[txn.ProductID] = name
		}
		report.Rows = append(report.Rows, TransactionRow{Transaction: txn, ProductName: name})

		key := [2]string{txn.Timestamp.Format("2006-01-02"), txn.Action}
		if i, ok := dailyIndex[key]; ok {
			report.Daily[i].Count++
		} else {
			dailyIndex[key] = len(report.Daily)
			report.Daily = append(report.Daily, DailyCount{Date: key[0], Action: key[1], Count: 1})
		}
	}
	return report, nil
}

// DailyRevenue aggregates sale prices per day
type DailyRevenue struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// CategorySales counts sold items per category
type CategorySales struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// SalesReport is the date-filtered sales log with its aggregates
type SalesReport struct {
	Rows         []model.Sale    `json:"rows"`
	TotalRevenue float64         `json:"total_revenue"`
	ItemsSold    int             `json:"items_sold"`
	AveragePrice float64         `json:"average_price"`
	Daily        []DailyRevenue  `json:"daily"`
	ByCategory   []CategorySales `json:"by_category"`
}

// ReportSales returns sale records between start and end inclusive together
// with revenue totals and per-category counts. Sales without a recorded price
// count toward items sold but contribute nothing to revenue.
func (s *Store) ReportSales(start, end time.Time) (*SalesReport, error) {
	var sales []model.Sale
	if err := s.db.Where("sale_date >= ? AND sale_date < ?", start, end.Add(24*time.Hour)).
		Order("sale_date").Find(&sales).Error; err != nil {
		return nil, err
	}

	report := &SalesReport{Rows: sales, ItemsSold: len(sales)}
	dailyIndex := map[string]int{}
	categoryIndex := map[string]int{}
	for _, sale := range sales {
		price := 0.0
		if sale.SalePrice != nil {
			price = *sale.SalePrice
		}
		report.TotalRevenue += price

		day := sale.SaleDate.Format("2006-01-02")
		if i, ok := dailyIndex[day]; ok {
			report.Daily[i].Revenue += price
		} else {
			dailyIndex[day] = len(report.Daily)
			report.Daily = append(report.Daily, DailyRevenue{Date: day, Revenue: price})
		}

		if i, ok := categoryIndex[sale.Category]; ok {
			report.ByCategory[i].Count++
		} else {
			categoryIndex[sale.Category] = len(report.ByCategory)
			report.ByCategory = append(report.ByCategory, CategorySales{Category: sale.Category, Count: 1})
		}
	}
	if report.ItemsSold > 0 {
		report.AveragePrice = report.TotalRevenue / float64(report.ItemsSold)
	}
	return report, nil
}

// ReportTransfers returns transfer records between start and end inclusive
func (s *Store) ReportTransfers(start, end time.Time) ([]model.Transfer, error) {
	var transfers []model.Transfer
	if err := s.db.Where("timestamp >= ? AND timestamp < ?", start, end.Add(24*time.Hour)).
		Order("timestamp").Find(&transfers).Error; err != nil {
		return nil, err
	}
	return transfers, nil
}
