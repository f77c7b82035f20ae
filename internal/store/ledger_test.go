package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"inventory-service/internal/model"
)

func countTransactions(t *testing.T, s *Store, action string) int64 {
	t.Helper()
	var count int64
	require.NoError(t, s.DB().Model(&model.Transaction{}).Where("action = ?", action).Count(&count).Error)
	return count
}

func TestAssignTagDefaultsToMainBranch(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")

	tag, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
	require.Equal(t, model.MainBranchID, tag.BranchID)
	require.Equal(t, "Apparel", tag.Category)
	require.Equal(t, int64(1), countTransactions(t, s, model.ActionAdded))
}

func TestAssignTagConflictNamesHoldingProduct(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	seedProduct(t, s, "P200", "Red Shirt", "Apparel")

	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)

	_, err = s.AssignTag("TAG1", "P200", "", nil)
	require.Error(t, err)
	require.Equal(t, KindConflict, KindOf(err))
	require.Contains(t, err.Error(), "P100")

	// The failed assignment wrote nothing
	require.Equal(t, int64(1), countTransactions(t, s, model.ActionAdded))
}

func TestAssignTagValidation(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")

	_, err := s.AssignTag("", "P100", "", nil)
	require.Equal(t, KindInvalid, KindOf(err))

	_, err = s.AssignTag("TAG1", "NOPE", "", nil)
	require.Equal(t, KindNotFound, KindOf(err))

	_, err = s.AssignTag("TAG1", "P100", "ghost", nil)
	require.Equal(t, KindNotFound, KindOf(err))

	require.Equal(t, int64(0), countTransactions(t, s, model.ActionAdded))
}

func TestGetTagResolvesProductName(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)

	detail, err := s.GetTag("TAG1")
	require.NoError(t, err)
	require.Equal(t, "Blue Shirt", detail.ProductName)

	_, err = s.GetTag("TAG2")
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestListTagsFilters(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	seedProduct(t, s, "P200", "Sneaker", "Footwear")
	_, err := s.CreateBranch("north", "North Store", "", "")
	require.NoError(t, err)

	_, err = s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
	_, err = s.AssignTag("TAG2", "P200", "north", nil)
	require.NoError(t, err)

	all, err := s.ListTags(TagFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	north, err := s.ListTags(TagFilter{BranchID: "north"})
	require.NoError(t, err)
	require.Len(t, north, 1)
	require.Equal(t, "TAG2", north[0].TagID)

	apparel, err := s.ListTags(TagFilter{Category: "Apparel"})
	require.NoError(t, err)
	require.Len(t, apparel, 1)
	require.Equal(t, "TAG1", apparel[0].TagID)
}

func TestTransferMovesItemAndLogsOnce(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.CreateBranch("north", "North Store", "", "")
	require.NoError(t, err)
	_, err = s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)

	transfer, err := s.Transfer("TAG1", "north", nil)
	require.NoError(t, err)
	require.Equal(t, model.MainBranchID, transfer.FromBranchID)
	require.Equal(t, "north", transfer.ToBranchID)
	require.Equal(t, "Blue Shirt", transfer.ProductName)
	require.NotEmpty(t, transfer.Reference)

	detail, err := s.GetTag("TAG1")
	require.NoError(t, err)
	require.Equal(t, "north", detail.BranchID)

	transfers, err := s.ListTransfers(0)
	require.NoError(t, err)
	require.Len(t, transfers, 1)
	require.Equal(t, "Main Branch", transfers[0].FromBranchName)
	require.Equal(t, "North Store", transfers[0].ToBranchName)
	require.Equal(t, int64(1), countTransactions(t, s, model.ActionTransferred))
}

func TestTransferToCurrentBranchRejected(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)

	_, err = s.Transfer("TAG1", model.MainBranchID, nil)
	require.Error(t, err)
	require.Equal(t, KindNoOp, KindOf(err))

	// Nothing was written
	transfers, err := s.ListTransfers(0)
	require.NoError(t, err)
	require.Empty(t, transfers)
	require.Equal(t, int64(0), countTransactions(t, s, model.ActionTransferred))
}

func TestTransferUnknownTagOrBranch(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)

	_, err = s.Transfer("TAG9", model.MainBranchID, nil)
	require.Equal(t, KindNotFound, KindOf(err))

	_, err = s.Transfer("TAG1", "ghost", nil)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestSellRetiresItemAndFreesTag(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)

	price := 25.50
	sale, err := s.Sell("TAG1", &price, nil)
	require.NoError(t, err)
	require.Equal(t, "P100", sale.ProductID)
	require.Equal(t, "Blue Shirt", sale.ProductName)
	require.Equal(t, "Apparel", sale.Category)
	require.Equal(t, model.MainBranchID, sale.BranchID)
	require.NotEmpty(t, sale.Reference)

	_, err = s.GetTag("TAG1")
	require.Equal(t, KindNotFound, KindOf(err))
	require.Equal(t, int64(1), countTransactions(t, s, model.ActionSold))

	revenue, err := s.TotalRevenue()
	require.NoError(t, err)
	require.Equal(t, 25.50, revenue)

	// The tag id is free for a fresh assignment
	_, err = s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
}

func TestSellWithoutPriceCountsNoRevenue(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)

	sale, err := s.Sell("TAG1", nil, nil)
	require.NoError(t, err)
	require.Nil(t, sale.SalePrice)

	revenue, err := s.TotalRevenue()
	require.NoError(t, err)
	require.Equal(t, 0.0, revenue)
}

func TestSellUnknownTag(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Sell("TAG1", nil, nil)
	require.Equal(t, KindNotFound, KindOf(err))
}

func TestCheckTagsClassifiesRows(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)

	results := s.CheckTags([]string{"TAG1", "TAG2", ""})
	require.Len(t, results, 3)
	require.Equal(t, RowStatusExisting, results[0].Status)
	require.Equal(t, "Blue Shirt", results[0].ProductName)
	require.Equal(t, RowStatusNew, results[1].Status)
	require.Equal(t, RowStatusError, results[2].Status)

	// Checking mutates nothing
	tags, err := s.ListTags(TagFilter{})
	require.NoError(t, err)
	require.Len(t, tags, 1)
}

func TestAssignTagsPartialSuccess(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)

	results := s.AssignTags([]string{"TAG1", "TAG2", "TAG3"}, "P100", "")
	require.Len(t, results, 3)
	require.Equal(t, RowStatusExisting, results[0].Status)
	require.Equal(t, RowStatusAssigned, results[1].Status)
	require.Equal(t, RowStatusAssigned, results[2].Status)

	tags, err := s.ListTags(TagFilter{})
	require.NoError(t, err)
	require.Len(t, tags, 3)
}

func TestSellRowsPartialSuccess(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, "P100", "Blue Shirt", "Apparel")
	_, err := s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)

	price := 10.0
	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	results := s.SellRows([]SaleRow{
		{TagID: "TAG1", SalePrice: &price, SaleDate: &when},
		{TagID: "TAG9"},
	})
	require.Len(t, results, 2)
	require.Equal(t, RowStatusSold, results[0].Status)
	require.Equal(t, "Blue Shirt", results[0].ProductName)
	require.Equal(t, RowStatusError, results[1].Status)

	sales, err := s.ListSales(0)
	require.NoError(t, err)
	require.Len(t, sales, 1)
}
