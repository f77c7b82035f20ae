package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"inventory-service/internal/store"
	"inventory-service/pkg/config"
	"inventory-service/pkg/database"
	"inventory-service/pkg/jwtutil"
	"inventory-service/prometheus"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "handler_test"}})
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-secret", ExpirationHours: 1})
	os.Exit(m.Run())
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDefaults(db, "admin123"))
	return store.New(db)
}

func jsonRequest(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestLoginIssuesToken(t *testing.T) {
	h := NewAuthHandler(newTestStore(t))

	c, rec := jsonRequest(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin123"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.NotEmpty(t, body["token"])
	require.Equal(t, "admin", body["username"])
	require.Equal(t, "admin", body["role"])

	claims, err := jwtutil.ValidateToken(body["token"].(string))
	require.NoError(t, err)
	require.Equal(t, "admin", claims.Username)
	require.Contains(t, claims.Permissions, "manage_users")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h := NewAuthHandler(newTestStore(t))

	c, rec := jsonRequest(t, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAssignTagEndpoint(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateProduct(store.ProductInput{ID: "P100", Name: "Blue Shirt", Category: "Apparel"})
	require.NoError(t, err)
	h := NewTagHandler(s)

	c, rec := jsonRequest(t, http.MethodPost, "/api/tags", `{"tag_id":"TAG1","product_id":"P100"}`)
	require.NoError(t, h.AssignTag(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, "main", body["branch_id"])

	// Duplicate assignment maps to a conflict naming the holding product
	c, rec = jsonRequest(t, http.MethodPost, "/api/tags", `{"tag_id":"TAG1","product_id":"P100"}`)
	require.NoError(t, h.AssignTag(c))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Contains(t, decodeBody(t, rec)["error"], "P100")
}

func TestTransferEndpointSameBranchRejected(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateProduct(store.ProductInput{ID: "P100", Name: "Blue Shirt", Category: "Apparel"})
	require.NoError(t, err)
	_, err = s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
	h := NewTransferHandler(s)

	c, rec := jsonRequest(t, http.MethodPost, "/api/transfers", `{"tag_id":"TAG1","to_branch_id":"main"}`)
	require.NoError(t, h.Transfer(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordSaleCoercesMalformedOptionalFields(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateProduct(store.ProductInput{ID: "P100", Name: "Blue Shirt", Category: "Apparel"})
	require.NoError(t, err)
	_, err = s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
	h := NewSaleHandler(s)

	c, rec := jsonRequest(t, http.MethodPost, "/api/sales", `{"tag_id":"TAG1","sale_price":"abc","sale_date":"not-a-date"}`)
	require.NoError(t, h.RecordSale(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Nil(t, body["sale_price"])
}

func TestRecordSaleUnknownTag(t *testing.T) {
	h := NewSaleHandler(newTestStore(t))

	c, rec := jsonRequest(t, http.MethodPost, "/api/sales", `{"tag_id":"TAG9"}`)
	require.NoError(t, h.RecordSale(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func xlsxUploadRequest(t *testing.T, target string, cells [][]interface{}) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range cells {
		for j, value := range row {
			col, err := excelize.ColumnNumberToName(j + 1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, i+1), value))
		}
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", "upload.xlsx")
	require.NoError(t, err)
	require.NoError(t, f.Write(fw))
	require.NoError(t, w.Close())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestUploadTagsDropsRfidHeaderRow(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateProduct(store.ProductInput{ID: "P100", Name: "Blue Shirt", Category: "Apparel"})
	require.NoError(t, err)
	_, err = s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
	h := NewTagHandler(s)

	// The original export format titles the tag column "rfid"; the header row
	// must not surface as a phantom tag
	c, rec := xlsxUploadRequest(t, "/api/tags/upload", [][]interface{}{
		{"rfid"},
		{"TAG1"},
		{"TAG2"},
	})
	require.NoError(t, h.UploadTags(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, float64(2), body["total"])
	require.Equal(t, float64(1), body["existing"])
	require.Equal(t, float64(1), body["new"])
	for _, r := range body["results"].([]interface{}) {
		require.NotEqual(t, "rfid", r.(map[string]interface{})["tag_id"])
	}
}

func TestUploadSalesDropsRfidHeaderRow(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateProduct(store.ProductInput{ID: "P100", Name: "Blue Shirt", Category: "Apparel"})
	require.NoError(t, err)
	_, err = s.AssignTag("TAG1", "P100", "", nil)
	require.NoError(t, err)
	h := NewSaleHandler(s)

	c, rec := xlsxUploadRequest(t, "/api/sales/upload", [][]interface{}{
		{"rfid", "sale_price", "sale_date"},
		{"TAG1", "19.90", "2026-03-01"},
	})
	require.NoError(t, h.UploadSales(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, float64(1), body["total"])
	require.Equal(t, float64(1), body["sold"])
	require.Equal(t, float64(0), body["errors"])
}

func TestSummaryClearsEmptiedBranchGauge(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CreateProduct(store.ProductInput{ID: "P100", Name: "Blue Shirt", Category: "Apparel"})
	require.NoError(t, err)
	_, err = s.CreateBranch("north", "North Store", "", "")
	require.NoError(t, err)
	_, err = s.AssignTag("TAG1", "P100", "north", nil)
	require.NoError(t, err)
	h := NewReportHandler(s)

	c, rec := jsonRequest(t, http.MethodGet, "/api/reports/summary", "")
	require.NoError(t, h.Summary(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(prometheus.LiveTagsGauge.WithLabelValues("north")))

	_, err = s.Sell("TAG1", nil, nil)
	require.NoError(t, err)

	c, rec = jsonRequest(t, http.MethodGet, "/api/reports/summary", "")
	require.NoError(t, h.Summary(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 0.0, testutil.ToFloat64(prometheus.LiveTagsGauge.WithLabelValues("north")))
}

func TestParseDateFormats(t *testing.T) {
	require.Nil(t, parseDate(""))
	require.Nil(t, parseDate("garbage"))
	require.NotNil(t, parseDate("2026-03-01"))
	require.NotNil(t, parseDate("2026-03-01T10:00:00Z"))
}

func TestParsePrice(t *testing.T) {
	require.Nil(t, parsePrice(""))
	require.Nil(t, parsePrice("abc"))
	v := parsePrice("19.90")
	require.NotNil(t, v)
	require.Equal(t, 19.90, *v)
}
