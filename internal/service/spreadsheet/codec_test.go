package spreadsheet

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jwalitptl/legal-services-api/internal/model"
	"github.com/jwalitptl/legal-services-api/internal/repository"
	"github.com/jwalitptl/legal-services-api/internal/repository/memory"
	"github.com/jwalitptl/legal-services-api/internal/service/catalog"
	"github.com/jwalitptl/legal-services-api/internal/service/category"
	"github.com/jwalitptl/legal-services-api/pkg/metrics"
	"github.com/jwalitptl/legal-services-api/pkg/validator"
)

type fixture struct {
	codec   *Codec
	store   *repository.Store
	metrics *metrics.Metrics
	staff   *model.Actor
}

func setup(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	v := validator.New()

	admin := &model.User{Username: "admin", Email: "admin@example.com", IsStaff: true}
	require.NoError(t, store.Users.Create(context.Background(), admin))

	m := metrics.NewMetrics("test", nil)
	codec := NewCodec(category.NewService(store.Categories, v, nil), catalog.NewService(store, v, nil), m, nil)
	codec.now = func() time.Time { return time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC) }

	return &fixture{codec: codec, store: store, metrics: m, staff: admin.Actor()}
}

func (f *fixture) category(t *testing.T, name string) *model.ServiceCategory {
	t.Helper()
	c := &model.ServiceCategory{Name: name}
	require.NoError(t, f.store.Categories.Create(context.Background(), c))
	return c
}

func (f *fixture) service(t *testing.T, title, slug string, categoryID int64) *model.Service {
	t.Helper()
	s := model.NewService()
	s.Title, s.Slug, s.CategoryID = title, slug, categoryID
	s.ShortDescription, s.FullDescription = "short", "full"
	require.NoError(t, f.store.Services.Create(context.Background(), s))
	return s
}

// workbook builds an xlsx with the given sheet and rows.
func workbook(t *testing.T, sheet string, rows ...[]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		row := row
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func TestImportServicesMixedRows(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	corp := f.category(t, "Corporate")
	existing := f.service(t, "Old Title", "old-title", corp.ID)

	file := workbook(t, ServiceSheet,
		[]interface{}{"ID", "Title", "Category", "Short Description", "Full Description", "Price"},
		[]interface{}{nil, "Merger Advice", "Corporate", "short", "full", "2500"},
		[]interface{}{existing.ID, "New Title", nil, nil, nil, nil},
		[]interface{}{nil, "Ghost", "Nonexistent", "short", "full", nil},
	)

	result, err := f.codec.Import(ctx, f.staff, EntityService, file)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []string{"Row 4: Category 'Nonexistent' not found"}, result.Errors)

	created, err := f.store.Services.GetBySlug(ctx, "merger-advice")
	require.NoError(t, err)
	assert.Equal(t, corp.ID, created.CategoryID)
	assert.True(t, created.Price.Decimal.Equal(decimal.NewFromInt(2500)))
	require.NotNil(t, created.CreatedByID)
	assert.Equal(t, f.staff.UserID, *created.CreatedByID)

	updated, err := f.store.Services.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "old-title", updated.Slug, "slug is kept on title change")

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ImportRows.WithLabelValues("service", "failed")))
}

func TestImportRowValidationErrors(t *testing.T) {
	f := setup(t)
	corp := f.category(t, "Corporate")
	f.service(t, "Taken", "taken", corp.ID)

	file := workbook(t, ServiceSheet,
		[]interface{}{"ID", "Title", "Slug", "Category", "Short Description", "Full Description", "Status", "Order"},
		[]interface{}{nil, "Missing descriptions", nil, "Corporate", nil, nil, nil, nil},
		[]interface{}{nil, "Dup", "taken", "Corporate", "s", "f", nil, nil},
		[]interface{}{},
		[]interface{}{nil, "Bad status", nil, "Corporate", "s", "f", "archived", nil},
		[]interface{}{nil, "Bad order", nil, "Corporate", "s", "f", nil, "first"},
	)

	result, err := f.codec.Import(context.Background(), f.staff, EntityService, file)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Updated)
	require.Len(t, result.Errors, 4)
	assert.Contains(t, result.Errors[0], "Row 2: ")
	assert.Contains(t, result.Errors[0], "short_description")
	assert.Equal(t, "Row 3: slug: service with this slug already exists.", result.Errors[1])
	assert.Contains(t, result.Errors[2], "Row 5: status")
	assert.Equal(t, "Row 6: Order: 'first' is not a valid integer", result.Errors[3])
}

func TestImportCategories(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	existing := f.category(t, "Family")

	file := workbook(t, CategorySheet,
		[]interface{}{"ID", "Name", "Description", "Icon", "Order"},
		[]interface{}{existing.ID, nil, "Family matters", nil, 4},
		[]interface{}{nil, "Tax", nil, "fa-coins", 1},
		[]interface{}{9999, "Unknown id creates", nil, nil, nil},
		[]interface{}{nil, "Family", nil, nil, nil},
	)

	result, err := f.codec.Import(ctx, f.staff, EntityCategory, file)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Row 5: name")

	got, err := f.store.Categories.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Family", got.Name)
	assert.Equal(t, "Family matters", got.Description)
	assert.Equal(t, 4, got.Order)
}

func TestImportFileErrors(t *testing.T) {
	f := setup(t)

	result, err := f.codec.Import(context.Background(), f.staff, EntityService, bytes.NewReader([]byte("not a workbook")))
	require.Error(t, err)
	assert.Equal(t, 0, result.Created)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "File processing error: ")

	file := workbook(t, "Wrong Sheet", []interface{}{"ID", "Name"})
	result, err = f.codec.Import(context.Background(), f.staff, EntityCategory, file)
	require.Error(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "File processing error: ")
	assert.Contains(t, result.Errors[0], CategorySheet)
}

func TestExportServices(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	corp := f.category(t, "Corporate")

	s := model.NewService()
	s.Title, s.Slug, s.CategoryID = "Audit", "audit", corp.ID
	s.ShortDescription, s.FullDescription = "short", "full"
	s.Price = decimal.NewNullDecimal(decimal.RequireFromString("1500.5"))
	s.CreatedByID = model.Int64Ptr(f.staff.UserID)
	require.NoError(t, f.store.Services.Create(ctx, s))
	other := f.service(t, "Other", "other", corp.ID)

	wb, err := f.codec.Export(ctx, EntityService, []int64{s.ID})
	require.NoError(t, err)
	assert.Equal(t, "services_20240305_140709.xlsx", wb.Filename)

	rows, err := open(t, wb.Data).GetRows(ServiceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"ID", "Title", "Slug", "Category", "Short Description", "Full Description", "Price",
		"Price Unit", "Duration", "Icon", "Status", "Order", "Created By", "Created At", "Updated At",
	}, rows[0])
	assert.Equal(t, "Audit", rows[1][1])
	assert.Equal(t, "Corporate", rows[1][3])
	assert.Equal(t, "1500.50", rows[1][6])
	assert.Equal(t, "per case", rows[1][7])
	assert.Equal(t, "admin", rows[1][12])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}$`, rows[1][13])

	wb, err = f.codec.Export(ctx, EntityService, nil)
	require.NoError(t, err)
	rows, err = open(t, wb.Data).GetRows(ServiceSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.NotNil(t, other)
}

func TestExportThenImportUpdatesInPlace(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	corp := f.category(t, "Corporate")
	f.service(t, "One", "one", corp.ID)
	f.service(t, "Two", "two", corp.ID)

	wb, err := f.codec.Export(ctx, EntityService, nil)
	require.NoError(t, err)

	result, err := f.codec.Import(ctx, f.staff, EntityService, bytes.NewReader(wb.Data))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 2, result.Updated)
	assert.Empty(t, result.Errors)

	wb, err = f.codec.Export(ctx, EntityCategory, nil)
	require.NoError(t, err)
	assert.Equal(t, "service_categories_20240305_140709.xlsx", wb.Filename)

	result, err = f.codec.Import(ctx, f.staff, EntityCategory, bytes.NewReader(wb.Data))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)
}

func TestColumnWidths(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c := &model.ServiceCategory{Name: "Name that is considerably longer than fifty characters in total"}
	require.NoError(t, f.store.Categories.Create(ctx, c))

	wb, err := f.codec.Export(ctx, EntityCategory, nil)
	require.NoError(t, err)
	file := open(t, wb.Data)

	width, err := file.GetColWidth(CategorySheet, "B")
	require.NoError(t, err)
	assert.Equal(t, float64(50), width)

	width, err = file.GetColWidth(CategorySheet, "A")
	require.NoError(t, err)
	assert.Equal(t, float64(4), width)
}

func TestServiceTemplate(t *testing.T) {
	f := setup(t)

	wb, err := f.codec.Template(EntityService)
	require.NoError(t, err)
	assert.Equal(t, "services_template.xlsx", wb.Filename)

	file := open(t, wb.Data)
	rows, err := file.GetRows(ServiceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{
		"ID", "Title", "Slug", "Category", "Short Description", "Full Description", "Features",
		"Price", "Price Unit", "Duration", "Icon", "Status", "Order",
	}, rows[0])
	assert.Equal(t, "Contract Review", rows[1][1])
	assert.Equal(t, "", rows[1][0])

	comments, err := file.GetComments(ServiceSheet)
	require.NoError(t, err)
	byCell := map[string]string{}
	for _, c := range comments {
		assert.Equal(t, "Import Template", c.Author)
		text := c.Text
		for _, run := range c.Paragraph {
			text += run.Text
		}
		byCell[c.Cell] = text
	}
	assert.Contains(t, byCell["A1"], "Leave empty for new records")
	assert.Contains(t, byCell["B1"], "Required: Service title")
	assert.Contains(t, byCell["D1"], "Must match existing category name")
	assert.Contains(t, byCell["G1"], "Comma-separated list of features")

	styleID, err := file.GetCellStyle(ServiceSheet, "A1")
	require.NoError(t, err)
	style, err := file.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestCategoryTemplateImportsCleanly(t *testing.T) {
	f := setup(t)

	wb, err := f.codec.Template(EntityCategory)
	require.NoError(t, err)
	assert.Equal(t, "service_categories_template.xlsx", wb.Filename)

	result, err := f.codec.Import(context.Background(), f.staff, EntityCategory, bytes.NewReader(wb.Data))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Empty(t, result.Errors)

	wb, err = f.codec.Template(EntityService)
	require.NoError(t, err)
	result, err = f.codec.Import(context.Background(), f.staff, EntityService, bytes.NewReader(wb.Data))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Created)
	assert.Empty(t, result.Errors)
}

func TestParseEntity(t *testing.T) {
	e, err := ParseEntity("Category")
	require.NoError(t, err)
	assert.Equal(t, EntityCategory, e)

	_, err = ParseEntity("invoice")
	assert.Error(t, err)
}
