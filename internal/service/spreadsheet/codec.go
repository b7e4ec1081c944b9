package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jwalitptl/legal-services-api/internal/model"
	apperrors "github.com/jwalitptl/legal-services-api/pkg/errors"
	"github.com/jwalitptl/legal-services-api/pkg/logger"
	"github.com/jwalitptl/legal-services-api/pkg/metrics"
)

type Entity string

const (
	EntityCategory Entity = "category"
	EntityService  Entity = "service"

	CategorySheet = "Service Categories"
	ServiceSheet  = "Services"
)

// ParseEntity accepts the model type names used in template URLs and CLI flags.
func ParseEntity(s string) (Entity, error) {
	switch Entity(strings.ToLower(strings.TrimSpace(s))) {
	case EntityCategory:
		return EntityCategory, nil
	case EntityService:
		return EntityService, nil
	}
	return "", apperrors.BadRequest(fmt.Sprintf("Invalid model type '%s'", s), nil)
}

func (e Entity) filePrefix() string {
	if e == EntityCategory {
		return "service_categories"
	}
	return "services"
}

// CategoryStore is the category side of the catalog used by the codec.
type CategoryStore interface {
	Find(ctx context.Context, ids []int64) ([]*model.ServiceCategory, error)
	Lookup(ctx context.Context, id int64) (*model.ServiceCategory, error)
	GetByName(ctx context.Context, name string) (*model.ServiceCategory, error)
	Save(ctx context.Context, category *model.ServiceCategory) error
}

// ServiceStore is the service side of the catalog used by the codec.
type ServiceStore interface {
	Find(ctx context.Context, ids []int64) ([]*model.Service, error)
	Lookup(ctx context.Context, id int64) (*model.Service, error)
	Save(ctx context.Context, service *model.Service) error
	CategoryNames(ctx context.Context, services []*model.Service) (map[int64]string, error)
	CreatorNames(ctx context.Context, services []*model.Service) (map[int64]string, error)
}

type SpreadsheetServicer interface {
	Export(ctx context.Context, entity Entity, ids []int64) (*Workbook, error)
	Import(ctx context.Context, actor *model.Actor, entity Entity, r io.Reader) (*model.ImportResult, error)
	Template(entity Entity) (*Workbook, error)
}

// Codec converts catalog records to and from xlsx workbooks.
type Codec struct {
	categories CategoryStore
	services   ServiceStore
	metrics    *metrics.Metrics
	logger     *logger.Logger
	now        func() time.Time
}

func NewCodec(categories CategoryStore, services ServiceStore, m *metrics.Metrics, log *logger.Logger) *Codec {
	if log == nil {
		log = logger.Nop()
	}
	return &Codec{
		categories: categories,
		services:   services,
		metrics:    m,
		logger:     log,
		now:        time.Now,
	}
}

// Export renders the selected records, or all records when ids is empty.
func (c *Codec) Export(ctx context.Context, entity Entity, ids []int64) (*Workbook, error) {
	var (
		data  []byte
		count int
		err   error
	)
	switch entity {
	case EntityCategory:
		categories, ferr := c.categories.Find(ctx, ids)
		if ferr != nil {
			return nil, fmt.Errorf("failed to load categories: %w", ferr)
		}
		count = len(categories)
		data, err = exportSheet(c.categoryTable(), categories, &references{})
	case EntityService:
		services, ferr := c.services.Find(ctx, ids)
		if ferr != nil {
			return nil, fmt.Errorf("failed to load services: %w", ferr)
		}
		refs, rerr := c.serviceReferences(ctx, services)
		if rerr != nil {
			return nil, rerr
		}
		count = len(services)
		data, err = exportSheet(c.serviceTable(), services, refs)
	default:
		return nil, apperrors.BadRequest(fmt.Sprintf("Invalid model type '%s'", entity), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to export %s workbook: %w", entity, err)
	}

	if c.metrics != nil {
		c.metrics.ExportedRecords.WithLabelValues(string(entity)).Add(float64(count))
	}
	return &Workbook{
		Filename: fmt.Sprintf("%s_%s.xlsx", entity.filePrefix(), c.now().Format("20060102_150405")),
		Data:     data,
	}, nil
}

func (c *Codec) serviceReferences(ctx context.Context, services []*model.Service) (*references, error) {
	categoryNames, err := c.services.CategoryNames(ctx, services)
	if err != nil {
		return nil, err
	}
	creatorNames, err := c.services.CreatorNames(ctx, services)
	if err != nil {
		return nil, err
	}
	return &references{categoryNames: categoryNames, creatorNames: creatorNames}, nil
}

// Import applies every data row of the entity's sheet. Row failures are
// collected in the result. A non-nil error means the file itself could not be
// read; the result then carries that single error.
func (c *Codec) Import(ctx context.Context, actor *model.Actor, entity Entity, r io.Reader) (*model.ImportResult, error) {
	start := time.Now()

	var (
		result *model.ImportResult
		err    error
	)
	switch entity {
	case EntityCategory:
		result, err = importSheet(ctx, c, c.categoryTable(), actor, r)
	case EntityService:
		result, err = importSheet(ctx, c, c.serviceTable(), actor, r)
	default:
		return nil, apperrors.BadRequest(fmt.Sprintf("Invalid model type '%s'", entity), nil)
	}

	if c.metrics != nil {
		c.metrics.ImportDuration.WithLabelValues(string(entity)).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.logger.Warn("spreadsheet import rejected", "entity", string(entity), "error", err.Error())
		return result, err
	}

	c.logger.Info("spreadsheet import finished",
		"entity", string(entity),
		"created", result.Created,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)
	return result, nil
}

// Template renders a blank import workbook with example rows and header notes.
func (c *Codec) Template(entity Entity) (*Workbook, error) {
	var (
		data []byte
		err  error
	)
	switch entity {
	case EntityCategory:
		data, err = templateSheet(c.categoryTable())
	case EntityService:
		data, err = templateSheet(c.serviceTable())
	default:
		return nil, apperrors.BadRequest(fmt.Sprintf("Invalid model type '%s'", entity), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build %s template: %w", entity, err)
	}
	return &Workbook{
		Filename: entity.filePrefix() + "_template.xlsx",
		Data:     data,
	}, nil
}

func (c *Codec) countRow(entity Entity, outcome string) {
	if c.metrics != nil {
		c.metrics.ImportRows.WithLabelValues(string(entity), outcome).Inc()
	}
}

func exportSheet[T any](t table[T], records []*T, refs *references) ([]byte, error) {
	var cols []column[T]
	for _, col := range t.columns {
		if col.exported() {
			cols = append(cols, col)
		}
	}

	rows := make([][]interface{}, len(records))
	for i, rec := range records {
		row := make([]interface{}, len(cols))
		for j, col := range cols {
			row[j] = col.export(rec, refs)
		}
		rows[i] = row
	}

	return render(sheetSpec{
		name:   t.sheet,
		header: t.headers(column[T].exported),
		rows:   rows,
	})
}

func templateSheet[T any](t table[T]) ([]byte, error) {
	var (
		cols     []column[T]
		comments []sheetComment
	)
	for _, col := range t.columns {
		if !col.templated() {
			continue
		}
		cols = append(cols, col)
		if col.note != "" {
			comments = append(comments, sheetComment{column: len(cols), text: col.note})
		}
	}

	var rows [][]interface{}
	for i := range cols[0].examples {
		row := make([]interface{}, len(cols))
		for j, col := range cols {
			if i < len(col.examples) {
				row[j] = col.examples[i]
			}
		}
		rows = append(rows, row)
	}

	return render(sheetSpec{
		name:       t.sheet,
		header:     t.headers(column[T].templated),
		rows:       rows,
		boldHeader: true,
		comments:   comments,
	})
}

func importSheet[T any](ctx context.Context, c *Codec, t table[T], actor *model.Actor, r io.Reader) (*model.ImportResult, error) {
	rows, err := readSheet(r, t.sheet)
	if err != nil {
		return &model.ImportResult{
			Errors: []string{fmt.Sprintf("File processing error: %v", err)},
		}, apperrors.BadRequest("File processing error", err)
	}

	result := &model.ImportResult{Errors: []string{}}
	if len(rows) == 0 {
		return result, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		name = strings.TrimSpace(name)
		if _, dup := index[name]; !dup && name != "" {
			index[name] = i
		}
	}

	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		created, err := importRow(ctx, t, actor, index, row)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %s", i+2, rowMessage(err)))
			c.countRow(t.entity, "failed")
			continue
		}
		if created {
			result.Created++
			c.countRow(t.entity, "created")
		} else {
			result.Updated++
			c.countRow(t.entity, "updated")
		}
	}
	return result, nil
}

func importRow[T any](ctx context.Context, t table[T], actor *model.Actor, index map[string]int, row []string) (bool, error) {
	value := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var record *T
	if raw := value("ID"); raw != "" {
		id, err := parseInt(raw)
		if err != nil {
			return false, fmt.Errorf("ID: %w", err)
		}
		if record, err = t.lookup(ctx, id); err != nil {
			return false, err
		}
	}
	created := record == nil
	if created {
		record = t.newRecord()
	}

	for _, col := range t.columns {
		if col.parse == nil {
			continue
		}
		cell := value(col.name)
		if cell == "" {
			continue
		}
		if err := col.parse(ctx, record, cell); err != nil {
			return false, err
		}
	}

	if err := t.save(ctx, actor, record); err != nil {
		return false, err
	}
	return created, nil
}

func rowMessage(err error) string {
	if appErr, ok := apperrors.As(err); ok {
		return appErr.Error()
	}
	return err.Error()
}
