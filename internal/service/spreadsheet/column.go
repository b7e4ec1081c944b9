package spreadsheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jwalitptl/legal-services-api/internal/model"
)

type columnMode int

const (
	// modeData columns are exported, imported and shown in the template.
	modeData columnMode = iota
	modeExportOnly
	modeTemplateOnly
)

// column describes one spreadsheet column of an entity. The same table drives
// export, import and template generation.
type column[T any] struct {
	name     string
	mode     columnMode
	note     string
	examples []interface{}
	// export renders the cell value. Unset for template-only columns.
	export func(v *T, refs *references) interface{}
	// parse applies a non-empty cell to the record. Unset columns are not imported.
	parse func(ctx context.Context, v *T, cell string) error
}

func (c column[T]) exported() bool { return c.mode != modeTemplateOnly }
func (c column[T]) templated() bool { return c.mode != modeExportOnly }

// references resolves related records to display names.
type references struct {
	categoryNames map[int64]string
	creatorNames  map[int64]string
}

// table binds an entity's columns to its storage.
type table[T any] struct {
	entity    Entity
	sheet     string
	columns   []column[T]
	newRecord func() *T
	lookup    func(ctx context.Context, id int64) (*T, error)
	save      func(ctx context.Context, actor *model.Actor, v *T) error
}

func (t table[T]) headers(keep func(column[T]) bool) []string {
	var out []string
	for _, c := range t.columns {
		if keep(c) {
			out = append(out, c.name)
		}
	}
	return out
}

func parseInt(cell string) (int64, error) {
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return n, nil
	}
	// Numeric cells written by other tools may carry a ".0" suffix.
	d, err := decimal.NewFromString(cell)
	if err != nil || !d.IsInteger() {
		return 0, fmt.Errorf("'%s' is not a valid integer", cell)
	}
	return d.IntPart(), nil
}

func parseDecimal(cell string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(cell)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("'%s' is not a valid number", cell)
	}
	return d, nil
}

func text[T any](set func(v *T, s string)) func(context.Context, *T, string) error {
	return func(_ context.Context, v *T, cell string) error {
		set(v, cell)
		return nil
	}
}

func integer[T any](name string, set func(v *T, n int)) func(context.Context, *T, string) error {
	return func(_ context.Context, v *T, cell string) error {
		n, err := parseInt(cell)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		set(v, int(n))
		return nil
	}
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
