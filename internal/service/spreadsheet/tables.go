package spreadsheet

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jwalitptl/legal-services-api/internal/model"
)

const timestampLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timestampLayout)
}

func (c *Codec) categoryTable() table[model.ServiceCategory] {
	return table[model.ServiceCategory]{
		entity:    EntityCategory,
		sheet:     CategorySheet,
		newRecord: func() *model.ServiceCategory { return &model.ServiceCategory{} },
		lookup: func(ctx context.Context, id int64) (*model.ServiceCategory, error) {
			return c.categories.Lookup(ctx, id)
		},
		save: func(ctx context.Context, _ *model.Actor, v *model.ServiceCategory) error {
			return c.categories.Save(ctx, v)
		},
		columns: []column[model.ServiceCategory]{
			{
				name:     "ID",
				note:     "Leave empty for new records, provide existing ID to update",
				examples: []interface{}{nil, nil, nil},
				export:   func(v *model.ServiceCategory, _ *references) interface{} { return v.ID },
			},
			{
				name:     "Name",
				note:     "Required: Unique category name",
				examples: []interface{}{"Legal Consultation", "Document Services", "Court Representation"},
				export:   func(v *model.ServiceCategory, _ *references) interface{} { return v.Name },
				parse:    text(func(v *model.ServiceCategory, s string) { v.Name = s }),
			},
			{
				name: "Description",
				examples: []interface{}{
					"Professional legal advice and consultation services",
					"Document preparation and review services",
					"Legal representation in court proceedings",
				},
				export: func(v *model.ServiceCategory, _ *references) interface{} { return v.Description },
				parse:  text(func(v *model.ServiceCategory, s string) { v.Description = s }),
			},
			{
				name:     "Icon",
				examples: []interface{}{"fa-gavel", "fa-file-text", "fa-balance-scale"},
				export:   func(v *model.ServiceCategory, _ *references) interface{} { return v.Icon },
				parse:    text(func(v *model.ServiceCategory, s string) { v.Icon = s }),
			},
			{
				name:     "Order",
				examples: []interface{}{1, 2, 3},
				export:   func(v *model.ServiceCategory, _ *references) interface{} { return v.Order },
				parse:    integer("Order", func(v *model.ServiceCategory, n int) { v.Order = n }),
			},
			{
				name: "Created At",
				mode: modeExportOnly,
				export: func(v *model.ServiceCategory, _ *references) interface{} {
					return formatTime(v.CreatedAt)
				},
			},
		},
	}
}

func (c *Codec) serviceTable() table[model.Service] {
	return table[model.Service]{
		entity:    EntityService,
		sheet:     ServiceSheet,
		newRecord: model.NewService,
		lookup: func(ctx context.Context, id int64) (*model.Service, error) {
			return c.services.Lookup(ctx, id)
		},
		save: func(ctx context.Context, actor *model.Actor, v *model.Service) error {
			if v.CreatedByID == nil {
				v.CreatedByID = actor.ID()
			}
			return c.services.Save(ctx, v)
		},
		columns: []column[model.Service]{
			{
				name:     "ID",
				note:     "Leave empty for new records, provide existing ID to update",
				examples: []interface{}{nil, nil, nil},
				export:   func(v *model.Service, _ *references) interface{} { return v.ID },
			},
			{
				name:     "Title",
				note:     "Required: Service title",
				examples: []interface{}{"Contract Review", "Legal Opinion", "Property Documentation"},
				export:   func(v *model.Service, _ *references) interface{} { return v.Title },
				parse:    text(func(v *model.Service, s string) { v.Title = s }),
			},
			{
				name:     "Slug",
				examples: []interface{}{"contract-review", "legal-opinion", "property-documentation"},
				export:   func(v *model.Service, _ *references) interface{} { return v.Slug },
				parse:    text(func(v *model.Service, s string) { v.Slug = s }),
			},
			{
				name:     "Category",
				note:     "Must match existing category name",
				examples: []interface{}{"Legal Consultation", "Legal Consultation", "Document Services"},
				export: func(v *model.Service, refs *references) interface{} {
					return refs.categoryNames[v.CategoryID]
				},
				parse: func(ctx context.Context, v *model.Service, cell string) error {
					category, err := c.categories.GetByName(ctx, cell)
					if err != nil {
						return err
					}
					if category == nil {
						return fmt.Errorf("Category '%s' not found", cell)
					}
					v.CategoryID = category.ID
					return nil
				},
			},
			{
				name: "Short Description",
				examples: []interface{}{
					"Professional contract review and analysis",
					"Expert legal opinion on complex matters",
					"Complete property documentation services",
				},
				export: func(v *model.Service, _ *references) interface{} { return v.ShortDescription },
				parse:  text(func(v *model.Service, s string) { v.ShortDescription = s }),
			},
			{
				name: "Full Description",
				examples: []interface{}{
					"Comprehensive contract review including risk assessment and recommendations",
					"Detailed legal opinion with case law references and practical recommendations",
					"End-to-end property documentation including verification and registration",
				},
				export: func(v *model.Service, _ *references) interface{} { return v.FullDescription },
				parse:  text(func(v *model.Service, s string) { v.FullDescription = s }),
			},
			{
				name: "Features",
				mode: modeTemplateOnly,
				note: "Comma-separated list of features (e.g., Feature 1, Feature 2, Feature 3)",
				examples: []interface{}{
					"Risk assessment, Contract analysis, Legal recommendations",
					"Case law research, Written opinion, Strategic advice",
					"Title verification, Document drafting, Registration support",
				},
			},
			{
				name:     "Price",
				examples: []interface{}{5000, 10000, 15000},
				export: func(v *model.Service, _ *references) interface{} {
					if !v.Price.Valid {
						return ""
					}
					return v.Price.Decimal.StringFixed(2)
				},
				parse: func(_ context.Context, v *model.Service, cell string) error {
					d, err := parseDecimal(cell)
					if err != nil {
						return fmt.Errorf("Price: %w", err)
					}
					v.Price = decimal.NewNullDecimal(d)
					return nil
				},
			},
			{
				name:     "Price Unit",
				examples: []interface{}{"per document", "per opinion", "per property"},
				export:   func(v *model.Service, _ *references) interface{} { return v.PriceUnit },
				parse:    text(func(v *model.Service, s string) { v.PriceUnit = s }),
			},
			{
				name:     "Duration",
				examples: []interface{}{"2-3 days", "5-7 days", "10-15 days"},
				export:   func(v *model.Service, _ *references) interface{} { return v.Duration },
				parse:    text(func(v *model.Service, s string) { v.Duration = s }),
			},
			{
				name:     "Icon",
				examples: []interface{}{"fa-file-contract", "fa-lightbulb", "fa-home"},
				export:   func(v *model.Service, _ *references) interface{} { return v.Icon },
				parse:    text(func(v *model.Service, s string) { v.Icon = s }),
			},
			{
				name:     "Status",
				examples: []interface{}{"active", "active", "active"},
				export:   func(v *model.Service, _ *references) interface{} { return string(v.Status) },
				parse:    text(func(v *model.Service, s string) { v.Status = model.ServiceStatus(s) }),
			},
			{
				name:     "Order",
				examples: []interface{}{1, 2, 3},
				export:   func(v *model.Service, _ *references) interface{} { return v.Order },
				parse:    integer("Order", func(v *model.Service, n int) { v.Order = n }),
			},
			{
				name: "Created By",
				mode: modeExportOnly,
				export: func(v *model.Service, refs *references) interface{} {
					if v.CreatedByID == nil {
						return ""
					}
					return refs.creatorNames[*v.CreatedByID]
				},
			},
			{
				name: "Created At",
				mode: modeExportOnly,
				export: func(v *model.Service, _ *references) interface{} {
					return formatTime(v.CreatedAt)
				},
			},
			{
				name: "Updated At",
				mode: modeExportOnly,
				export: func(v *model.Service, _ *references) interface{} {
					return formatTime(v.UpdatedAt)
				},
			},
		},
	}
}
