package migratecmd

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/migrate"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/templates"
)

var siteID = uuid.MustParse("00000000-0000-0000-0000-00000000a11e")

func setup(t *testing.T) (templates.Service, pages.Service, *pages.Page) {
	t.Helper()
	ctx := context.Background()
	tplSvc := templates.NewService(templates.NewMemoryTemplateRepository())
	tpl, err := tplSvc.Create(ctx, templates.CreateTemplateInput{
		Name: "Landing",
		Schema: schema.TemplateConfigSchema{Sections: []schema.SectionDefinition{{
			Key:    "hero",
			Name:   "Hero",
			Fields: []schema.FieldDefinition{{Key: "title", Type: schema.FieldText, Label: "Title"}},
		}}},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	pageSvc := pages.NewService(pages.NewMemoryPageRepository(), tplSvc)
	page, err := pageSvc.Create(ctx, pages.CreatePageInput{
		SiteID:     siteID,
		TemplateID: tpl.ID,
		Title:      "Home",
		Content:    content.Content{"hero.title": "Legacy"},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return tplSvc, pageSvc, page
}

func TestMigrateSiteRewritesContent(t *testing.T) {
	tplSvc, pageSvc, page := setup(t)
	var results []migrate.Result
	handler := NewMigrateSiteHandler(pageSvc, tplSvc, nil, nil, func(_ *pages.Page, result migrate.Result) {
		results = append(results, result)
	})

	if err := handler.Execute(context.Background(), MigrateSiteCommand{SiteID: siteID}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if len(results) != 1 || !results[0].Changed() {
		t.Fatalf("expected one changed result, got %+v", results)
	}

	stored, err := pageSvc.Get(context.Background(), page.ID)
	if err != nil {
		t.Fatalf("get page: %v", err)
	}
	if _, ok := stored.Content["hero.title"]; ok {
		t.Fatalf("expected dot key to be gone")
	}
	hero, ok := stored.Content["hero"].(map[string]any)
	if !ok || hero["title"] != "Legacy" || hero["enabled"] != true {
		t.Fatalf("unexpected hero section %#v", stored.Content["hero"])
	}
}

func TestMigrateSiteDryRunLeavesContent(t *testing.T) {
	tplSvc, pageSvc, page := setup(t)
	handler := NewMigrateSiteHandler(pageSvc, tplSvc, nil, nil, nil)

	if err := handler.Execute(context.Background(), MigrateSiteCommand{SiteID: siteID, DryRun: true}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	stored, _ := pageSvc.Get(context.Background(), page.ID)
	if stored.Content["hero.title"] != "Legacy" {
		t.Fatalf("dry run must not save, got %#v", stored.Content)
	}
}

func TestMigrateSiteRequiresSiteID(t *testing.T) {
	tplSvc, pageSvc, _ := setup(t)
	err := NewMigrateSiteHandler(pageSvc, tplSvc, nil, nil, nil).Execute(context.Background(), MigrateSiteCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestMigrateTemplateRewritesPagesAcrossSites(t *testing.T) {
	tplSvc, pageSvc, page := setup(t)
	other, err := pageSvc.Create(context.Background(), pages.CreatePageInput{
		SiteID:     uuid.New(),
		TemplateID: page.TemplateID,
		Title:      "Home",
		Content:    content.Content{"title": "Flat"},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	var migrated []uuid.UUID
	handler := NewMigrateTemplateHandler(pageSvc, tplSvc, nil, nil, func(record *pages.Page, result migrate.Result) {
		if result.Changed() {
			migrated = append(migrated, record.ID)
		}
	})
	if err := handler.Execute(context.Background(), MigrateTemplateCommand{TemplateID: page.TemplateID}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if len(migrated) != 2 {
		t.Fatalf("expected both pages to change, got %v", migrated)
	}

	stored, _ := pageSvc.Get(context.Background(), other.ID)
	hero, ok := stored.Content["hero"].(map[string]any)
	if !ok || hero["title"] != "Flat" {
		t.Fatalf("expected flat title moved into hero, got %#v", stored.Content)
	}
	if _, ok := stored.Content["title"]; ok {
		t.Fatalf("expected flat key to be removed, got %#v", stored.Content)
	}
}

func TestMigrateTemplateRejectsUnknownTemplate(t *testing.T) {
	tplSvc, pageSvc, _ := setup(t)
	handler := NewMigrateTemplateHandler(pageSvc, tplSvc, nil, nil, nil)

	if err := handler.Execute(context.Background(), MigrateTemplateCommand{TemplateID: uuid.New()}); err == nil {
		t.Fatal("expected unknown template error")
	}
	err := handler.Execute(context.Background(), MigrateTemplateCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
