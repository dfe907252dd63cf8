package pagescmd

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/templates"
	"github.com/goliatone/go-pagebuilder/internal/validation"
)

func newServices(t *testing.T, doc content.Content) (pages.Service, *pages.Page) {
	t.Helper()
	ctx := context.Background()
	tplSvc := templates.NewService(templates.NewMemoryTemplateRepository())
	tpl, err := tplSvc.Create(ctx, templates.CreateTemplateInput{
		Name: "Landing",
		Schema: schema.TemplateConfigSchema{Sections: []schema.SectionDefinition{{
			Key:      "hero",
			Name:     "Hero",
			Required: true,
			Fields:   []schema.FieldDefinition{{Key: "title", Type: schema.FieldText, Label: "Title", Required: true}},
		}}},
	})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	svc := pages.NewService(pages.NewMemoryPageRepository(), tplSvc)
	page, err := svc.Create(ctx, pages.CreatePageInput{
		SiteID:     uuid.New(),
		TemplateID: tpl.ID,
		Title:      "Home",
		Content:    doc,
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return svc, page
}

func TestValidateCommandRequiresPageID(t *testing.T) {
	svc, _ := newServices(t, content.Content{})
	handler := NewValidatePageHandler(svc, nil, nil)

	err := handler.Execute(context.Background(), ValidatePageCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestValidateCommandReturnsReport(t *testing.T) {
	svc, page := newServices(t, content.Content{})
	var reports []validation.Report
	handler := NewValidatePageHandler(svc, nil, func(_ uuid.UUID, report validation.Report) {
		reports = append(reports, report)
	})

	err := handler.Execute(context.Background(), ValidatePageCommand{PageID: page.ID})
	if err == nil {
		t.Fatalf("expected invalid content error")
	}
	report, ok := validation.ReportFrom(err)
	if !ok || report.IsValid {
		t.Fatalf("expected report in error, got %v", err)
	}
	if len(reports) != 1 || reports[0].Errors[0] != `Hero: "Title" is required` {
		t.Fatalf("unexpected sink reports %+v", reports)
	}
}

func TestPublishCommandBlocksInvalidContent(t *testing.T) {
	svc, page := newServices(t, content.Content{})
	handler := NewPublishPageHandler(svc, nil, nil)

	err := handler.Execute(context.Background(), PublishPageCommand{PageID: page.ID})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	stored, _ := svc.Get(context.Background(), page.ID)
	if stored.Status != pages.StatusDraft {
		t.Fatalf("expected page to stay draft, got %s", stored.Status)
	}
}

func TestSaveThenPublishThenUnpublish(t *testing.T) {
	svc, page := newServices(t, content.Content{})
	ctx := context.Background()

	save := NewSaveContentHandler(svc, nil, nil)
	if err := save.Execute(ctx, SaveContentCommand{
		PageID:  page.ID,
		Content: content.Content{"hero": map[string]any{"enabled": true, "title": "Hello"}},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := NewPublishPageHandler(svc, nil, nil).Execute(ctx, PublishPageCommand{PageID: page.ID}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	stored, _ := svc.Get(ctx, page.ID)
	if stored.Status != pages.StatusPublished {
		t.Fatalf("expected published, got %s", stored.Status)
	}

	if err := NewUnpublishPageHandler(svc, nil).Execute(ctx, UnpublishPageCommand{PageID: page.ID}); err != nil {
		t.Fatalf("unpublish: %v", err)
	}
	stored, _ = svc.Get(ctx, page.ID)
	if stored.Status != pages.StatusDraft || stored.PublishedAt != nil {
		t.Fatalf("expected draft without publish time, got %+v", stored)
	}
}

func TestSaveContentCommandRequiresContent(t *testing.T) {
	svc, page := newServices(t, content.Content{})
	err := NewSaveContentHandler(svc, nil, nil).Execute(context.Background(), SaveContentCommand{PageID: page.ID})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
