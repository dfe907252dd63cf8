package pages_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/templates"
	"github.com/goliatone/go-pagebuilder/pkg/testsupport"
)

func TestPageStorage_WithBunAndCache(t *testing.T) {
	ctx := context.Background()

	bunDB := testsupport.NewBunDB(t, (*templates.Template)(nil), (*pages.Page)(nil))
	cacheSvc, serializer := testsupport.NewCache(t, time.Minute)

	tplSvc := templates.NewService(templates.NewBunTemplateRepositoryWithCache(bunDB, cacheSvc, serializer))
	tpl, err := tplSvc.Create(ctx, templates.CreateTemplateInput{Name: "Landing", Schema: landingSchema()})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	svc := pages.NewService(pages.NewBunPageRepositoryWithCache(bunDB, cacheSvc, serializer), tplSvc)
	page, err := svc.Create(ctx, pages.CreatePageInput{
		SiteID:     siteID,
		TemplateID: tpl.ID,
		Slug:       "about",
		Content:    content.Content{"title": "About us"},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}

	saved, report, err := svc.SaveContent(ctx, pages.SaveContentInput{
		PageID: page.ID,
		Content: content.Content{
			"hero":    map[string]any{"enabled": true, "title": "About"},
			"gallery": map[string]any{"enabled": false},
		},
	})
	if err != nil {
		t.Fatalf("save content: %v", err)
	}
	if !report.IsValid {
		t.Fatalf("expected valid report, got %v", report.Errors)
	}

	loaded, err := svc.GetBySlug(ctx, siteID, "about")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if loaded.ID != saved.ID {
		t.Fatalf("expected %s, got %s", saved.ID, loaded.ID)
	}
	hero, ok := loaded.Content["hero"].(map[string]any)
	if !ok || hero["title"] != "About" || hero["enabled"] != true {
		t.Fatalf("expected stored content verbatim, got %#v", loaded.Content)
	}

	if _, _, err := svc.Publish(ctx, page.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
	listed, err := svc.ListBySite(ctx, siteID)
	if err != nil || len(listed) != 1 || listed[0].Status != pages.StatusPublished {
		t.Fatalf("unexpected listing %#v (%v)", listed, err)
	}

	if err := svc.Delete(ctx, page.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, page.ID); err == nil {
		t.Fatalf("expected page to be gone")
	} else {
		var notFound *pages.NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("expected NotFoundError, got %v", err)
		}
	}
}

func TestPageStorage_CachedQueriesStayScopedToSite(t *testing.T) {
	ctx := context.Background()
	bunDB := testsupport.NewBunDB(t, (*templates.Template)(nil), (*pages.Page)(nil))
	cacheSvc, serializer := testsupport.NewCache(t, time.Minute)

	tplSvc := templates.NewService(templates.NewBunTemplateRepositoryWithCache(bunDB, cacheSvc, serializer))
	landing, err := tplSvc.Create(ctx, templates.CreateTemplateInput{Name: "Landing", Schema: landingSchema()})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	blog, err := tplSvc.Create(ctx, templates.CreateTemplateInput{Name: "Blog", Schema: landingSchema()})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}

	svc := pages.NewService(pages.NewBunPageRepositoryWithCache(bunDB, cacheSvc, serializer), tplSvc)
	siteA, siteB := uuid.New(), uuid.New()
	create := func(site, template uuid.UUID, slug string) *pages.Page {
		t.Helper()
		page, err := svc.Create(ctx, pages.CreatePageInput{SiteID: site, TemplateID: template, Slug: slug})
		if err != nil {
			t.Fatalf("create %s: %v", slug, err)
		}
		return page
	}
	aPage := create(siteA, landing.ID, "a-page")
	bPage := create(siteB, blog.ID, "b-page")

	for _, tc := range []struct {
		site uuid.UUID
		want uuid.UUID
	}{{siteA, aPage.ID}, {siteB, bPage.ID}} {
		listed, err := svc.ListBySite(ctx, tc.site)
		if err != nil || len(listed) != 1 || listed[0].ID != tc.want || listed[0].SiteID != tc.site {
			t.Fatalf("site %s: unexpected listing %#v (%v)", tc.site, listed, err)
		}
	}

	byTemplate, err := svc.ListByTemplate(ctx, blog.ID)
	if err != nil || len(byTemplate) != 1 || byTemplate[0].ID != bPage.ID {
		t.Fatalf("unexpected template listing %#v (%v)", byTemplate, err)
	}

	if _, err := svc.GetBySlug(ctx, siteA, "a-page"); err != nil {
		t.Fatalf("get a-page: %v", err)
	}
	if _, err := svc.GetBySlug(ctx, siteA, "b-page"); err == nil {
		t.Fatalf("expected b-page to be missing on site A")
	}
	found, err := svc.GetBySlug(ctx, siteB, "b-page")
	if err != nil || found.ID != bPage.ID {
		t.Fatalf("expected b-page on site B, got %#v (%v)", found, err)
	}

	if _, err := svc.Create(ctx, pages.CreatePageInput{SiteID: siteB, TemplateID: blog.ID, Slug: "b-page"}); !errors.Is(err, pages.ErrSlugExists) {
		t.Fatalf("expected ErrSlugExists on site B, got %v", err)
	}
	create(siteA, landing.ID, "b-page")
	listed, err := svc.ListBySite(ctx, siteA)
	if err != nil || len(listed) != 2 {
		t.Fatalf("expected fresh listing after create, got %d (%v)", len(listed), err)
	}
}
