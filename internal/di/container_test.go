package di

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/internal/content"
	"github.com/goliatone/go-pagebuilder/internal/logging/gologger"
	"github.com/goliatone/go-pagebuilder/internal/media"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/runtimeconfig"
	"github.com/goliatone/go-pagebuilder/internal/schema"
	"github.com/goliatone/go-pagebuilder/internal/templates"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

type staticUploader struct{}

func (staticUploader) Upload(_ context.Context, req interfaces.UploadRequest) (interfaces.UploadResult, error) {
	_, _ = io.Copy(io.Discard, req.Body)
	return interfaces.UploadResult{ID: "asset-1", URL: "https://cdn.example/" + req.Filename, Filename: req.Filename}, nil
}

func heroSchema() schema.TemplateConfigSchema {
	return schema.TemplateConfigSchema{Sections: []schema.SectionDefinition{{
		Key:      "hero",
		Name:     "Hero",
		Required: true,
		Fields: []schema.FieldDefinition{
			{Key: "title", Type: schema.FieldText, Label: "Title", Required: true},
			{Key: "body", Type: schema.FieldRichText, Label: "Body"},
			{Key: "image", Type: schema.FieldImage, Label: "Image"},
		},
	}}}
}

func exercise(t *testing.T, c *Container) {
	t.Helper()
	ctx := context.Background()
	if err := c.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	tpl, err := c.TemplateService().Create(ctx, templates.CreateTemplateInput{Name: "Landing", Schema: heroSchema()})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	page, err := c.PageService().Create(ctx, pages.CreatePageInput{SiteID: uuid.New(), TemplateID: tpl.ID, Title: "Home"})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	saved, report, err := c.PageService().SaveContent(ctx, pages.SaveContentInput{
		PageID: page.ID,
		Content: content.Content{"hero": map[string]any{
			"enabled": true,
			"title":   "Hello",
			"body":    `<p>hi</p><script>alert(1)</script>`,
		}},
	})
	if err != nil {
		t.Fatalf("save content: %v", err)
	}
	if !report.IsValid {
		t.Fatalf("expected valid report, got %+v", report)
	}
	body := saved.Content["hero"].(map[string]any)["body"].(string)
	if strings.Contains(body, "<script>") {
		t.Fatalf("expected rich text to be sanitized, got %q", body)
	}
	if _, _, err := c.PageService().Publish(ctx, page.ID); err != nil {
		t.Fatalf("publish: %v", err)
	}
}

func TestContainerMemoryStorage(t *testing.T) {
	c, err := NewContainer(runtimeconfig.DefaultConfig())
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if c.BunDB() != nil {
		t.Fatalf("memory storage must not open a database")
	}
	exercise(t, c)

	if _, err := c.Binder(); !errors.Is(err, ErrUploaderMissing) {
		t.Fatalf("expected ErrUploaderMissing, got %v", err)
	}
}

func TestContainerBunSQLiteWithCache(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageBun
	cfg.Storage.DSN = "file:di_container_test?mode=memory&cache=shared"
	cfg.Cache.Enabled = true

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if c.BunDB() == nil {
		t.Fatalf("expected bun database")
	}
	if c.cacheService == nil || c.keySerializer == nil {
		t.Fatalf("expected cache to be configured")
	}
	exercise(t, c)
}

func TestContainerPostgresRequiresDatabase(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = runtimeconfig.StorageBun
	cfg.Storage.Dialect = runtimeconfig.DialectPostgres

	if _, err := NewContainer(cfg); !errors.Is(err, ErrDatabaseRequired) {
		t.Fatalf("expected ErrDatabaseRequired, got %v", err)
	}
}

func TestContainerRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Storage.Provider = "redis"
	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrStorageProviderInvalid) {
		t.Fatalf("expected ErrStorageProviderInvalid, got %v", err)
	}
}

func TestContainerUsesGoLoggerProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Provider = "gologger"
	cfg.Logging.Level = "debug"

	c, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	if _, ok := c.LoggerProvider().(*gologger.Provider); !ok {
		t.Fatalf("expected go-logger provider, got %T", c.LoggerProvider())
	}
}

func TestContainerBindsUploads(t *testing.T) {
	c, err := NewContainer(runtimeconfig.DefaultConfig(), WithUploader(staticUploader{}))
	if err != nil {
		t.Fatalf("NewContainer: %v", err)
	}
	binder, err := c.Binder()
	if err != nil {
		t.Fatalf("binder: %v", err)
	}
	next, _, err := binder.Bind(context.Background(), heroSchema(), content.Content{}, media.BindInput{
		SiteID:     uuid.New(),
		PageID:     uuid.New(),
		SectionKey: "hero",
		FieldKey:   "image",
		Filename:   "a.png",
		Body:       strings.NewReader("png"),
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	image := next["hero"].(map[string]any)["image"].(map[string]any)
	if image["url"] != "https://cdn.example/a.png" {
		t.Fatalf("unexpected image %#v", image)
	}
}
