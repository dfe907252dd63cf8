package migratecmd

import (
	"context"
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/internal/commands"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/migrate"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

const (
	migrateSiteMessageType     = "pagebuilder.migrate.site"
	migrateTemplateMessageType = "pagebuilder.migrate.template"
)

// MigrateSiteCommand rewrites the content of every page of a site into the
// canonical nested shape. DryRun reports the changes without saving.
type MigrateSiteCommand struct {
	SiteID uuid.UUID `json:"site_id"`
	DryRun bool      `json:"dry_run"`
}

func (MigrateSiteCommand) Type() string { return migrateSiteMessageType }

func (m MigrateSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.SiteID, requiredID(migrateSiteMessageType, "site_id")),
	)
}

// MigrateTemplateCommand canonicalizes every page built from a template,
// across sites. Run it after a schema change that adds sections.
type MigrateTemplateCommand struct {
	TemplateID uuid.UUID `json:"template_id"`
	DryRun     bool      `json:"dry_run"`
}

func (MigrateTemplateCommand) Type() string { return migrateTemplateMessageType }

func (m MigrateTemplateCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.TemplateID, requiredID(migrateTemplateMessageType, "template_id")),
	)
}

func requiredID(messageType, field string) validation.Rule {
	return validation.By(func(value any) error {
		if id, _ := value.(uuid.UUID); id == uuid.Nil {
			return validation.NewError(messageType+"."+field+"_required", field+" is required")
		}
		return nil
	})
}

// Observer receives the migration result of each page.
type Observer func(page *pages.Page, result migrate.Result)

// Summary counts the outcome of one migration run.
type Summary struct {
	Pages    int
	Migrated int
	Failed   int
}

// runner canonicalizes a batch of pages and saves the changed ones.
type runner struct {
	service  pages.Service
	schemas  pages.TemplateSchemas
	migrator *migrate.Migrator
	observer Observer
}

func newRunner(service pages.Service, schemas pages.TemplateSchemas, migrator *migrate.Migrator, logger interfaces.Logger, observer Observer) runner {
	if migrator == nil {
		migrator = migrate.NewMigrator(migrate.WithLogger(logger))
	}
	return runner{service: service, schemas: schemas, migrator: migrator, observer: observer}
}

func (r runner) run(ctx context.Context, records []*pages.Page, dryRun bool) (Summary, error) {
	summary := Summary{Pages: len(records)}
	var failures []error
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		def, err := r.schemas.Schema(ctx, record.TemplateID)
		if err != nil {
			failures = append(failures, fmt.Errorf("page %s: %w", record.ID, err))
			continue
		}
		result := r.migrator.Canonicalize(def, record.Document())
		if r.observer != nil {
			r.observer(record, result)
		}
		if !result.Changed() || dryRun {
			continue
		}
		if _, _, err := r.service.SaveContent(ctx, pages.SaveContentInput{PageID: record.ID, Content: result.Content}); err != nil {
			failures = append(failures, fmt.Errorf("page %s: %w", record.ID, err))
			continue
		}
		summary.Migrated++
	}
	summary.Failed = len(failures)
	return summary, errors.Join(failures...)
}

// MigrateSiteHandler runs the one-time content migration for a site.
type MigrateSiteHandler struct {
	inner *commands.Handler[MigrateSiteCommand]
}

// NewMigrateSiteHandler wires the handler to the page service and the template
// schema source. Migrations have no timeout unless one is passed in opts.
func NewMigrateSiteHandler(service pages.Service, schemas pages.TemplateSchemas, migrator *migrate.Migrator, logger interfaces.Logger, observer Observer, opts ...commands.HandlerOption[MigrateSiteCommand]) *MigrateSiteHandler {
	logger = logging.Ensure(logger)
	batch := newRunner(service, schemas, migrator, logger, observer)

	exec := func(ctx context.Context, msg MigrateSiteCommand) error {
		records, err := service.ListBySite(ctx, msg.SiteID)
		if err != nil {
			return err
		}
		summary, err := batch.run(ctx, records, msg.DryRun)
		logger.Info("migrate.site.complete",
			"site_id", msg.SiteID.String(),
			"pages", summary.Pages,
			"migrated", summary.Migrated,
			"failed", summary.Failed,
			"dry_run", msg.DryRun,
		)
		return err
	}

	handlerOpts := []commands.HandlerOption[MigrateSiteCommand]{
		commands.WithLogger[MigrateSiteCommand](logger),
		commands.WithOperation[MigrateSiteCommand]("migrate.site"),
		commands.WithMessageFields(func(msg MigrateSiteCommand) map[string]any {
			return map[string]any{"site_id": msg.SiteID.String(), "dry_run": msg.DryRun}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[MigrateSiteCommand](logger)),
		commands.WithTimeout[MigrateSiteCommand](0),
	}
	return &MigrateSiteHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[MigrateSiteCommand].
func (h *MigrateSiteHandler) Execute(ctx context.Context, msg MigrateSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// MigrateTemplateHandler runs the content migration for every page of a
// template.
type MigrateTemplateHandler struct {
	inner *commands.Handler[MigrateTemplateCommand]
}

// NewMigrateTemplateHandler wires the template-wide migration.
func NewMigrateTemplateHandler(service pages.Service, schemas pages.TemplateSchemas, migrator *migrate.Migrator, logger interfaces.Logger, observer Observer, opts ...commands.HandlerOption[MigrateTemplateCommand]) *MigrateTemplateHandler {
	logger = logging.Ensure(logger)
	batch := newRunner(service, schemas, migrator, logger, observer)

	exec := func(ctx context.Context, msg MigrateTemplateCommand) error {
		// Fail fast on an unknown template instead of once per page.
		if _, err := schemas.Schema(ctx, msg.TemplateID); err != nil {
			return err
		}
		records, err := service.ListByTemplate(ctx, msg.TemplateID)
		if err != nil {
			return err
		}
		summary, err := batch.run(ctx, records, msg.DryRun)
		logger.Info("migrate.template.complete",
			"template_id", msg.TemplateID.String(),
			"pages", summary.Pages,
			"migrated", summary.Migrated,
			"failed", summary.Failed,
			"dry_run", msg.DryRun,
		)
		return err
	}

	handlerOpts := []commands.HandlerOption[MigrateTemplateCommand]{
		commands.WithLogger[MigrateTemplateCommand](logger),
		commands.WithOperation[MigrateTemplateCommand]("migrate.template"),
		commands.WithMessageFields(func(msg MigrateTemplateCommand) map[string]any {
			return map[string]any{"template_id": msg.TemplateID.String(), "dry_run": msg.DryRun}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[MigrateTemplateCommand](logger)),
		commands.WithTimeout[MigrateTemplateCommand](0),
	}
	return &MigrateTemplateHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[MigrateTemplateCommand].
func (h *MigrateTemplateHandler) Execute(ctx context.Context, msg MigrateTemplateCommand) error {
	return h.inner.Execute(ctx, msg)
}
