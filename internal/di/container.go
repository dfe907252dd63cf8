package di

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/microcosm-cc/bluemonday"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-pagebuilder/internal/fields"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/logging/gologger"
	"github.com/goliatone/go-pagebuilder/internal/media"
	"github.com/goliatone/go-pagebuilder/internal/migrate"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/runtimeconfig"
	"github.com/goliatone/go-pagebuilder/internal/templates"
	"github.com/goliatone/go-pagebuilder/internal/validation"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

var (
	ErrDatabaseRequired = errors.New("di: postgres storage requires a database handle")
	ErrUploaderMissing  = errors.New("di: no uploader configured")
)

// Container wires repositories, the validation engine and services from a
// runtime configuration. Options override individual collaborators.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	uploader       interfaces.Uploader
	sanitizer      pages.Sanitizer
	registry       *fields.Registry

	sqlDB         *sql.DB
	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	idGenerator   func() uuid.UUID
	now           func() time.Time

	templateRepo templates.TemplateRepository
	pageRepo     pages.PageRepository

	engine      *validation.Engine
	templateSvc templates.Service
	pageSvc     pages.Service
	binder      *media.Binder
	migrator    *migrate.Migrator
}

// Option mutates the container before services are built.
type Option func(*Container)

// WithBunDB supplies a ready bun database for the bun storage provider.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB supplies a database handle; the configured dialect wraps it.
func WithSQLDB(db *sql.DB) Option {
	return func(c *Container) {
		c.sqlDB = db
	}
}

// WithCache overrides the repository cache service and key serializer.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the provider built from the logging config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithUploader sets the upload collaborator used by the media binder.
func WithUploader(uploader interfaces.Uploader) Option {
	return func(c *Container) {
		c.uploader = uploader
	}
}

// WithSanitizer replaces the default bluemonday UGC policy.
func WithSanitizer(sanitizer pages.Sanitizer) Option {
	return func(c *Container) {
		c.sanitizer = sanitizer
	}
}

// WithFieldRegistry replaces the default field kind registry.
func WithFieldRegistry(registry *fields.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithIDGenerator overrides record id generation in services.
func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(c *Container) {
		c.idGenerator = generator
	}
}

// WithNow overrides the clock used by services.
func WithNow(now func() time.Time) Option {
	return func(c *Container) {
		c.now = now
	}
}

// WithTemplateRepository overrides the template repository.
func WithTemplateRepository(repo templates.TemplateRepository) Option {
	return func(c *Container) {
		c.templateRepo = repo
	}
}

// WithPageRepository overrides the page repository.
func WithPageRepository(repo pages.PageRepository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureDatabase(); err != nil {
		return nil, err
	}
	if err := c.configureCache(); err != nil {
		return nil, err
	}
	c.configureRepositories()
	c.configureServices()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	if strings.ToLower(strings.TrimSpace(logCfg.Provider)) != runtimeconfig.LoggingGoLogger {
		return nil
	}
	provider, err := gologger.NewProvider(gologger.Config{
		Level:     logCfg.Level,
		Format:    logCfg.Format,
		AddSource: logCfg.AddSource,
		Focus:     logCfg.Focus,
	})
	if err != nil {
		return err
	}
	c.loggerProvider = provider
	return nil
}

func (c *Container) configureDatabase() error {
	if !c.usesBun() || c.bunDB != nil {
		return nil
	}
	dialect := strings.ToLower(strings.TrimSpace(c.Config.Storage.Dialect))
	if c.sqlDB == nil {
		if dialect == runtimeconfig.DialectPostgres {
			return ErrDatabaseRequired
		}
		dsn := strings.TrimSpace(c.Config.Storage.DSN)
		if dsn == "" {
			dsn = runtimeconfig.DefaultSQLiteDSN
		}
		db, err := sql.Open("sqlite3", dsn)
		if err != nil {
			return fmt.Errorf("di: open sqlite: %w", err)
		}
		c.sqlDB = db
		c.ownsDB = true
	}
	switch dialect {
	case runtimeconfig.DialectPostgres:
		c.bunDB = bun.NewDB(c.sqlDB, pgdialect.New())
	default:
		c.bunDB = bun.NewDB(c.sqlDB, sqlitedialect.New())
		c.bunDB.SetMaxOpenConns(1)
	}
	return nil
}

func (c *Container) configureCache() error {
	if !c.Config.Cache.Enabled || !c.usesBun() {
		return nil
	}
	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.Config.Cache.TTL > 0 {
			cfg.TTL = c.Config.Cache.TTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return fmt.Errorf("di: cache service: %w", err)
		}
		c.cacheService = service
	}
	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureRepositories() {
	if c.usesBun() {
		if c.templateRepo == nil {
			c.templateRepo = templates.NewBunTemplateRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		if c.pageRepo == nil {
			c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		}
		return
	}
	if c.templateRepo == nil {
		c.templateRepo = templates.NewMemoryTemplateRepository()
	}
	if c.pageRepo == nil {
		c.pageRepo = pages.NewMemoryPageRepository()
	}
}

func (c *Container) configureServices() {
	c.engine = validation.NewEngine(
		validation.WithRegistry(c.registry),
		validation.WithMaxBounds(c.Config.Features.EnforceMaxBounds),
		validation.WithLogger(logging.EngineLogger(c.loggerProvider)),
	)

	templateOpts := []templates.ServiceOption{
		templates.WithLogger(logging.TemplatesLogger(c.loggerProvider)),
	}
	pageOpts := []pages.ServiceOption{
		pages.WithEngine(c.engine),
		pages.WithBlockInvalidPublish(c.Config.Features.BlockInvalidPublish),
		pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
	}
	if c.idGenerator != nil {
		templateOpts = append(templateOpts, templates.WithIDGenerator(c.idGenerator))
		pageOpts = append(pageOpts, pages.WithIDGenerator(c.idGenerator))
	}
	if c.now != nil {
		templateOpts = append(templateOpts, templates.WithNow(c.now))
		pageOpts = append(pageOpts, pages.WithNow(c.now))
	}
	if c.Config.Features.SanitizeRichText {
		sanitizer := c.sanitizer
		if sanitizer == nil {
			sanitizer = bluemonday.UGCPolicy()
		}
		pageOpts = append(pageOpts, pages.WithSanitizer(sanitizer))
	}

	c.templateSvc = templates.NewService(c.templateRepo, templateOpts...)
	c.pageSvc = pages.NewService(c.pageRepo, c.templateSvc, pageOpts...)
	c.migrator = migrate.NewMigrator(
		migrate.WithResolver(c.engine.Resolver()),
		migrate.WithLogger(logging.MigrateLogger(c.loggerProvider)),
	)
	if c.uploader != nil {
		c.binder = media.NewBinder(c.uploader,
			media.WithResolver(c.engine.Resolver()),
			media.WithLogger(logging.MediaLogger(c.loggerProvider)),
		)
	}
}

func (c *Container) usesBun() bool {
	return strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) == runtimeconfig.StorageBun
}

// EnsureSchema creates the templates and pages tables when they are missing.
// It is a no-op for memory storage.
func (c *Container) EnsureSchema(ctx context.Context) error {
	if c.bunDB == nil {
		return nil
	}
	for _, model := range []any{(*templates.Template)(nil), (*pages.Page)(nil)} {
		if _, err := c.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("di: create table %T: %w", model, err)
		}
	}
	return nil
}

// Close releases a database opened by the container itself.
func (c *Container) Close() error {
	if c.ownsDB && c.sqlDB != nil {
		return c.sqlDB.Close()
	}
	return nil
}

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }
func (c *Container) BunDB() *bun.DB                            { return c.bunDB }
func (c *Container) Engine() *validation.Engine                { return c.engine }
func (c *Container) TemplateService() templates.Service        { return c.templateSvc }
func (c *Container) PageService() pages.Service                { return c.pageSvc }
func (c *Container) Migrator() *migrate.Migrator               { return c.migrator }

// Binder returns the media binder, or ErrUploaderMissing when no uploader
// was supplied.
func (c *Container) Binder() (*media.Binder, error) {
	if c.binder == nil {
		return nil, ErrUploaderMissing
	}
	return c.binder, nil
}
