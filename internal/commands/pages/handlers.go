package pagescmd

import (
	"context"

	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/internal/commands"
	"github.com/goliatone/go-pagebuilder/internal/logging"
	"github.com/goliatone/go-pagebuilder/internal/pages"
	"github.com/goliatone/go-pagebuilder/internal/validation"
	"github.com/goliatone/go-pagebuilder/pkg/interfaces"
)

// ReportSink receives the validation report produced by a command.
type ReportSink func(pageID uuid.UUID, report validation.Report)

func pageFields(id uuid.UUID) map[string]any {
	if id == uuid.Nil {
		return nil
	}
	return map[string]any{"page_id": id.String()}
}

// emit skips the zero report returned when the page could not be loaded.
func emit(sink ReportSink, id uuid.UUID, report validation.Report) {
	if sink != nil && (report.IsValid || len(report.Errors) > 0) {
		sink(id, report)
	}
}

// ValidatePageHandler validates stored page content. An invalid report is
// returned as a validation-category error.
type ValidatePageHandler struct {
	inner *commands.Handler[ValidatePageCommand]
}

// NewValidatePageHandler constructs the validate handler.
func NewValidatePageHandler(service pages.Service, logger interfaces.Logger, sink ReportSink, opts ...commands.HandlerOption[ValidatePageCommand]) *ValidatePageHandler {
	logger = logging.Ensure(logger)
	exec := func(ctx context.Context, msg ValidatePageCommand) error {
		report, err := service.Validate(ctx, msg.PageID)
		if err != nil {
			return err
		}
		emit(sink, msg.PageID, report)
		return report.Err()
	}

	handlerOpts := []commands.HandlerOption[ValidatePageCommand]{
		commands.WithLogger[ValidatePageCommand](logger),
		commands.WithOperation[ValidatePageCommand]("pages.validate"),
		commands.WithMessageFields(func(msg ValidatePageCommand) map[string]any { return pageFields(msg.PageID) }),
		commands.WithTelemetry(commands.DefaultTelemetry[ValidatePageCommand](logger)),
	}
	return &ValidatePageHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[ValidatePageCommand].
func (h *ValidatePageHandler) Execute(ctx context.Context, msg ValidatePageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PublishPageHandler publishes pages through the page service.
type PublishPageHandler struct {
	inner *commands.Handler[PublishPageCommand]
}

// NewPublishPageHandler constructs the publish handler.
func NewPublishPageHandler(service pages.Service, logger interfaces.Logger, sink ReportSink, opts ...commands.HandlerOption[PublishPageCommand]) *PublishPageHandler {
	logger = logging.Ensure(logger)
	exec := func(ctx context.Context, msg PublishPageCommand) error {
		_, report, err := service.Publish(ctx, msg.PageID)
		emit(sink, msg.PageID, report)
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishPageCommand]{
		commands.WithLogger[PublishPageCommand](logger),
		commands.WithOperation[PublishPageCommand]("pages.publish"),
		commands.WithMessageFields(func(msg PublishPageCommand) map[string]any { return pageFields(msg.PageID) }),
		commands.WithTelemetry(commands.DefaultTelemetry[PublishPageCommand](logger)),
	}
	return &PublishPageHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[PublishPageCommand].
func (h *PublishPageHandler) Execute(ctx context.Context, msg PublishPageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UnpublishPageHandler returns pages to draft.
type UnpublishPageHandler struct {
	inner *commands.Handler[UnpublishPageCommand]
}

// NewUnpublishPageHandler constructs the unpublish handler.
func NewUnpublishPageHandler(service pages.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UnpublishPageCommand]) *UnpublishPageHandler {
	logger = logging.Ensure(logger)
	exec := func(ctx context.Context, msg UnpublishPageCommand) error {
		_, err := service.Unpublish(ctx, msg.PageID)
		return err
	}

	handlerOpts := []commands.HandlerOption[UnpublishPageCommand]{
		commands.WithLogger[UnpublishPageCommand](logger),
		commands.WithOperation[UnpublishPageCommand]("pages.unpublish"),
		commands.WithMessageFields(func(msg UnpublishPageCommand) map[string]any { return pageFields(msg.PageID) }),
	}
	return &UnpublishPageHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[UnpublishPageCommand].
func (h *UnpublishPageHandler) Execute(ctx context.Context, msg UnpublishPageCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SaveContentHandler stores page content and reports its validation result.
type SaveContentHandler struct {
	inner *commands.Handler[SaveContentCommand]
}

// NewSaveContentHandler constructs the save handler.
func NewSaveContentHandler(service pages.Service, logger interfaces.Logger, sink ReportSink, opts ...commands.HandlerOption[SaveContentCommand]) *SaveContentHandler {
	logger = logging.Ensure(logger)
	exec := func(ctx context.Context, msg SaveContentCommand) error {
		_, report, err := service.SaveContent(ctx, pages.SaveContentInput{
			PageID:  msg.PageID,
			Content: msg.Content,
		})
		emit(sink, msg.PageID, report)
		return err
	}

	handlerOpts := []commands.HandlerOption[SaveContentCommand]{
		commands.WithLogger[SaveContentCommand](logger),
		commands.WithOperation[SaveContentCommand]("pages.save_content"),
		commands.WithMessageFields(func(msg SaveContentCommand) map[string]any { return pageFields(msg.PageID) }),
		commands.WithTelemetry(commands.DefaultTelemetry[SaveContentCommand](logger)),
	}
	return &SaveContentHandler{inner: commands.NewHandler(exec, append(handlerOpts, opts...)...)}
}

// Execute satisfies command.Commander[SaveContentCommand].
func (h *SaveContentHandler) Execute(ctx context.Context, msg SaveContentCommand) error {
	return h.inner.Execute(ctx, msg)
}
