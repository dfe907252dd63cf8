package pagescmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-pagebuilder/internal/content"
)

const (
	validatePageMessageType  = "pagebuilder.pages.validate"
	publishPageMessageType   = "pagebuilder.pages.publish"
	unpublishPageMessageType = "pagebuilder.pages.unpublish"
	saveContentMessageType   = "pagebuilder.pages.save_content"
)

// ValidatePageCommand runs the validation engine over a stored page.
type ValidatePageCommand struct {
	PageID uuid.UUID `json:"page_id"`
}

func (ValidatePageCommand) Type() string { return validatePageMessageType }

func (m ValidatePageCommand) Validate() error {
	return requirePageID(m.PageID, validatePageMessageType)
}

// PublishPageCommand publishes a page. Invalid content blocks publication.
type PublishPageCommand struct {
	PageID uuid.UUID `json:"page_id"`
}

func (PublishPageCommand) Type() string { return publishPageMessageType }

func (m PublishPageCommand) Validate() error {
	return requirePageID(m.PageID, publishPageMessageType)
}

// UnpublishPageCommand returns a page to draft.
type UnpublishPageCommand struct {
	PageID uuid.UUID `json:"page_id"`
}

func (UnpublishPageCommand) Type() string { return unpublishPageMessageType }

func (m UnpublishPageCommand) Validate() error {
	return requirePageID(m.PageID, unpublishPageMessageType)
}

// SaveContentCommand replaces the content of a page.
type SaveContentCommand struct {
	PageID  uuid.UUID       `json:"page_id"`
	Content content.Content `json:"content"`
}

func (SaveContentCommand) Type() string { return saveContentMessageType }

func (m SaveContentCommand) Validate() error {
	errs := validation.Errors{}
	if m.PageID == uuid.Nil {
		errs["page_id"] = validation.NewError(saveContentMessageType+".page_id_required", "page_id is required")
	}
	if m.Content == nil {
		errs["content"] = validation.NewError(saveContentMessageType+".content_required", "content is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func requirePageID(id uuid.UUID, messageType string) error {
	if id == uuid.Nil {
		return validation.Errors{
			"page_id": validation.NewError(messageType+".page_id_required", "page_id is required"),
		}
	}
	return nil
}
