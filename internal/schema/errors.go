package schema

import "errors"

var (
	ErrSchemaDecode       = errors.New("schema: config schema is not valid JSON")
	ErrDefinitionInvalid  = errors.New("schema: definition invalid")
	ErrDocumentInvalid    = errors.New("schema: config schema document invalid")
	ErrUnknownFieldType   = errors.New("schema: unknown field type")
	ErrDuplicateKey       = errors.New("schema: duplicate key")
	ErrBoundsOutOfOrder   = errors.New("schema: minimum exceeds maximum")
	ErrSectionKeyRequired = errors.New("schema: section key required")
	ErrFieldKeyRequired   = errors.New("schema: field key required")
)
