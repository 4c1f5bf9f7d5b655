package eventstore

import (
	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
)

// Sentinel errors for event store operations. Wrapped errors keep the same
// category and message, so errors.Is matches them.
var (
	// ErrDatabaseOpenFailed indicates the SQLite database could not be opened.
	ErrDatabaseOpenFailed = errors.EventStoreError("could not open event store database").Build()

	// ErrInitializeSchemaFailed indicates the database schema could not be initialized.
	ErrInitializeSchemaFailed = errors.EventStoreError("failed to initialize event store schema").Build()

	// ErrEventAppendFailed indicates appending an event failed.
	ErrEventAppendFailed = errors.EventStoreError("failed to append event to store").Build()

	// ErrEventQueryFailed indicates querying events failed.
	ErrEventQueryFailed = errors.EventStoreError("failed to query events from store").Build()

	// ErrMarshalPayloadFailed indicates JSON marshaling of an event payload failed.
	ErrMarshalPayloadFailed = errors.EventStoreError("failed to marshal event payload").Build()
)

func wrap(err error, sentinel *errors.ClassifiedError) *errors.ErrorBuilder {
	return errors.WrapError(err, sentinel.Category(), sentinel.Message())
}
