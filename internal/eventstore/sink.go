package eventstore

import "context"

// Sink appends emitted events to a store and keeps a projection current.
type Sink struct {
	store      Store
	projection *RunHistoryProjection
}

// NewSink creates a sink. projection may be nil.
func NewSink(store Store, projection *RunHistoryProjection) *Sink {
	return &Sink{store: store, projection: projection}
}

// Emit stores ev and applies it to the projection once stored.
func (s *Sink) Emit(ctx context.Context, ev Event) error {
	if err := s.store.Append(ctx, ev); err != nil {
		return err
	}
	if s.projection != nil {
		s.projection.Apply(ev)
	}
	return nil
}
