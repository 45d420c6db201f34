package audit

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// LogSink appends audit entries as structured log events. This is the
// reference durability level; deployments needing a queryable trail use
// PGSink instead.
type LogSink struct {
	logger zerolog.Logger
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(_ context.Context, entry Entry) error {
	before, _ := json.Marshal(entry.Before)
	after, _ := json.Marshal(entry.After)

	s.logger.Info().
		Str("type", "audit").
		Str("audit_id", entry.ID.String()).
		Str("action", entry.Action).
		Str("entity_type", entry.EntityType).
		Str("entity_id", entry.EntityID.String()).
		Str("org_id", entry.OrgID.String()).
		Str("actor_id", entry.ActorID).
		RawJSON("before", before).
		RawJSON("after", after).
		Time("recorded", entry.Recorded).
		Msg("entity_mutation")

	return nil
}
