package handlers

import (
	"context"

	"github.com/TourHive/booking-flow-backend/internal/store"
	"github.com/TourHive/booking-flow-backend/types"
)

// SchemaProvider yields the field schema for a package. Satisfied by the
// schema cache.
type SchemaProvider interface {
	Get(ctx context.Context, prodNo, pkgNo, itemNo string) (*types.FieldSchema, error)
}

// BookingSubmitter runs a submission attempt over a shippable payload.
// Satisfied by the orchestrator.
type BookingSubmitter interface {
	Submit(ctx context.Context, payload map[string]store.FieldValue) *types.SubmitOutcome
}
