package storage

import "github.com/madisonpark/carzo-sub002/pkg/models"

// VehicleWriter is the interface the feed-sync job writes through.
type VehicleWriter interface {
	Upsert(listings []models.Listing) (int, error)
	MarkInactiveExcept(vins []string) (int, error)
	Close() error
}
