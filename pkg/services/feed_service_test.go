package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/madisonpark/carzo-sub002/pkg/models"
)

// fakeWriter records what the sync run asked to persist.
type fakeWriter struct {
	upserted []models.Listing
	keptVINs []string
}

func (f *fakeWriter) Upsert(listings []models.Listing) (int, error) {
	f.upserted = listings
	return len(listings), nil
}

func (f *fakeWriter) MarkInactiveExcept(vins []string) (int, error) {
	f.keptVINs = vins
	return 2, nil
}

func (f *fakeWriter) Close() error { return nil }

func feedVehicle(vin, dealer string) models.RawFeedVehicle {
	return models.RawFeedVehicle{
		VIN: vin, DealerID: dealer, Make: "Toyota", Model: "Camry",
		Year: "2021", Price: "$24,500", Mileage: "31,000", BodyStyle: "Sedan",
		City: "Dallas", State: "tx",
	}
}

func TestNormalizeDropsAndDedupes(t *testing.T) {
	s := NewFeedService("", time.Second, &fakeWriter{})

	raw := []models.RawFeedVehicle{
		feedVehicle("1HGCM82633A004352", "d-100"),
		{VIN: "", DealerID: "d-100"},
		{VIN: "JH4KA7561PC008269", DealerID: ""},
		feedVehicle("1hgcm82633a004352", "d-200"), // same VIN, lowercased
		feedVehicle("2HGFA16508H000000", "d-300"),
	}

	clean, dropped, dupes := s.Normalize(raw)
	assert.Len(t, clean, 2)
	assert.Equal(t, 2, dropped)
	assert.Equal(t, 1, dupes)

	first := clean[0]
	assert.Equal(t, "1HGCM82633A004352", first.VIN)
	assert.Equal(t, "d-100", first.DealerID, "first occurrence of a VIN wins")
	assert.Equal(t, 2021, first.Year)
	assert.Equal(t, 24500.0, first.Price)
	assert.Equal(t, 31000, first.Mileage)
	assert.Equal(t, "sedan", first.BodyStyle)
	assert.Equal(t, "TX", first.State)
	assert.True(t, first.Active)
}

func TestNormalizeBadNumbersBecomeZero(t *testing.T) {
	s := NewFeedService("", time.Second, &fakeWriter{})

	raw := []models.RawFeedVehicle{{
		VIN: "1HGCM82633A004352", DealerID: "d-100",
		Year: "new", Price: "call for price", Mileage: "-5",
	}}

	clean, dropped, _ := s.Normalize(raw)
	assert.Len(t, clean, 1)
	assert.Equal(t, 0, dropped)
	assert.Equal(t, 0, clean[0].Year)
	assert.Equal(t, 0.0, clean[0].Price)
	assert.Equal(t, 0, clean[0].Mileage)
}

func TestSyncEndToEnd(t *testing.T) {
	feed := []models.RawFeedVehicle{
		feedVehicle("1HGCM82633A004352", "d-100"),
		feedVehicle("2HGFA16508H000000", "d-200"),
		{VIN: "", DealerID: "d-300"},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(feed)
	}))
	defer srv.Close()

	writer := &fakeWriter{}
	s := NewFeedService(srv.URL, 2*time.Second, writer)

	report, err := s.Sync(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, report.TotalRecords)
	assert.Equal(t, 2, report.Upserted)
	assert.Equal(t, 1, report.Dropped)
	assert.Equal(t, 0, report.Duplicates)
	assert.Equal(t, 2, report.MarkedInactive)

	assert.Len(t, writer.upserted, 2)
	assert.Equal(t, []string{"1HGCM82633A004352", "2HGFA16508H000000"}, writer.keptVINs)
}

func TestSyncFeedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "feed unavailable", http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewFeedService(srv.URL, 2*time.Second, &fakeWriter{})
	_, err := s.Sync(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
