package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/madisonpark/carzo-sub002/pkg/models"
)

// PostgresWriter persists normalized feed vehicles into the listings table.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection, verifies it with retries, and ensures
// the schema exists.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			id          SERIAL PRIMARY KEY,
			vin         VARCHAR(17)   UNIQUE NOT NULL,
			dealer_id   VARCHAR(64)   NOT NULL,
			dealer_name TEXT          NOT NULL DEFAULT '',
			make        VARCHAR(64)   NOT NULL,
			model       VARCHAR(64)   NOT NULL,
			year        INT           NOT NULL DEFAULT 0,
			price       NUMERIC(12,2) NOT NULL DEFAULT 0,
			mileage     INT           NOT NULL DEFAULT 0,
			body_style  VARCHAR(64)   NOT NULL DEFAULT '',
			city        TEXT          NOT NULL DEFAULT '',
			state       VARCHAR(2)    NOT NULL DEFAULT '',
			latitude    NUMERIC(9,6)  NOT NULL DEFAULT 0,
			longitude   NUMERIC(9,6)  NOT NULL DEFAULT 0,
			image_url   TEXT          NOT NULL DEFAULT '',
			active      BOOLEAN       NOT NULL DEFAULT TRUE,
			updated_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_listings_dealer     ON listings(dealer_id);
		CREATE INDEX IF NOT EXISTS idx_listings_make       ON listings(make);
		CREATE INDEX IF NOT EXISTS idx_listings_body_style ON listings(body_style);
		CREATE INDEX IF NOT EXISTS idx_listings_state      ON listings(state);
	`)
	return err
}

// Upsert batch-upserts listings keyed by VIN and returns the row count
// written. Re-synced vehicles are reactivated and refreshed in place.
func (pw *PostgresWriter) Upsert(listings []models.Listing) (int, error) {
	if len(listings) == 0 {
		return 0, nil
	}

	const batchSize = 50
	total := 0
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		if err := pw.upsertBatch(listings[i:end]); err != nil {
			return total, err
		}
		total += end - i
	}
	return total, nil
}

func (pw *PostgresWriter) upsertBatch(batch []models.Listing) error {
	const cols = 14
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, l := range batch {
		base := idx * cols
		placeholders := make([]string, cols)
		for j := 0; j < cols; j++ {
			placeholders[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.VIN, l.DealerID, l.DealerName, l.Make, l.Model, l.Year,
			l.Price, l.Mileage, l.BodyStyle, l.City, l.State,
			l.Latitude, l.Longitude, l.ImageURL)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (vin, dealer_id, dealer_name, make, model, year,
			price, mileage, body_style, city, state, latitude, longitude, image_url)
		VALUES %s
		ON CONFLICT (vin) DO UPDATE SET
			dealer_id   = EXCLUDED.dealer_id,
			dealer_name = EXCLUDED.dealer_name,
			price       = EXCLUDED.price,
			mileage     = EXCLUDED.mileage,
			city        = EXCLUDED.city,
			state       = EXCLUDED.state,
			latitude    = EXCLUDED.latitude,
			longitude   = EXCLUDED.longitude,
			image_url   = EXCLUDED.image_url,
			active      = TRUE,
			updated_at  = NOW()
	`, strings.Join(valueStrings, ","))

	if _, err := pw.db.Exec(query, valueArgs...); err != nil {
		return fmt.Errorf("postgres: upsert batch: %w", err)
	}
	return nil
}

// MarkInactiveExcept deactivates listings whose VIN is absent from the
// current feed snapshot, returning how many rows were flipped.
func (pw *PostgresWriter) MarkInactiveExcept(vins []string) (int, error) {
	if len(vins) == 0 {
		res, err := pw.db.Exec(`UPDATE listings SET active = FALSE WHERE active`)
		if err != nil {
			return 0, fmt.Errorf("postgres: mark inactive: %w", err)
		}
		n, _ := res.RowsAffected()
		return int(n), nil
	}

	res, err := pw.db.Exec(
		`UPDATE listings SET active = FALSE WHERE active AND NOT (vin = ANY($1))`,
		pq.Array(vins),
	)
	if err != nil {
		return 0, fmt.Errorf("postgres: mark inactive: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}

// Close closes the underlying connection pool.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
