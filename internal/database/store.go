package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for database operations. Methods accept
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// FindFarmer retrieves a farmer profile by name (case-insensitive).
	// Returns nil, nil if not found.
	FindFarmer(ctx context.Context, name string) (*Farmer, error)

	// SaveFarmer inserts or updates a farmer profile after sanitizing it.
	SaveFarmer(ctx context.Context, farmer *Farmer) error

	// ListFarmers retrieves all farmer profiles ordered by name.
	ListFarmers(ctx context.Context) ([]Farmer, error)

	// AppendInteraction appends one advisory turn to the interaction log.
	AppendInteraction(ctx context.Context, rec *Interaction) error

	// GetInteractions retrieves the most recent 'limit' interactions for a
	// farmer, newest first.
	GetInteractions(ctx context.Context, farmerName string, limit int) ([]Interaction, error)

	// RunSQLMaintenance performs database maintenance tasks like VACUUM.
	RunSQLMaintenance(ctx context.Context) error
}

// sqlxStore provides an implementation of the Store interface using sqlx.
type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store implementation backed by sqlx.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

// Ping checks the database connection.
func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// FindFarmer retrieves a farmer profile by name. The name column is declared
// COLLATE NOCASE, so lookups are case-insensitive.
func (s *sqlxStore) FindFarmer(ctx context.Context, name string) (*Farmer, error) {
	if name == "" {
		return nil, ErrEmptyFarmerName
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var farmer Farmer
	query := `SELECT id, name, chat_id, language, latitude, longitude, soil_type, farm_size_ha, created_at, updated_at
	          FROM farmers WHERE name = ?`

	err := s.db.GetContext(ctx, &farmer, query, name)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.logger.DebugContext(ctx, "No farmer profile found", "name", name)
		return nil, nil

	case err != nil:
		s.logger.ErrorContext(ctx, "Error getting farmer profile", "name", name, "error", err)
		return nil, fmt.Errorf("failed to get farmer profile %q: %w", name, err)
	}

	return &farmer, nil
}

// SaveFarmer inserts or updates a farmer profile keyed by name.
func (s *sqlxStore) SaveFarmer(ctx context.Context, farmer *Farmer) error {
	if farmer == nil {
		return fmt.Errorf("cannot save nil farmer profile")
	}
	if err := farmer.Sanitize(); err != nil {
		return err
	}

	now := time.Now().UTC()
	farmer.UpdatedAt = now
	if farmer.CreatedAt.IsZero() {
		farmer.CreatedAt = now
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for saving farmer",
			"name", farmer.Name, "error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if tx != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				if !errors.Is(rollbackErr, sql.ErrTxDone) {
					s.logger.WarnContext(ctx, "Error rolling back transaction", "error", rollbackErr)
				}
			}
		}
	}()

	var exists bool
	err = tx.GetContext(ctx, &exists, `SELECT 1 FROM farmers WHERE name = ? LIMIT 1`, farmer.Name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.ErrorContext(ctx, "Error checking if farmer exists", "name", farmer.Name, "error", err)
		return fmt.Errorf("failed to check if farmer %q exists: %w", farmer.Name, err)
	}

	var result sql.Result
	if exists {
		query := `
			UPDATE farmers SET
				chat_id = :chat_id,
				language = :language,
				latitude = :latitude,
				longitude = :longitude,
				soil_type = :soil_type,
				farm_size_ha = :farm_size_ha,
				updated_at = :updated_at
			WHERE name = :name
		`
		result, err = tx.NamedExecContext(ctx, query, farmer)
	} else {
		query := `
			INSERT INTO farmers (
				name, chat_id, language, latitude, longitude, soil_type, farm_size_ha, created_at, updated_at
			) VALUES (
				:name, :chat_id, :language, :latitude, :longitude, :soil_type, :farm_size_ha, :created_at, :updated_at
			)
		`
		result, err = tx.NamedExecContext(ctx, query, farmer)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Error saving farmer profile", "name", farmer.Name, "error", err)
		return fmt.Errorf("failed to save farmer profile %q: %w", farmer.Name, err)
	}

	if !exists {
		if id, idErr := result.LastInsertId(); idErr == nil {
			//nolint:gosec // integer overflow conversion is acceptable here
			farmer.ID = uint(id)
		} else {
			s.logger.WarnContext(ctx, "Could not get last insert ID for farmer",
				"name", farmer.Name, "error", idErr)
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit transaction", "name", farmer.Name, "error", err)
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil

	operation := "updated"
	if !exists {
		operation = "created"
	}
	s.logger.DebugContext(ctx, "Farmer profile saved successfully",
		"operation", operation, "name", farmer.Name)

	return nil
}

// ListFarmers retrieves all farmer profiles ordered by name.
func (s *sqlxStore) ListFarmers(ctx context.Context) ([]Farmer, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var farmers []Farmer
	query := `SELECT id, name, chat_id, language, latitude, longitude, soil_type, farm_size_ha, created_at, updated_at
	          FROM farmers ORDER BY name ASC`

	if err := s.db.SelectContext(ctx, &farmers, query); err != nil {
		s.logger.ErrorContext(ctx, "Error listing farmer profiles", "error", err)
		return nil, fmt.Errorf("failed to list farmer profiles: %w", err)
	}

	return farmers, nil
}

// AppendInteraction appends one advisory turn to the interaction log.
func (s *sqlxStore) AppendInteraction(ctx context.Context, rec *Interaction) error {
	if rec == nil {
		return fmt.Errorf("cannot append nil interaction")
	}
	if rec.FarmerName == "" {
		return fmt.Errorf("interaction must have a farmer name")
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	query := `
        INSERT INTO interactions (timestamp, farmer_name, language, query, response, internal_prompt)
        VALUES (:timestamp, :farmer_name, :language, :query, :response, :internal_prompt);
    `

	result, err := s.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		s.logger.ErrorContext(ctx, "Error appending interaction",
			"farmer_name", rec.FarmerName, "error", err)
		return fmt.Errorf("failed to append interaction for %q: %w", rec.FarmerName, err)
	}

	if id, idErr := result.LastInsertId(); idErr == nil {
		//nolint:gosec // integer overflow conversion is acceptable here
		rec.ID = uint(id)
	}

	s.logger.DebugContext(ctx, "Interaction appended", "farmer_name", rec.FarmerName, "id", rec.ID)
	return nil
}

// GetInteractions retrieves the most recent 'limit' interactions for a
// farmer, newest first.
func (s *sqlxStore) GetInteractions(ctx context.Context, farmerName string, limit int) ([]Interaction, error) {
	if farmerName == "" {
		return nil, ErrEmptyFarmerName
	}

	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var interactions []Interaction
	query := `
        SELECT id, timestamp, farmer_name, language, query, response, internal_prompt
        FROM interactions
        WHERE farmer_name = ?
        ORDER BY timestamp DESC, id DESC
        LIMIT ?;
    `

	if err := s.db.SelectContext(ctx, &interactions, query, farmerName, limit); err != nil {
		s.logger.ErrorContext(ctx, "Error getting interactions",
			"farmer_name", farmerName, "limit", limit, "error", err)
		return nil, fmt.Errorf("failed to get interactions for %q: %w", farmerName, err)
	}

	return interactions, nil
}

// RunSQLMaintenance executes a VACUUM command on the SQLite database.
func (s *sqlxStore) RunSQLMaintenance(ctx context.Context) error {
	if ctx.Err() != nil {
		s.logger.WarnContext(ctx, "Context cancelled before starting VACUUM", "error", ctx.Err())
		return ctx.Err()
	}

	s.logger.InfoContext(ctx, "Starting database maintenance (VACUUM)...")

	// VACUUM must run outside a transaction in SQLite.
	_, err := s.db.ExecContext(ctx, "VACUUM;")

	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled):
		s.logger.WarnContext(ctx, "VACUUM operation timed out or was cancelled", "error", err)
		return fmt.Errorf("database maintenance (VACUUM) timed out: %w", err)

	case err != nil:
		s.logger.ErrorContext(ctx, "Database maintenance (VACUUM) failed", "error", err)
		return fmt.Errorf("failed to execute VACUUM: %w", err)
	}

	s.logger.InfoContext(ctx, "Database maintenance (VACUUM) completed successfully")
	return nil
}
