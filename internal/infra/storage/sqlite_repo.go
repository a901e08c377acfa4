package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lmedrano/pulso/internal/content"
	"github.com/lmedrano/pulso/internal/domain/pulse"
)

// SQLiteJournalRepository implements JournalRepository for SQLite.
type SQLiteJournalRepository struct {
	db *sql.DB
}

func NewSQLiteJournalRepository(db *sql.DB) *SQLiteJournalRepository {
	return &SQLiteJournalRepository{db: db}
}

func (r *SQLiteJournalRepository) Append(ctx context.Context, entry JournalEntry) error {
	payloadBytes, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO journal_entries (id, session_id, timestamp, entry_type, turn, phase, payload, narration)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		entry.ID, entry.SessionID, entry.Timestamp, entry.EntryType,
		entry.Turn, entry.Phase, string(payloadBytes), entry.Narration,
	)
	if err != nil {
		return fmt.Errorf("failed to append journal entry: %w", err)
	}
	return nil
}

func (r *SQLiteJournalRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]JournalEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []JournalEntry
	for rows.Next() {
		var e JournalEntry
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.SessionID, &e.Timestamp, &e.EntryType,
			&e.Turn, &e.Phase, &payloadStr, &e.Narration,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *SQLiteJournalRepository) GetBySessionID(ctx context.Context, sessionID string) ([]JournalEntry, error) {
	query := `SELECT id, session_id, timestamp, entry_type, turn, phase, payload, narration FROM journal_entries WHERE session_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID)
}

func (r *SQLiteJournalRepository) GetBySessionTurn(ctx context.Context, sessionID string, turn int) ([]JournalEntry, error) {
	query := `SELECT id, session_id, timestamp, entry_type, turn, phase, payload, narration FROM journal_entries WHERE session_id = ? AND turn = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, turn)
}

func (r *SQLiteJournalRepository) GetByEntryType(ctx context.Context, sessionID string, entryType string) ([]JournalEntry, error) {
	query := `SELECT id, session_id, timestamp, entry_type, turn, phase, payload, narration FROM journal_entries WHERE session_id = ? AND entry_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, sessionID, entryType)
}

func (r *SQLiteJournalRepository) SetNarration(ctx context.Context, entryID string, narration string) error {
	query := `UPDATE journal_entries SET narration = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, narration, entryID)
	return err
}

// ---------------------------------------------------------
// SQLiteCityRepository
// ---------------------------------------------------------

// SQLiteCityRepository implements CityRepository (and therefore
// content.Provider) over the reference tables.
type SQLiteCityRepository struct {
	db *sql.DB
}

func NewSQLiteCityRepository(db *sql.DB) *SQLiteCityRepository {
	return &SQLiteCityRepository{db: db}
}

func (r *SQLiteCityRepository) UpsertCity(ctx context.Context, profile content.CityProfile) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	cityQuery := `
		INSERT INTO cities (id, name, region, political_cover, federal_cooperation, police_presence, legal_support, media_attention)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name=excluded.name,
			region=excluded.region,
			political_cover=excluded.political_cover,
			federal_cooperation=excluded.federal_cooperation,
			police_presence=excluded.police_presence,
			legal_support=excluded.legal_support,
			media_attention=excluded.media_attention
	`
	_, err = tx.ExecContext(ctx, cityQuery,
		profile.ID, profile.Name, profile.Region,
		profile.Pulse.PoliticalCover, profile.Pulse.FederalCooperation,
		profile.Pulse.PolicePresence, profile.Pulse.LegalSupport, profile.Pulse.MediaAttention,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert city %s: %w", profile.ID, err)
	}

	// Replace the neighborhood set wholesale; profiles are small.
	if _, err := tx.ExecContext(ctx, `DELETE FROM neighborhoods WHERE city_id = ?`, profile.ID); err != nil {
		return fmt.Errorf("failed to clear neighborhoods for %s: %w", profile.ID, err)
	}
	nbQuery := `
		INSERT INTO neighborhoods (id, city_id, position, name, trust, community_density, checkpoint_activity, rumor_level, solidarity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, n := range profile.Neighborhoods {
		_, err := tx.ExecContext(ctx, nbQuery,
			n.ID, profile.ID, i, n.Name,
			n.Pulse.Trust, n.Pulse.CommunityDensity, n.Pulse.CheckpointActivity,
			n.Pulse.RumorLevel, n.Pulse.Solidarity,
		)
		if err != nil {
			return fmt.Errorf("failed to insert neighborhood %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteCityRepository) GetCityWithNeighborhoods(ctx context.Context, id string) (*content.CityProfile, error) {
	cityQuery := `SELECT id, name, region, political_cover, federal_cooperation, police_presence, legal_support, media_attention FROM cities WHERE id = ?`

	var p content.CityProfile
	err := r.db.QueryRowContext(ctx, cityQuery, id).Scan(
		&p.ID, &p.Name, &p.Region,
		&p.Pulse.PoliticalCover, &p.Pulse.FederalCooperation,
		&p.Pulse.PolicePresence, &p.Pulse.LegalSupport, &p.Pulse.MediaAttention,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, content.ErrCityNotFound
		}
		return nil, err
	}

	nbQuery := `SELECT id, name, trust, community_density, checkpoint_activity, rumor_level, solidarity FROM neighborhoods WHERE city_id = ? ORDER BY position ASC`
	rows, err := r.db.QueryContext(ctx, nbQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var n content.NeighborhoodProfile
		var np pulse.NeighborhoodPulse
		if err := rows.Scan(&n.ID, &n.Name, &np.Trust, &np.CommunityDensity, &np.CheckpointActivity, &np.RumorLevel, &np.Solidarity); err != nil {
			return nil, err
		}
		n.Pulse = np
		p.Neighborhoods = append(p.Neighborhoods, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteCityRepository) ListCities(ctx context.Context) ([]content.CitySummary, error) {
	query := `
		SELECT c.id, c.name, c.region, COUNT(n.id)
		FROM cities c
		LEFT JOIN neighborhoods n ON n.city_id = c.id
		GROUP BY c.id, c.name, c.region
		ORDER BY c.name ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []content.CitySummary
	for rows.Next() {
		var s content.CitySummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Region, &s.Neighborhoods); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

func (r *SQLiteCityRepository) DeleteCity(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM neighborhoods WHERE city_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM cities WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return content.ErrCityNotFound
	}
	return tx.Commit()
}
