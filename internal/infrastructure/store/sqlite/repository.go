// Package sqlite provides the SQLite implementation of the Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/kmargell/insight-core/internal/domain/entities"
	"github.com/kmargell/insight-core/internal/infrastructure/config"
)

// timeNow returns the current time (can be mocked in tests).
var timeNow = time.Now

// Repository implements ports.Store using SQLite. The three composite
// operations (insight cascade, category detach, relationship pair) run
// inside real transactions, so a half-applied composite can never be
// observed; *entities.PartialPairError is reserved for Store
// implementations without that guarantee.
type Repository struct {
	db    *sql.DB
	path  string
	ready bool
}

// NewRepository opens the SQLite database. The store stays unusable until
// Init has succeeded.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	r.ready = false
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// Init creates the schema and seeds the default categories when the
// category collection is empty. Failure leaves the store unusable: every
// other operation returns entities.ErrNotInitialized.
func (r *Repository) Init(ctx context.Context) error {
	schema := `
	-- Captured notes
	CREATE TABLE IF NOT EXISTS insights (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		tags TEXT NOT NULL DEFAULT '[]',
		category_id TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_insights_category ON insights(category_id);

	-- Named labels, unique case-insensitively
	CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		normalized_name TEXT NOT NULL UNIQUE,
		color TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	-- Directed, typed, weighted edges between insight ids
	CREATE TABLE IF NOT EXISTS relationships (
		id TEXT PRIMARY KEY,
		source_id TEXT NOT NULL,
		target_id TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		strength REAL NOT NULL DEFAULT 1.0,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_source ON relationships(source_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_target ON relationships(target_id);

	-- Opaque key/value pairs (tagged variant values)
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	-- Change log (tracks all mutations)
	CREATE TABLE IF NOT EXISTS change_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		action TEXT NOT NULL,
		entity_id TEXT,
		details TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_change_log_entity ON change_log(entity_id);
	CREATE INDEX IF NOT EXISTS idx_change_log_action ON change_log(action);
	`

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	if err := r.seedDefaultCategories(ctx); err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}

	r.ready = true
	return nil
}

// seedDefaultCategories inserts the default categories when the table is
// empty, so a wiped store comes back with the standard four.
func (r *Repository) seedDefaultCategories(ctx context.Context) error {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range entities.DefaultCategories {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO categories (id, name, normalized_name, color, icon, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			uuid.New().String(), c.Name, entities.NormalizeName(c.Name), c.Color, c.Icon, timeNow(),
		)
		if err != nil {
			return fmt.Errorf("inserting category %s: %w", c.Name, err)
		}
	}
	return nil
}

func (r *Repository) guard() error {
	if !r.ready {
		return entities.ErrNotInitialized
	}
	return nil
}

// Insight operations

// SaveInsight inserts or updates an insight.
func (r *Repository) SaveInsight(ctx context.Context, ins *entities.Insight) error {
	if err := r.guard(); err != nil {
		return err
	}

	tags, err := json.Marshal(ins.Tags)
	if err != nil {
		return fmt.Errorf("marshaling tags: %w", err)
	}

	query := `
		INSERT INTO insights (id, title, content, tags, category_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			tags = excluded.tags,
			category_id = excluded.category_id,
			updated_at = excluded.updated_at
	`
	_, err = r.db.ExecContext(ctx, query,
		ins.ID,
		ins.Title,
		ins.Content,
		string(tags),
		nullString(ins.CategoryID),
		ins.CreatedAt,
		nullTime(ins.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("saving insight: %w", err)
	}
	return nil
}

// FindInsightByID finds an insight by its ID, returning nil when absent.
func (r *Repository) FindInsightByID(ctx context.Context, id string) (*entities.Insight, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, title, content, tags, category_id, created_at, updated_at
		FROM insights
		WHERE id = ?
	`, id)

	ins, err := scanInsightRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ins, nil
}

// ListInsights lists all insights.
func (r *Repository) ListInsights(ctx context.Context) ([]*entities.Insight, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	return r.queryInsights(ctx, `
		SELECT id, title, content, tags, category_id, created_at, updated_at
		FROM insights
	`)
}

// SearchInsights matches title, content or tags case-insensitively.
func (r *Repository) SearchInsights(ctx context.Context, query string, limit int) ([]*entities.Insight, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	pattern := "%" + query + "%"
	return r.queryInsights(ctx, `
		SELECT id, title, content, tags, category_id, created_at, updated_at
		FROM insights
		WHERE title LIKE ? COLLATE NOCASE
		   OR content LIKE ? COLLATE NOCASE
		   OR tags LIKE ? COLLATE NOCASE
		ORDER BY created_at DESC
		LIMIT ?
	`, pattern, pattern, pattern, limit)
}

// DeleteInsightCascade removes the insight and every relationship where it
// appears as source or target, in one transaction.
func (r *Repository) DeleteInsightCascade(ctx context.Context, id string) error {
	if err := r.guard(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM relationships WHERE source_id = ? OR target_id = ?`, id, id); err != nil {
		return &entities.CascadeError{Op: "insight.delete", ID: id, Err: err}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM insights WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting insight: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("insight %s: %w", id, entities.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return &entities.CascadeError{Op: "insight.delete", ID: id, Err: err}
	}
	return nil
}

// CountInsights returns the total number of insights.
func (r *Repository) CountInsights(ctx context.Context) (int, error) {
	if err := r.guard(); err != nil {
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM insights`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting insights: %w", err)
	}
	return count, nil
}

// ClearInsights empties the insight collection.
func (r *Repository) ClearInsights(ctx context.Context) error {
	return r.clearTable(ctx, "insights")
}

// ClearRelationships empties the relationship collection.
func (r *Repository) ClearRelationships(ctx context.Context) error {
	return r.clearTable(ctx, "relationships")
}

// ClearCategories empties the category collection.
func (r *Repository) ClearCategories(ctx context.Context) error {
	return r.clearTable(ctx, "categories")
}

// ClearSettings empties the settings collection.
func (r *Repository) ClearSettings(ctx context.Context) error {
	return r.clearTable(ctx, "settings")
}

func (r *Repository) clearTable(ctx context.Context, table string) error {
	if err := r.guard(); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
		return fmt.Errorf("clearing %s: %w", table, err)
	}
	return nil
}

// queryInsights is a helper to execute insight queries.
func (r *Repository) queryInsights(ctx context.Context, query string, args ...any) ([]*entities.Insight, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying insights: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Insight, 0, 16)
	for rows.Next() {
		ins, err := scanInsightRow(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, ins)
	}
	return result, rows.Err()
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanInsightRow(row rowScanner) (*entities.Insight, error) {
	var ins entities.Insight
	var tags string
	var categoryID sql.NullString
	var updatedAt sql.NullTime

	err := row.Scan(
		&ins.ID,
		&ins.Title,
		&ins.Content,
		&tags,
		&categoryID,
		&ins.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning insight: %w", err)
	}

	if err := json.Unmarshal([]byte(tags), &ins.Tags); err != nil {
		return nil, fmt.Errorf("unmarshaling tags: %w", err)
	}
	if categoryID.Valid {
		ins.CategoryID = &categoryID.String
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		ins.UpdatedAt = &t
	}
	return &ins, nil
}

// Category operations

// SaveCategory inserts or updates a category.
func (r *Repository) SaveCategory(ctx context.Context, cat *entities.Category) error {
	if err := r.guard(); err != nil {
		return err
	}

	query := `
		INSERT INTO categories (id, name, normalized_name, color, icon, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			normalized_name = excluded.normalized_name,
			color = excluded.color,
			icon = excluded.icon
	`
	_, err := r.db.ExecContext(ctx, query,
		cat.ID,
		cat.Name,
		entities.NormalizeName(cat.Name),
		cat.Color,
		cat.Icon,
		cat.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving category: %w", err)
	}
	return nil
}

// FindCategoryByID finds a category by its ID, returning nil when absent.
func (r *Repository) FindCategoryByID(ctx context.Context, id string) (*entities.Category, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	return r.findCategory(ctx, `
		SELECT id, name, color, icon, created_at
		FROM categories
		WHERE id = ?
	`, id)
}

// FindCategoryByName finds a category by its normalized name.
func (r *Repository) FindCategoryByName(ctx context.Context, name string) (*entities.Category, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	return r.findCategory(ctx, `
		SELECT id, name, color, icon, created_at
		FROM categories
		WHERE normalized_name = ?
	`, entities.NormalizeName(name))
}

func (r *Repository) findCategory(ctx context.Context, query string, args ...any) (*entities.Category, error) {
	row := r.db.QueryRowContext(ctx, query, args...)

	var cat entities.Category
	err := row.Scan(&cat.ID, &cat.Name, &cat.Color, &cat.Icon, &cat.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning category: %w", err)
	}
	return &cat, nil
}

// ListCategories lists all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, color, icon, created_at
		FROM categories
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Category, 0, 8)
	for rows.Next() {
		var cat entities.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Color, &cat.Icon, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		result = append(result, &cat)
	}
	return result, rows.Err()
}

// DeleteCategoryDetach rewrites referencing insights with a null category,
// then removes the category record, in one transaction. Detach strictly
// precedes delete so a failure can never leave a dangling reference.
func (r *Repository) DeleteCategoryDetach(ctx context.Context, id string) error {
	if err := r.guard(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE insights SET category_id = NULL WHERE category_id = ?`, id); err != nil {
		return &entities.CascadeError{Op: "category.delete", ID: id, Err: err}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("category %s: %w", id, entities.ErrNotFound)
	}

	if err := tx.Commit(); err != nil {
		return &entities.CascadeError{Op: "category.delete", ID: id, Err: err}
	}
	return nil
}

// CountCategories returns the total number of categories.
func (r *Repository) CountCategories(ctx context.Context) (int, error) {
	if err := r.guard(); err != nil {
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting categories: %w", err)
	}
	return count, nil
}

// Relationship operations

// SaveRelationship inserts or updates a relationship.
func (r *Repository) SaveRelationship(ctx context.Context, rel *entities.Relationship) error {
	if err := r.guard(); err != nil {
		return err
	}
	if err := execSaveRelationship(ctx, r.db, rel); err != nil {
		return fmt.Errorf("saving relationship: %w", err)
	}
	return nil
}

// SaveRelationshipPair writes the forward and reverse edge in one
// transaction; either both edges land or neither does.
func (r *Repository) SaveRelationshipPair(ctx context.Context, forward, reverse *entities.Relationship) error {
	if err := r.guard(); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := execSaveRelationship(ctx, tx, forward); err != nil {
		return fmt.Errorf("saving forward edge: %w", err)
	}
	if err := execSaveRelationship(ctx, tx, reverse); err != nil {
		return fmt.Errorf("saving reverse edge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing relationship pair: %w", err)
	}
	return nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func execSaveRelationship(ctx context.Context, db execer, rel *entities.Relationship) error {
	query := `
		INSERT INTO relationships (id, source_id, target_id, type, description, strength, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source_id = excluded.source_id,
			target_id = excluded.target_id,
			type = excluded.type,
			description = excluded.description,
			strength = excluded.strength
	`
	_, err := db.ExecContext(ctx, query,
		rel.ID,
		rel.SourceID,
		rel.TargetID,
		rel.Type,
		rel.Description,
		rel.Strength,
		rel.CreatedAt,
	)
	return err
}

// FindRelationshipByID finds a relationship by ID, returning nil when absent.
func (r *Repository) FindRelationshipByID(ctx context.Context, id string) (*entities.Relationship, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	rels, err := r.queryRelationships(ctx, `
		SELECT id, source_id, target_id, type, description, strength, created_at
		FROM relationships
		WHERE id = ?
	`, id)
	if err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, nil
	}
	return &rels[0], nil
}

// ListRelationships lists all relationships.
func (r *Repository) ListRelationships(ctx context.Context) ([]entities.Relationship, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	return r.queryRelationships(ctx, `
		SELECT id, source_id, target_id, type, description, strength, created_at
		FROM relationships
		ORDER BY created_at DESC
	`)
}

// FindRelationshipsByInsight finds all relationships where the insight
// appears as source or target.
func (r *Repository) FindRelationshipsByInsight(ctx context.Context, insightID string) ([]entities.Relationship, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	return r.queryRelationships(ctx, `
		SELECT id, source_id, target_id, type, description, strength, created_at
		FROM relationships
		WHERE source_id = ? OR target_id = ?
		ORDER BY created_at DESC
	`, insightID, insightID)
}

// FindRelationshipBetween finds the directed edge from sourceID to
// targetID, returning nil when absent.
func (r *Repository) FindRelationshipBetween(ctx context.Context, sourceID, targetID string) (*entities.Relationship, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	rels, err := r.queryRelationships(ctx, `
		SELECT id, source_id, target_id, type, description, strength, created_at
		FROM relationships
		WHERE source_id = ? AND target_id = ?
		LIMIT 1
	`, sourceID, targetID)
	if err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, nil
	}
	return &rels[0], nil
}

// DeleteRelationship deletes a relationship by ID.
func (r *Repository) DeleteRelationship(ctx context.Context, id string) error {
	if err := r.guard(); err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `DELETE FROM relationships WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting relationship: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("relationship %s: %w", id, entities.ErrNotFound)
	}
	return nil
}

// CountRelationships returns the total number of relationships.
func (r *Repository) CountRelationships(ctx context.Context) (int, error) {
	if err := r.guard(); err != nil {
		return 0, err
	}
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM relationships`).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting relationships: %w", err)
	}
	return count, nil
}

// queryRelationships is a helper to execute relationship queries.
func (r *Repository) queryRelationships(ctx context.Context, query string, args ...any) ([]entities.Relationship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying relationships: %w", err)
	}
	defer rows.Close()

	relationships := make([]entities.Relationship, 0, 16)
	for rows.Next() {
		var rel entities.Relationship
		if err := rows.Scan(
			&rel.ID,
			&rel.SourceID,
			&rel.TargetID,
			&rel.Type,
			&rel.Description,
			&rel.Strength,
			&rel.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}
		relationships = append(relationships, rel)
	}
	return relationships, rows.Err()
}

// Setting operations

// PutSetting inserts or replaces a setting by key.
func (r *Repository) PutSetting(ctx context.Context, key string, value entities.SettingValue) error {
	if err := r.guard(); err != nil {
		return err
	}

	encoded, err := value.Encode()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, key, string(encoded), timeNow()); err != nil {
		return fmt.Errorf("putting setting: %w", err)
	}
	return nil
}

// GetSetting finds a setting by key, returning nil when absent.
func (r *Repository) GetSetting(ctx context.Context, key string) (*entities.Setting, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}

	row := r.db.QueryRowContext(ctx, `SELECT key, value, updated_at FROM settings WHERE key = ?`, key)

	setting, err := scanSetting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return setting, nil
}

// DeleteSetting removes a setting; deleting a missing key is a no-op.
func (r *Repository) DeleteSetting(ctx context.Context, key string) error {
	if err := r.guard(); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting setting: %w", err)
	}
	return nil
}

// ListSettings lists all settings ordered by key.
func (r *Repository) ListSettings(ctx context.Context) ([]*entities.Setting, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT key, value, updated_at FROM settings ORDER BY key ASC`)
	if err != nil {
		return nil, fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Setting, 0, 8)
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, setting)
	}
	return result, rows.Err()
}

func scanSetting(row rowScanner) (*entities.Setting, error) {
	var setting entities.Setting
	var raw string
	err := row.Scan(&setting.Key, &raw, &setting.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning setting: %w", err)
	}

	value, err := entities.DecodeSettingValue([]byte(raw))
	if err != nil {
		return nil, err
	}
	setting.Value = value
	return &setting, nil
}

// Change log

// LogChange appends an entry to the change log.
func (r *Repository) LogChange(ctx context.Context, action, entityID string, details map[string]any) error {
	if err := r.guard(); err != nil {
		return err
	}

	var detailsJSON sql.NullString
	if details != nil {
		data, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshaling details: %w", err)
		}
		detailsJSON = sql.NullString{String: string(data), Valid: true}
	}

	var entityIDPtr sql.NullString
	if entityID != "" {
		entityIDPtr = sql.NullString{String: entityID, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO change_log (action, entity_id, details) VALUES (?, ?, ?)`,
		action, entityIDPtr, detailsJSON); err != nil {
		return fmt.Errorf("logging change: %w", err)
	}
	return nil
}

// FindChanges finds change log entries for a specific entity.
func (r *Repository) FindChanges(ctx context.Context, entityID string) ([]entities.ChangeEntry, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	return r.queryChanges(ctx, `
		SELECT id, action, entity_id, details, created_at
		FROM change_log
		WHERE entity_id = ?
		ORDER BY id DESC
	`, entityID)
}

// FindChangesByAction finds change log entries by action type.
func (r *Repository) FindChangesByAction(ctx context.Context, action string, limit int) ([]entities.ChangeEntry, error) {
	if err := r.guard(); err != nil {
		return nil, err
	}
	return r.queryChanges(ctx, `
		SELECT id, action, entity_id, details, created_at
		FROM change_log
		WHERE action = ?
		ORDER BY id DESC
		LIMIT ?
	`, action, limit)
}

// queryChanges is a helper to execute change log queries.
func (r *Repository) queryChanges(ctx context.Context, query string, args ...any) ([]entities.ChangeEntry, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying change log: %w", err)
	}
	defer rows.Close()

	var entries []entities.ChangeEntry
	for rows.Next() {
		var entry entities.ChangeEntry
		var entityID, details sql.NullString

		if err := rows.Scan(
			&entry.ID,
			&entry.Action,
			&entityID,
			&details,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning change entry: %w", err)
		}

		entry.EntityID = entityID.String
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				return nil, fmt.Errorf("unmarshaling details: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
