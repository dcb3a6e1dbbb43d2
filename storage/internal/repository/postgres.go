package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/loghound-systems/loghound-stack/common/paging"
	"github.com/loghound-systems/loghound-stack/storage/internal/models"
)

var (
	ErrLogNotFound = errors.New("log entry not found")
)

type Repository interface {
	InsertLog(ctx context.Context, log *models.BGLLog) (int64, error)
	BulkInsertLogs(ctx context.Context, logs []models.BGLLog) (int, error)
	GetLog(ctx context.Context, id int64) (*models.BGLLog, error)
	ListLogs(ctx context.Context, p paging.Params, onlyNonAlert bool) ([]models.BGLLog, int, error)

	BulkInsertVectors(ctx context.Context, vectors []models.EventVector) (int, error)
	ListVectors(ctx context.Context, p paging.Params, onlyNonAlert bool) ([]models.EventVector, int, error)

	ReplaceTemplates(ctx context.Context, templates []models.Template) (int, error)
	ListTemplates(ctx context.Context) ([]models.Template, error)

	CreateModel(ctx context.Context, entry *models.ModelEntry) (int64, error)
	ListModels(ctx context.Context) ([]models.ModelEntry, error)

	Ping(ctx context.Context) error
	Close()
}

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(ctx context.Context, connString string) (*PostgresRepository, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	// Connection pool configuration
	config.MaxConns = 25
	config.MinConns = 5
	config.MaxConnLifetime = 5 * time.Minute
	config.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{pool: pool}, nil
}

func (r *PostgresRepository) Close() {
	r.pool.Close()
}

func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// InsertLog stores one parsed dataset line.
func (r *PostgresRepository) InsertLog(ctx context.Context, log *models.BGLLog) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO bgl_logs (line_id, alert_tag, is_alert, raw, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		log.LineID, log.AlertTag, log.IsAlert, log.Raw, log.Message,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert log: %w", err)
	}
	return id, nil
}

// BulkInsertLogs copies a batch of parsed lines. An empty batch is a
// successful no-op.
func (r *PostgresRepository) BulkInsertLogs(ctx context.Context, logs []models.BGLLog) (int, error) {
	if len(logs) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows := make([][]interface{}, len(logs))
	for i, l := range logs {
		rows[i] = []interface{}{l.LineID, l.AlertTag, l.IsAlert, l.Raw, l.Message}
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"bgl_logs"},
		[]string{"line_id", "alert_tag", "is_alert", "raw", "message"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert logs: %w", err)
	}
	return int(n), nil
}

// GetLog fetches one stored line by its row id.
func (r *PostgresRepository) GetLog(ctx context.Context, id int64) (*models.BGLLog, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, line_id, alert_tag, is_alert, raw, message
		FROM bgl_logs
		WHERE id = $1
	`

	var log models.BGLLog
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&log.ID, &log.LineID, &log.AlertTag, &log.IsAlert, &log.Raw, &log.Message,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrLogNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get log: %w", err)
	}
	return &log, nil
}

// ListLogs returns one window of stored lines in insertion order along
// with the total row count for the filter.
func (r *PostgresRepository) ListLogs(ctx context.Context, p paging.Params, onlyNonAlert bool) ([]models.BGLLog, int, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	where := ""
	if onlyNonAlert {
		where = "WHERE is_alert = false"
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM bgl_logs "+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, line_id, alert_tag, is_alert, raw, message
		FROM bgl_logs
		%s
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, where)

	rows, err := r.pool.Query(ctx, query, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.BGLLog, 0, p.Limit)
	for rows.Next() {
		var log models.BGLLog
		if err := rows.Scan(&log.ID, &log.LineID, &log.AlertTag, &log.IsAlert, &log.Raw, &log.Message); err != nil {
			return nil, 0, fmt.Errorf("failed to scan log: %w", err)
		}
		logs = append(logs, log)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read logs: %w", err)
	}
	return logs, total, nil
}

// BulkInsertVectors copies a batch of vectorized events. An empty batch
// is a successful no-op.
func (r *PostgresRepository) BulkInsertVectors(ctx context.Context, vectors []models.EventVector) (int, error) {
	if len(vectors) == 0 {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows := make([][]interface{}, len(vectors))
	for i, v := range vectors {
		indices := v.Indices
		if indices == nil {
			indices = []int64{}
		}
		values := v.Values
		if values == nil {
			values = []float64{}
		}
		rows[i] = []interface{}{v.LineID, v.AlertTag, v.IsAlert, v.TemplateID, v.Dim, indices, values}
	}

	n, err := r.pool.CopyFrom(ctx,
		pgx.Identifier{"event_vectors"},
		[]string{"line_id", "alert_tag", "is_alert", "template_id", "dim", "indices", "values"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk insert vectors: %w", err)
	}
	return int(n), nil
}

// ListVectors returns one window of vectorized events in insertion
// order along with the total row count for the filter.
func (r *PostgresRepository) ListVectors(ctx context.Context, p paging.Params, onlyNonAlert bool) ([]models.EventVector, int, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	where := ""
	if onlyNonAlert {
		where = "WHERE is_alert = false"
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM event_vectors "+where).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count vectors: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, line_id, alert_tag, is_alert, template_id, dim, indices, "values"
		FROM event_vectors
		%s
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, where)

	rows, err := r.pool.Query(ctx, query, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list vectors: %w", err)
	}
	defer rows.Close()

	vectors := make([]models.EventVector, 0, p.Limit)
	for rows.Next() {
		var v models.EventVector
		if err := rows.Scan(&v.ID, &v.LineID, &v.AlertTag, &v.IsAlert, &v.TemplateID, &v.Dim, &v.Indices, &v.Values); err != nil {
			return nil, 0, fmt.Errorf("failed to scan vector: %w", err)
		}
		vectors = append(vectors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read vectors: %w", err)
	}
	return vectors, total, nil
}

// ReplaceTemplates swaps the stored template dictionary for a freshly
// mined one in a single transaction.
func (r *PostgresRepository) ReplaceTemplates(ctx context.Context, templates []models.Template) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM templates"); err != nil {
		return 0, fmt.Errorf("failed to clear templates: %w", err)
	}

	if len(templates) > 0 {
		rows := make([][]interface{}, len(templates))
		for i, t := range templates {
			rows[i] = []interface{}{t.TemplID, t.Template}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"templates"},
			[]string{"templ_id", "template"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return 0, fmt.Errorf("failed to insert templates: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit templates: %w", err)
	}
	return len(templates), nil
}

// ListTemplates returns the full template dictionary in templ_id order.
func (r *PostgresRepository) ListTemplates(ctx context.Context) ([]models.Template, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, templ_id, template
		FROM templates
		ORDER BY templ_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var t models.Template
		if err := rows.Scan(&t.ID, &t.TemplID, &t.Template); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}
	return templates, nil
}

// CreateModel appends a registry row for a persisted model artifact.
func (r *PostgresRepository) CreateModel(ctx context.Context, entry *models.ModelEntry) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		INSERT INTO models (name, version, path, metric_aupr, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		entry.Name, entry.Version, entry.Path, entry.MetricAUPR, entry.Notes,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to create model entry: %w", err)
	}
	return entry.ID, nil
}

// ListModels returns registry rows newest first.
func (r *PostgresRepository) ListModels(ctx context.Context) ([]models.ModelEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, version, path, metric_aupr, notes, created_at
		FROM models
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}
	defer rows.Close()

	var entries []models.ModelEntry
	for rows.Next() {
		var e models.ModelEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Version, &e.Path, &e.MetricAUPR, &e.Notes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan model entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read model entries: %w", err)
	}
	return entries, nil
}
