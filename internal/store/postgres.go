package store

import (
	"context"
	"fmt"
	"time"

	"trackbot/internal/track"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// Postgres is the pgx-backed Store.
type Postgres struct {
	*pgxpool.Pool
}

func NewPostgres(config struct {
	Host     string `yaml:"host" env:"DB_HOST,required"`
	Port     int    `yaml:"port" env:"DB_PORT,required"`
	User     string `yaml:"user" env:"DB_USER,required"`
	Password string `yaml:"password" env:"DB_PASSWORD,required"`
	DBName   string `yaml:"dbname" env:"DB_NAME,required"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE,required"`
}) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		config.User, config.Password, config.Host, config.Port, config.DBName, config.SSLMode,
	))
	if err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	return &Postgres{pool}, nil
}

func (db *Postgres) Add(ctx context.Context, a track.Activity) (int64, error) {
	if a.EntryTimestamp.IsZero() {
		a.EntryTimestamp = time.Now()
	}

	query := `
		INSERT INTO activities (entry_timestamp, activity_timestamp, duration_minutes, quadrant, description, tags)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := db.QueryRow(ctx, query,
		a.EntryTimestamp,
		a.ActivityTimestamp,
		a.DurationMinutes,
		a.Quadrant,
		a.Description,
		pq.StringArray(a.Tags),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error inserting activity: %w", err)
	}
	return id, nil
}

func (db *Postgres) Get(ctx context.Context, id int64) (*track.Activity, error) {
	query := `
		SELECT id, entry_timestamp, activity_timestamp, duration_minutes, quadrant, description, tags
		FROM activities
		WHERE id = $1`

	a, err := scanActivity(db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (db *Postgres) List(ctx context.Context, limit int, sort SortKey) ([]track.Activity, error) {
	var query string
	switch sort {
	case SortByAdded:
		query = `
			SELECT id, entry_timestamp, activity_timestamp, duration_minutes, quadrant, description, tags
			FROM activities
			ORDER BY entry_timestamp DESC
			LIMIT $1`
	case SortByEvent:
		query = `
			SELECT id, entry_timestamp, activity_timestamp, duration_minutes, quadrant, description, tags
			FROM activities
			ORDER BY activity_timestamp DESC
			LIMIT $1`
	default:
		// Last N records, presented oldest first.
		query = `
			SELECT id, entry_timestamp, activity_timestamp, duration_minutes, quadrant, description, tags
			FROM (
				SELECT id, entry_timestamp, activity_timestamp, duration_minutes, quadrant, description, tags
				FROM activities
				ORDER BY id DESC
				LIMIT $1
			) recent
			ORDER BY id ASC`
	}

	rows, err := db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActivities(rows)
}

func (db *Postgres) Search(ctx context.Context, f Filter) ([]track.Activity, error) {
	query := `
		SELECT id, entry_timestamp, activity_timestamp, duration_minutes, quadrant, description, tags
		FROM activities`

	var (
		conds []string
		args  []any
	)
	if f.Quadrant != 0 {
		args = append(args, f.Quadrant)
		conds = append(conds, fmt.Sprintf("quadrant = $%d", len(args)))
	}
	if len(f.Tags) > 0 {
		args = append(args, pq.StringArray(f.Tags))
		conds = append(conds, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(tags) t WHERE lower(t) = ANY (SELECT lower(w) FROM unnest($%d::text[]) w))", len(args)))
	}
	if len(f.Keywords) > 0 {
		patterns := make([]string, len(f.Keywords))
		for i, kw := range f.Keywords {
			patterns[i] = "%" + kw + "%"
		}
		args = append(args, pq.StringArray(patterns))
		conds = append(conds, fmt.Sprintf("description ILIKE ANY ($%d::text[])", len(args)))
	}
	for i, cond := range conds {
		if i == 0 {
			query += "\n\t\tWHERE " + cond
		} else {
			query += "\n\t\tAND " + cond
		}
	}
	query += "\n\t\tORDER BY activity_timestamp DESC"

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActivities(rows)
}

func (db *Postgres) Remove(ctx context.Context, id int64) (bool, error) {
	tag, err := db.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("error deleting activity: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanActivity(row pgx.Row) (track.Activity, error) {
	var (
		a    track.Activity
		tags pq.StringArray
	)
	err := row.Scan(
		&a.ID,
		&a.EntryTimestamp,
		&a.ActivityTimestamp,
		&a.DurationMinutes,
		&a.Quadrant,
		&a.Description,
		&tags,
	)
	a.Tags = []string(tags)
	return a, err
}

func collectActivities(rows pgx.Rows) ([]track.Activity, error) {
	var activities []track.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
