package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	apperrors "placement-advisor/internal/common/errors"
	"placement-advisor/internal/models"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// AuditSchema creates the audit table.
const AuditSchema = `CREATE TABLE IF NOT EXISTS placement_predictions (
	id              UUID PRIMARY KEY,
	request_id      TEXT NOT NULL DEFAULT '',
	model_version   TEXT NOT NULL,
	probability     DOUBLE PRECISION NOT NULL,
	prediction      SMALLINT NOT NULL,
	salary_lpa      DOUBLE PRECISION NOT NULL,
	recommendations TEXT[] NOT NULL,
	skill_gaps      TEXT[] NOT NULL,
	profile         JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL
)`

const insertPrediction = `INSERT INTO placement_predictions
	(id, request_id, model_version, probability, prediction, salary_lpa, recommendations, skill_gaps, profile, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const selectRecent = `SELECT id, request_id, model_version, probability, prediction, salary_lpa, recommendations, skill_gaps, created_at
	FROM placement_predictions ORDER BY created_at DESC LIMIT $1`

// AuditRecord is one stored prediction.
type AuditRecord struct {
	ID              string    `json:"id"`
	RequestID       string    `json:"request_id"`
	ModelVersion    string    `json:"model_version"`
	Probability     float64   `json:"placement_probability"`
	Prediction      int       `json:"placement_prediction"`
	SalaryLPA       float64   `json:"expected_salary_lpa"`
	Recommendations []string  `json:"recommendations"`
	SkillGaps       []string  `json:"skill_gaps"`
	CreatedAt       time.Time `json:"created_at"`
}

// AuditRepository writes predictions to Postgres.
type AuditRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db, now: time.Now}
}

// EnsureSchema applies AuditSchema.
func (r *AuditRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, AuditSchema); err != nil {
		return fmt.Errorf("create audit schema: %w", err)
	}
	return nil
}

func (r *AuditRepository) Record(ctx context.Context, p *models.Profile, resp *models.PredictionResponse) error {
	profile, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertPrediction,
		uuid.NewString(),
		resp.RequestID,
		resp.ModelVersion,
		resp.PlacementProbability,
		resp.PlacementPrediction,
		resp.ExpectedSalaryLPA,
		pq.Array(resp.Recommendations),
		pq.Array(resp.SkillGaps),
		profile,
		r.now().UTC(),
	)
	if err != nil {
		return apperrors.NewDatabaseInsertFailedError(fmt.Errorf("insert prediction: %w", err))
	}
	return nil
}

// Recent returns the newest records first.
func (r *AuditRepository) Recent(ctx context.Context, limit int) ([]AuditRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, selectRecent, limit)
	if err != nil {
		return nil, apperrors.NewDatabaseConnectionFailedError(fmt.Errorf("query predictions: %w", err))
	}
	defer rows.Close()

	var out []AuditRecord
	for rows.Next() {
		var rec AuditRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.RequestID,
			&rec.ModelVersion,
			&rec.Probability,
			&rec.Prediction,
			&rec.SalaryLPA,
			pq.Array(&rec.Recommendations),
			pq.Array(&rec.SkillGaps),
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate predictions: %w", err)
	}
	return out, nil
}
