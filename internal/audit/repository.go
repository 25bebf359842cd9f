package audit

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/attendly/attendly/internal/shared"
)

// Entry is one row from the audit trail.
type Entry struct {
	ID         int64          `json:"id"`
	ActorID    uuid.UUID      `json:"actor_id"`
	TenantID   *uuid.UUID     `json:"tenant_id,omitempty"`
	Action     string         `json:"action"`
	Entity     string         `json:"entity"`
	EntityID   string         `json:"entity_id"`
	Meta       map[string]any `json:"meta,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

type Repository interface {
	List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Entry, int, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, tenantID *uuid.UUID, filters shared.ListFilters) ([]Entry, int, error) {
	query := `SELECT id, actor_id, tenant_id, action, entity, entity_id, meta, occurred_at FROM audit_logs WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM audit_logs WHERE 1=1`
	args := []any{}

	appendClause := func(clause string) {
		query += clause
		countQuery += clause
	}

	if tenantID != nil {
		args = append(args, *tenantID)
		appendClause(` AND tenant_id = $` + strconv.Itoa(len(args)))
	}
	if filters.Search != "" {
		args = append(args, "%"+filters.Search+"%")
		appendClause(` AND (action ILIKE $` + strconv.Itoa(len(args)) + ` OR entity ILIKE $` + strconv.Itoa(len(args)) + `)`)
	}
	if filters.From != nil {
		args = append(args, *filters.From)
		appendClause(` AND occurred_at >= $` + strconv.Itoa(len(args)))
	}
	if filters.To != nil {
		args = append(args, *filters.To)
		appendClause(` AND occurred_at < $` + strconv.Itoa(len(args)))
	}

	var total int
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += ` ORDER BY occurred_at DESC`
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
		offset := (filters.Page - 1) * filters.Limit
		if offset > 0 {
			args = append(args, offset)
			query += ` OFFSET $` + strconv.Itoa(len(args))
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.TenantID, &e.Action, &e.Entity, &e.EntityID, &e.Meta, &e.OccurredAt); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
