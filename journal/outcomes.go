package journal

import (
	"context"
	"database/sql"
	"strings"

	neterrors "github.com/ClipFinance/netguard/common/errors"
	"github.com/ClipFinance/netguard/common/types"
	"github.com/ClipFinance/netguard/journal/models"
	"github.com/pkg/errors"
)

const defaultListLimit = 50

// Entry is a guard run to record.
type Entry struct {
	Address       string
	FromChainID   uint64
	TargetChainID uint64
	Outcome       types.SwitchOutcome
}

// Record inserts an outcome row.
//
// Parameters:
// - ctx: the context for managing the request.
// - entry: the guard run to record.
//
// Returns:
// - int64: the id of the inserted row.
// - error: an error if the address is empty or the insert fails.
func (j *Journal) Record(ctx context.Context, entry Entry) (int64, error) {
	if strings.TrimSpace(entry.Address) == "" {
		return 0, neterrors.ErrInvalidAddress
	}

	var errText sql.NullString
	if entry.Outcome.Err != nil {
		errText = sql.NullString{String: entry.Outcome.Err.Error(), Valid: true}
	}

	var id int64
	err := j.db.QueryRowContext(ctx, `
		INSERT INTO network_switch_outcomes (
			address,
			from_chain_id,
			target_chain_id,
			outcome,
			reason,
			error
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`,
		strings.ToLower(entry.Address),
		entry.FromChainID,
		entry.TargetChainID,
		string(entry.Outcome.Kind),
		string(entry.Outcome.Reason),
		errText,
	).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "failed to record outcome")
	}
	return id, nil
}

// ListByAddress returns the most recent outcomes for an address, newest first.
//
// Parameters:
// - ctx: the context for managing the request.
// - address: the wallet address, matched case-insensitively.
// - limit: the maximum number of rows, defaults to 50 when not positive.
//
// Returns:
// - []models.Outcome: the outcome rows.
// - error: an error if the query fails.
func (j *Journal) ListByAddress(ctx context.Context, address string, limit int) ([]models.Outcome, error) {
	if strings.TrimSpace(address) == "" {
		return nil, neterrors.ErrInvalidAddress
	}
	if limit <= 0 {
		limit = defaultListLimit
	}

	rows, err := j.db.QueryContext(ctx, `
		SELECT
			id,
			address,
			from_chain_id,
			target_chain_id,
			outcome,
			reason,
			error,
			created_at
		FROM network_switch_outcomes
		WHERE address = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, strings.ToLower(address), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list outcomes")
	}
	defer rows.Close()

	var outcomes []models.Outcome
	for rows.Next() {
		var o models.Outcome
		var reason sql.NullString
		var errText sql.NullString

		err := rows.Scan(
			&o.ID,
			&o.Address,
			&o.FromChainID,
			&o.TargetChainID,
			&o.Outcome,
			&reason,
			&errText,
			&o.CreatedAt,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan outcome")
		}

		if reason.Valid {
			o.Reason = reason.String
		}
		if errText.Valid {
			o.Error = errText.String
		}

		outcomes = append(outcomes, o)
	}

	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate outcomes")
	}

	return outcomes, nil
}
