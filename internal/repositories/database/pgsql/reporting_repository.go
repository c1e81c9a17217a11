package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/verdantlabs/greencoin_backend/internal/core/domain"
	portsrepo "github.com/verdantlabs/greencoin_backend/internal/core/ports/repositories"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetLeaderboardData returns one entry per account with coin count and total
// impact derived from current coin ownership. No ordering is applied here.
func (r *reportingRepository) GetLeaderboardData(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT
			a.account_id,
			a.display_name,
			a.trees_planted,
			COUNT(c.coin_id) AS coin_count,
			COALESCE(SUM(c.impact_kg), 0) AS total_impact
		FROM accounts a
		LEFT JOIN coins c ON c.owner_id = a.account_id
		GROUP BY a.account_id, a.display_name, a.trees_planted
	`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying leaderboard data: %w", err)
	}
	defer rows.Close()

	var result []domain.LeaderboardEntry
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(
			&entry.AccountID,
			&entry.DisplayName,
			&entry.TreesPlanted,
			&entry.CoinCount,
			&entry.TotalImpact,
		); err != nil {
			return nil, fmt.Errorf("error scanning leaderboard row: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}

	if len(result) == 0 {
		// Return empty slice instead of nil
		return []domain.LeaderboardEntry{}, nil
	}

	return result, nil
}
