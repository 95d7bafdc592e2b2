package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/danbrewer/letsretire-backend/internal/domain"
)

// projectionRepository implements domain.ProjectionRepository
type projectionRepository struct {
	db *DB
}

// NewProjectionRepository creates a new projection repository
func NewProjectionRepository(db *DB) domain.ProjectionRepository {
	return &projectionRepository{db: db}
}

// Create stores the projection header and every year snapshot in a database transaction
func (r *projectionRepository) Create(ctx context.Context, p *domain.Projection) error {
	if err := p.Validate(); err != nil {
		return err
	}

	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	// Insert the projection header
	insertProjectionQuery := `
		INSERT INTO projections (id, created_at, start_year, end_year, depletion_age)
		VALUES ($1, $2, $3, $4, $5)
	`

	var depletionAge interface{}
	if p.DepletionAge != nil {
		depletionAge = *p.DepletionAge
	}

	_, err = dbTx.ExecContext(ctx, insertProjectionQuery,
		p.ID,
		p.CreatedAt,
		p.StartYear,
		p.EndYear,
		depletionAge,
	)
	if err != nil {
		return fmt.Errorf("failed to insert projection: %w", err)
	}

	// Insert all year snapshots
	insertYearQuery := `
		INSERT INTO projection_years (
			projection_id, fiscal_year, age, kind,
			gross_income, withholdings, net_income, spending, unmet_spending,
			income_tax, required_distribution,
			traditional_401k_balance, roth_balance, savings_balance, portfolio_balance,
			interest_earned
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	for _, y := range p.Years {
		_, err = dbTx.ExecContext(ctx, insertYearQuery,
			p.ID,
			y.FiscalYear,
			y.Age,
			string(y.Kind),
			y.GrossIncome.String(),
			y.Withholdings.String(),
			y.NetIncome.String(),
			y.Spending.String(),
			y.UnmetSpending.String(),
			y.IncomeTax.String(),
			y.RequiredDistribution.String(),
			y.Traditional401kBalance.String(),
			y.RothBalance.String(),
			y.SavingsBalance.String(),
			y.PortfolioBalance.String(),
			y.InterestEarned.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert projection year %d: %w", y.FiscalYear, err)
		}
	}

	// Commit the transaction
	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetByID retrieves a projection with its years in fiscal year order
func (r *projectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Projection, error) {
	query := `
		SELECT id, created_at, start_year, end_year, depletion_age
		FROM projections
		WHERE id = $1
	`

	var p domain.Projection
	var depletionAge sql.NullInt64

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.CreatedAt,
		&p.StartYear,
		&p.EndYear,
		&depletionAge,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrProjectionNotFound, id)
		}
		return nil, fmt.Errorf("failed to get projection by ID: %w", err)
	}

	if depletionAge.Valid {
		age := int(depletionAge.Int64)
		p.DepletionAge = &age
	}

	years, err := r.getYears(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Years = years

	return &p, nil
}

func (r *projectionRepository) getYears(ctx context.Context, id uuid.UUID) ([]domain.YearSnapshot, error) {
	query := `
		SELECT fiscal_year, age, kind,
			gross_income, withholdings, net_income, spending, unmet_spending,
			income_tax, required_distribution,
			traditional_401k_balance, roth_balance, savings_balance, portfolio_balance,
			interest_earned
		FROM projection_years
		WHERE projection_id = $1
		ORDER BY fiscal_year ASC
	`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query projection years: %w", err)
	}
	defer rows.Close()

	var years []domain.YearSnapshot
	for rows.Next() {
		var y domain.YearSnapshot
		var kind string
		amounts := make([]string, 12)

		err := rows.Scan(
			&y.FiscalYear,
			&y.Age,
			&kind,
			&amounts[0], &amounts[1], &amounts[2], &amounts[3], &amounts[4],
			&amounts[5], &amounts[6],
			&amounts[7], &amounts[8], &amounts[9], &amounts[10],
			&amounts[11],
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan projection year: %w", err)
		}
		y.Kind = domain.YearKind(kind)

		targets := []*decimal.Decimal{
			&y.GrossIncome, &y.Withholdings, &y.NetIncome, &y.Spending, &y.UnmetSpending,
			&y.IncomeTax, &y.RequiredDistribution,
			&y.Traditional401kBalance, &y.RothBalance, &y.SavingsBalance, &y.PortfolioBalance,
			&y.InterestEarned,
		}
		for i, target := range targets {
			amount, err := decimal.NewFromString(amounts[i])
			if err != nil {
				return nil, fmt.Errorf("failed to parse projection amount: %w", err)
			}
			*target = amount
		}

		years = append(years, y)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projection years: %w", err)
	}

	return years, nil
}
