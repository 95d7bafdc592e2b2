package projection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/danbrewer/letsretire-backend/internal/domain"
	"github.com/danbrewer/letsretire-backend/internal/usecase/calculation"
	"github.com/danbrewer/letsretire-backend/internal/usecase/calculator"
)

// ErrPersistenceDisabled is returned by lookups when no repository is configured
var ErrPersistenceDisabled = errors.New("projection persistence is disabled")

// YearFailure records a retirement year that could not be processed
type YearFailure struct {
	FiscalYear int
	Age        int
	Err        error
}

// Result is everything a projection run produced
type Result struct {
	Inputs       domain.Inputs
	Manager      *domain.AccountsManager // ledger as of the last committed year
	Calculations *calculation.Calculations
	Failures     []YearFailure
	DepletionAge *int
	Projection   *domain.Projection
}

type calculatorFactory func(in *domain.Inputs, year *domain.AccountingYear, retired bool) calculator.YearCalculator

// ProjectionService runs the year loop over a household's accounts
type ProjectionService struct {
	Taxes  domain.TaxService
	Repo   domain.ProjectionRepository // Optional; nil disables persistence
	Logger zerolog.Logger

	newCalculator calculatorFactory
}

// NewProjectionService creates a new ProjectionService instance
func NewProjectionService(taxes domain.TaxService, repo domain.ProjectionRepository, logger zerolog.Logger) *ProjectionService {
	s := &ProjectionService{
		Taxes:  taxes,
		Repo:   repo,
		Logger: logger,
	}
	s.newCalculator = s.standardCalculator
	return s
}

func (s *ProjectionService) standardCalculator(in *domain.Inputs, year *domain.AccountingYear, retired bool) calculator.YearCalculator {
	if retired {
		return calculator.NewRetirementYearCalculator(in, year, s.Taxes, s.Logger)
	}
	return calculator.NewWorkingYearCalculator(in, year, s.Taxes, s.Logger)
}

// Run projects the household from the start year to the end age
// Logic:
//  1. Apply defaults to a copy of the inputs and build the accounts
//  2. For each fiscal year, pick the working or retirement calculator by age
//  3. Each year is booked on a staged copy of the ledger and committed only
//     on success. A failed working year aborts the run; a failed retirement
//     year is logged, recorded and left out of both calculations and ledger
//  4. Record the first age at which the drawable accounts ran dry with spending unmet
//  5. Persist the frozen projection when a repository is configured
func (s *ProjectionService) Run(ctx context.Context, in *domain.Inputs) (*Result, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: nil inputs", domain.ErrInvalidInputs)
	}
	if s.Taxes == nil {
		return nil, errors.New("projection requires a tax service")
	}

	inputs := *in
	inputs.ApplyDefaults()

	// 1. Accounts
	manager, err := domain.CreateFromInputs(&inputs)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Inputs:       inputs,
		Manager:      manager,
		Calculations: calculation.NewCalculations(),
	}

	endYear := inputs.StartYear + inputs.YearCount() - 1
	log := s.Logger.With().Int("start_year", inputs.StartYear).Int("end_year", endYear).Logger()
	log.Info().Msg("projection started")

	// 2. Year loop
	for year := inputs.StartYear; year <= endYear; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		age := inputs.AgeInYear(year)
		retired := age >= inputs.RetirementAge
		staged := manager.Clone()
		accountYear := domain.NewAccountingYear(staged, year)

		yearData, err := s.newCalculator(&inputs, accountYear, retired).ProcessYearData()
		if err != nil {
			// 3. Failure policy
			if !retired {
				return nil, fmt.Errorf("failed to process working year %d: %w", year, err)
			}
			log.Error().Err(err).Int("fiscal_year", year).Int("age", age).Msg("retirement year failed, skipping")
			result.Failures = append(result.Failures, YearFailure{FiscalYear: year, Age: age, Err: err})
			continue
		}

		calc, err := calculation.NewCalculation(yearData)
		if err != nil {
			return nil, err
		}
		manager = staged
		result.Manager = manager
		result.Calculations.AddCalculation(calc)

		// 4. Depletion
		if result.DepletionAge == nil && calc.IsDepleted() {
			depletedAt := age
			result.DepletionAge = &depletedAt
			log.Warn().Int("fiscal_year", year).Int("age", age).Msg("portfolio depleted")
		}
	}

	result.Projection = &domain.Projection{
		ID:           uuid.New(),
		CreatedAt:    time.Now().UTC(),
		StartYear:    inputs.StartYear,
		EndYear:      endYear,
		DepletionAge: result.DepletionAge,
		Years:        result.Calculations.Snapshots(),
	}

	// 5. Persistence
	if s.Repo != nil {
		if err := s.Repo.Create(ctx, result.Projection); err != nil {
			return nil, fmt.Errorf("failed to save projection: %w", err)
		}
	}

	log.Info().
		Str("projection_id", result.Projection.ID.String()).
		Int("years", result.Calculations.Len()).
		Int("failures", len(result.Failures)).
		Msg("projection finished")

	return result, nil
}

// Get loads a stored projection
func (s *ProjectionService) Get(ctx context.Context, id uuid.UUID) (*domain.Projection, error) {
	if s.Repo == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.Repo.GetByID(ctx, id)
}
