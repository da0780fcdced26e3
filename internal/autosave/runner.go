// Package autosave takes the scheduled deposits of automatic savings plans.
// A run is a one-shot pass over every due plan, triggered by an external
// scheduler through cmd/autosave or the pipeline endpoint.
package autosave

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "isave/internal/errors"
	"isave/internal/logger"
	"isave/internal/models"
)

// Depositor takes one scheduled deduction from a plan, claiming the period
// by moving its next deduction date to next.
type Depositor interface {
	DepositScheduled(ctx context.Context, plan *models.SavePlan, next time.Time) (*models.SavePlan, error)
}

// PlanError records a scheduled deposit that failed for a reason other than
// the owner's wallet being short.
type PlanError struct {
	PlanID  string `json:"plan_id"`
	UserID  string `json:"user_id"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// RunResult summarizes a run.
type RunResult struct {
	PlansDue  int           `json:"plans_due"`
	Deposited int           `json:"deposited"`
	Skipped   int           `json:"skipped"` // wallet short, or period taken by an overlapping run
	Errors    []PlanError   `json:"errors"`
	Duration  time.Duration `json:"duration_ns"`
}

// Runner selects due plans and takes their auto-save amount.
type Runner struct {
	db        *gorm.DB
	depositor Depositor
}

// NewRunner creates a Runner that deposits through depositor.
func NewRunner(db *gorm.DB, depositor Depositor) *Runner {
	return &Runner{db: db, depositor: depositor}
}

// Run processes every ACTIVE automatic plan whose next deduction is due at
// now and whose target date is still ahead. A period is claimed before the
// wallet is touched, so overlapping runs debit a plan at most once for it, and
// the next deduction date always moves past now. A plan whose owner is short
// of funds waits for its next period instead of being retried.
func (r *Runner) Run(ctx context.Context, now time.Time) (*RunResult, error) {
	start := time.Now()
	log := logger.Get()

	var plans []models.SavePlan
	if err := r.db.WithContext(ctx).
		Where("status = ? AND frequency <> ? AND next_deduction_date <= ? AND target_date > ?",
			models.SavePlanStatusActive, models.SaveFrequencyManual, now, now).
		Order("next_deduction_date ASC").
		Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to load due plans: %w", err)
	}

	result := &RunResult{PlansDue: len(plans), Errors: []PlanError{}}
	log.Infow("autosave run started", "plans_due", len(plans))

	for i := range plans {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		plan := &plans[i]

		next, err := nextAfter(plan, now)
		if err != nil {
			result.Errors = append(result.Errors, newPlanError(plan, err))
			continue
		}

		_, err = r.depositor.DepositScheduled(ctx, plan, next)
		switch {
		case err == nil:
			result.Deposited++
		case errors.Is(err, apperrors.ErrDeductionAlreadyTaken):
			result.Skipped++
			log.Infow("autosave skipped, period already taken", "plan_id", plan.ID)
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			result.Skipped++
			log.Infow("autosave skipped, insufficient balance",
				"plan_id", plan.ID,
				"user_id", plan.UserID,
				"amount", plan.AutoSaveAmount,
			)
		default:
			result.Errors = append(result.Errors, newPlanError(plan, err))
			log.Warnw("autosave deposit failed", "plan_id", plan.ID, "error", err)
		}
	}

	result.Duration = time.Since(start)
	log.Infow("autosave run completed",
		"plans_due", result.PlansDue,
		"deposited", result.Deposited,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
		"duration", result.Duration.String(),
	)
	return result, nil
}

// nextAfter moves the plan's next deduction date forward by whole periods
// until it is after now.
func nextAfter(plan *models.SavePlan, now time.Time) (time.Time, error) {
	next := *plan.NextDeductionDate
	for !next.After(now) {
		n, ok := plan.Frequency.Next(next)
		if !ok {
			return time.Time{}, fmt.Errorf("frequency %q has no schedule", plan.Frequency)
		}
		next = n
	}
	return next, nil
}

func newPlanError(plan *models.SavePlan, err error) PlanError {
	return PlanError{PlanID: plan.ID, UserID: plan.UserID, Message: err.Error(), Err: err}
}
