/**
 * @description
 * Scheduled repair job that completes savings accounts left without their
 * CLABE bank-account link. Provisioning is transactional, so under normal
 * operation this job finds nothing; it exists to heal rows written by older
 * deployments or restored from partial backups.
 */
package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/techreo/onboarding-service/internal/store"
)

// LinkRepairJob scans for unlinked savings accounts and attaches a freshly
// generated CLABE account to each.
type LinkRepairJob struct {
	repo   store.Repository
	logger *slog.Logger
}

// NewLinkRepairJob creates a new repair job runner.
func NewLinkRepairJob(repo store.Repository, logger *slog.Logger) *LinkRepairJob {
	return &LinkRepairJob{repo: repo, logger: logger}
}

// Run executes one repair pass.
func (j *LinkRepairJob) Run() {
	ctx := context.Background()

	accounts, err := j.repo.FindUnlinkedSavingsAccounts(ctx)
	if err != nil {
		j.logger.Error("failed to list unlinked savings accounts", "error", err)
		return
	}
	if len(accounts) == 0 {
		return
	}
	j.logger.Info("repairing unlinked savings accounts", "count", len(accounts))

	for _, account := range accounts {
		clabe, err := NewCLABE()
		if err != nil {
			j.logger.Error("failed to generate clabe for repair", "savings_account_id", account.ID, "error", err)
			continue
		}
		if _, err := j.repo.CreateBankAccountAndLink(ctx, account.ID, account.CustomerID, clabe); err != nil {
			if errors.Is(err, store.ErrSavingsAccountNotFound) {
				// Linked concurrently since the scan; nothing to repair.
				continue
			}
			j.logger.Error("failed to repair savings account link", "savings_account_id", account.ID, "error", err)
			continue
		}
		j.logger.Info("repaired savings account link", "savings_account_id", account.ID, "customer_id", account.CustomerID)
	}
}

// ScheduleLinkRepair registers the repair job on the given cron scheduler.
func ScheduleLinkRepair(c *cron.Cron, job *LinkRepairJob, schedule string, logger *slog.Logger) {
	if _, err := c.AddJob(schedule, job); err != nil {
		logger.Error("failed to schedule link repair job", "error", err)
		return
	}
	logger.Info("scheduled link repair job", "schedule", schedule)
}
