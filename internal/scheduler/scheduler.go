// Package scheduler runs the periodic bookkeeping jobs: flagging overdue
// bills and re-issuing recurring transactions each month.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mmynk/casal/internal/ledger"
	"github.com/mmynk/casal/internal/models"
	"github.com/mmynk/casal/internal/storage"
)

const (
	// MarkOverdueSpec runs daily at 00:05.
	MarkOverdueSpec = "5 0 * * *"
	// IssueRecurringSpec runs on the first of each month at 03:00.
	IssueRecurringSpec = "0 3 1 * *"

	jobTimeout = 2 * time.Minute
)

// Store is the subset of storage the jobs read and write directly.
type Store interface {
	GetTransaction(ctx context.Context, userID, id string) (*models.Transaction, error)
	ListRecurringTransactions(ctx context.Context, from, to time.Time) ([]*models.Transaction, error)
	HasRecurringCopy(ctx context.Context, sourceID string, from, to time.Time) (bool, error)
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

// Saver persists a transaction with its derived rows.
type Saver interface {
	Save(ctx context.Context, txn *models.Transaction, existingID string) (*ledger.SaveResult, error)
}

// Scheduler owns the cron runner and the job implementations.
type Scheduler struct {
	store    Store
	saver    Saver
	onChange func()
	now      func() time.Time
	cron     *cron.Cron
}

// New creates a Scheduler. onChange, if not nil, runs after a job modified data.
func New(store Store, saver Saver, onChange func()) *Scheduler {
	return &Scheduler{
		store:    store,
		saver:    saver,
		onChange: onChange,
		now:      time.Now,
		cron:     cron.New(),
	}
}

// Start registers the jobs and starts the cron runner in the background.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(MarkOverdueSpec, s.runMarkOverdue); err != nil {
		return fmt.Errorf("failed to schedule overdue job: %w", err)
	}
	if _, err := s.cron.AddFunc(IssueRecurringSpec, s.runIssueRecurring); err != nil {
		return fmt.Errorf("failed to schedule recurring job: %w", err)
	}
	s.cron.Start()
	slog.Info("Scheduler started", "mark_overdue", MarkOverdueSpec, "issue_recurring", IssueRecurringSpec)
	return nil
}

// Stop stops the runner and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("Scheduler stopped")
}

func (s *Scheduler) runMarkOverdue() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.MarkOverdue(ctx); err != nil {
		slog.Error("MarkOverdue job failed", "error", err)
	}
}

func (s *Scheduler) runIssueRecurring() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.IssueRecurring(ctx); err != nil {
		slog.Error("IssueRecurring job failed", "error", err)
	}
}

// MarkOverdue flips pending expenses due before today to overdue.
func (s *Scheduler) MarkOverdue(ctx context.Context) (int64, error) {
	today := startOfDay(s.now())
	n, err := s.store.MarkOverdue(ctx, today)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		slog.Info("Marked transactions overdue", "count", n, "as_of", models.FormatDate(today))
		s.changed()
	}
	return n, nil
}

// IssueRecurring copies last month's recurring transactions into the
// current month. Every copy points at the first transaction of its series,
// and series already copied this month are skipped, so the job can be
// re-run safely. It returns the number of copies created.
func (s *Scheduler) IssueRecurring(ctx context.Context) (int, error) {
	now := s.now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)
	endOfMonth := func(first time.Time) time.Time { return first.AddDate(0, 1, -1) }

	sources, err := s.store.ListRecurringTransactions(ctx, lastMonth, endOfMonth(lastMonth))
	if err != nil {
		return 0, err
	}

	issued := 0
	for _, src := range sources {
		first, err := s.seriesStart(ctx, src)
		if err != nil {
			return issued, err
		}
		exists, err := s.store.HasRecurringCopy(ctx, first.ID, thisMonth, endOfMonth(thisMonth))
		if err != nil {
			return issued, err
		}
		if exists {
			slog.Debug("Recurring transaction already issued", "source_id", first.ID)
			continue
		}

		if _, err := s.saver.Save(ctx, nextOccurrence(src, first), ""); err != nil {
			return issued, fmt.Errorf("failed to issue recurring transaction %s: %w", src.ID, err)
		}
		issued++
	}

	if issued > 0 {
		slog.Info("Issued recurring transactions", "count", issued, "month", thisMonth.Format("2006-01"))
		s.changed()
	}
	return issued, nil
}

func (s *Scheduler) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

// seriesStart returns the transaction a recurring series started from.
// A copy whose first transaction is gone starts a series of its own.
func (s *Scheduler) seriesStart(ctx context.Context, src *models.Transaction) (*models.Transaction, error) {
	if src.RecurringSourceID == "" {
		return src, nil
	}
	first, err := s.store.GetTransaction(ctx, src.UserID, src.RecurringSourceID)
	if errors.Is(err, storage.ErrNotFound) {
		return src, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring source %s: %w", src.RecurringSourceID, err)
	}
	return first, nil
}

// nextOccurrence builds next month's copy of src. Days of the month come
// from first, so a date clamped in a short month recovers afterwards.
func nextOccurrence(src, first *models.Transaction) *models.Transaction {
	next := &models.Transaction{
		UserID:            src.UserID,
		Description:       src.Description,
		Amount:            src.Amount,
		Date:              addMonth(src.Date, first.Date.Day()),
		Type:              src.Type,
		Responsibility:    src.Responsibility,
		CategoryID:        src.CategoryID,
		PaymentMethod:     src.PaymentMethod,
		Installments:      src.Installments,
		IsRecurring:       true,
		SplitExpense:      src.SplitExpense,
		PaidBy:            src.PaidBy,
		RecurringSourceID: first.ID,
	}
	if src.DueDate != nil {
		day := src.DueDate.Day()
		if first.DueDate != nil {
			day = first.DueDate.Day()
		}
		due := addMonth(*src.DueDate, day)
		next.DueDate = &due
	}
	return next
}

// addMonth moves d into the next calendar month on the given day,
// clamping to the last day of that month (day 31 in February -> Feb 28).
func addMonth(d time.Time, day int) time.Time {
	y, m, _ := d.Date()
	first := time.Date(y, m+1, 1, 0, 0, 0, 0, d.Location())
	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, d.Location())
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
