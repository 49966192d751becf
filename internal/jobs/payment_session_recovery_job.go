package jobs

import (
	"context"
	"log/slog"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// RecoverPaymentSessionsHandler is implemented by commands.RecoverPaymentSessionsCommandHandler.
type RecoverPaymentSessionsHandler interface {
	Handle(ctx context.Context, cmd commands.RecoverPaymentSessionsCommand) (int, error)
}

// PaymentSessionRecoveryJob periodically opens payment sessions for online
// orders whose checkout could not reach the payment provider.
type PaymentSessionRecoveryJob struct {
	handler   RecoverPaymentSessionsHandler
	cron      *cron.Cron
	schedule  string
	grace     time.Duration
	batchSize int
	logger    *slog.Logger
}

// NewPaymentSessionRecoveryJob creates the job. schedule is a cron expression
// with a leading seconds field; runs never overlap.
func NewPaymentSessionRecoveryJob(
	handler RecoverPaymentSessionsHandler,
	schedule string,
	grace time.Duration,
	batchSize int,
	logger *slog.Logger,
) *PaymentSessionRecoveryJob {
	return &PaymentSessionRecoveryJob{
		handler: handler,
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		schedule:  schedule,
		grace:     grace,
		batchSize: batchSize,
		logger:    logger.With("component", "payment_session_recovery_job"),
	}
}

func (j *PaymentSessionRecoveryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Payment session recovery job started",
		"schedule", j.schedule, "grace", j.grace.String())
	return nil
}

// RunOnce performs a single sweep.
func (j *PaymentSessionRecoveryJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewRecoverPaymentSessionsCommand(j.grace, j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Payment session recovery job misconfigured", "error", err)
		return
	}

	recovered, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Payment session recovery job failed", "error", err)
		return
	}
	if recovered > 0 {
		j.logger.InfoContext(ctx, "Payment sessions recovered", "count", recovered)
	}
}

// Stop waits for a running sweep to finish.
func (j *PaymentSessionRecoveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Payment session recovery job stopped")
}
