// Package jobs provides scheduled background tasks for the order service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. PaymentSessionRecoveryJob - Opens payment sessions for online orders whose
// checkout was persisted but never got a session because the provider failed.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	recovery := jobs.NewPaymentSessionRecoveryJob(handler, "0 */1 * * * *", 2*time.Minute, 50, logger)
//	jobManager := jobs.NewJobManager(recovery)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use six fields, the first being seconds. A sweep that is still
// running when the next one is due causes that tick to be skipped.
//
// # Error Handling
//
// A failing order is logged by the command handler and does not stop the sweep.
// Errors of the sweep itself are logged and retried on the next tick.
package jobs
