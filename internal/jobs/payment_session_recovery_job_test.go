package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRecoverHandler struct {
	mock.Mock
}

func (m *MockRecoverHandler) Handle(ctx context.Context, cmd commands.RecoverPaymentSessionsCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPaymentSessionRecoveryJob_RunOnce(t *testing.T) {
	handler := &MockRecoverHandler{}
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RecoverPaymentSessionsCommand) bool {
		return cmd.Grace() == 2*time.Minute && cmd.BatchSize() == 25
	})).Return(3, nil).Once()

	job := jobs.NewPaymentSessionRecoveryJob(handler, "* * * * * *", 2*time.Minute, 25, discardLogger())
	job.RunOnce(context.Background())

	handler.AssertExpectations(t)
}

func TestPaymentSessionRecoveryJob_RunOnce_HandlerErrorIsSwallowed(t *testing.T) {
	handler := &MockRecoverHandler{}
	handler.On("Handle", mock.Anything, mock.Anything).Return(0, errors.New("db down")).Once()

	job := jobs.NewPaymentSessionRecoveryJob(handler, "* * * * * *", time.Minute, 10, discardLogger())

	assert.NotPanics(t, func() { job.RunOnce(context.Background()) })
	handler.AssertExpectations(t)
}

func TestPaymentSessionRecoveryJob_RunOnce_InvalidConfigSkipsSweep(t *testing.T) {
	handler := &MockRecoverHandler{}

	job := jobs.NewPaymentSessionRecoveryJob(handler, "* * * * * *", -time.Minute, 10, discardLogger())
	job.RunOnce(context.Background())

	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPaymentSessionRecoveryJob_RunsOnSchedule(t *testing.T) {
	handler := &MockRecoverHandler{}
	called := make(chan struct{}, 10)
	handler.On("Handle", mock.Anything, mock.Anything).Return(0, nil).Run(func(mock.Arguments) {
		called <- struct{}{}
	})

	manager := jobs.NewJobManager(jobs.NewPaymentSessionRecoveryJob(handler, "* * * * * *", time.Minute, 10, discardLogger()))
	require.NoError(t, manager.StartAll())
	defer manager.StopAll()

	select {
	case <-called:
	case <-time.After(3 * time.Second):
		t.Fatal("recovery sweep did not run")
	}
}

func TestJobManager_InvalidSchedule(t *testing.T) {
	manager := jobs.NewJobManager(
		jobs.NewPaymentSessionRecoveryJob(&MockRecoverHandler{}, "every now and then", time.Minute, 10, discardLogger()),
	)

	err := manager.StartAll()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "payment session recovery job")
}
