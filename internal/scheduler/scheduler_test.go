package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spnear/personal-projects-apache-kafka-spotify-processing/internal/model"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// fakeRunner считает запуски пакетной обработки
type fakeRunner struct {
	runs int64
	err  error
}

func (f *fakeRunner) ProcessAllCountries(_ context.Context, _ []string, _ int) (*model.BatchReport, error) {
	atomic.AddInt64(&f.runs, 1)
	if f.err != nil {
		return nil, f.err
	}
	return &model.BatchReport{TotalCountries: 2, Successful: 2}, nil
}

func (f *fakeRunner) Metrics() model.Metrics {
	return model.Metrics{MessagesSent: 2, SuccessRate: 1.0}
}

func TestRunBatch(t *testing.T) {
	runner := &fakeRunner{}
	s := New(runner, time.Hour, zap.NewNop())

	s.RunBatch(context.Background())

	assert.Equal(t, int64(1), atomic.LoadInt64(&runner.runs))
}

func TestRunBatch_RunnerError(t *testing.T) {
	runner := &fakeRunner{err: fmt.Errorf("producer not initialized")}
	s := New(runner, time.Hour, zap.NewNop())

	// Ошибка запуска логируется и не паникует
	s.RunBatch(context.Background())

	assert.Equal(t, int64(1), atomic.LoadInt64(&runner.runs))
}

func TestStart_RunsImmediately(t *testing.T) {
	runner := &fakeRunner{}
	s := New(runner, time.Hour, zap.NewNop())

	err := s.Start(context.Background())
	defer s.Stop()

	assert.NoError(t, err)
	assert.Equal(t, int64(1), atomic.LoadInt64(&runner.runs))
}

func TestStart_SchedulesPeriodicRuns(t *testing.T) {
	runner := &fakeRunner{}
	s := New(runner, 50*time.Millisecond, zap.NewNop())

	err := s.Start(context.Background())
	assert.NoError(t, err)

	time.Sleep(130 * time.Millisecond)
	s.Stop()

	// Немедленный запуск плюс хотя бы один по расписанию
	assert.GreaterOrEqual(t, atomic.LoadInt64(&runner.runs), int64(2))
}
