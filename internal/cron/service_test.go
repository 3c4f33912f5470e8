package cron

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/jdelarosa/tallerflow-backend/pkg/logger"
)

type fakeLock struct {
	held     bool
	acquires int
	releases int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	f.acquires++
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.releases++
	f.held = false
	return nil
}

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard})
}

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	registry := NewRegistry(&testJob{name: "success"}, &testJob{name: "fail", err: errors.New("boom")})
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: registry,
		Lock:     &fakeLock{},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	for _, job := range registry.Jobs() {
		if job.(*testJob).runs != 1 {
			t.Fatalf("expected job %s to run once, ran %d", job.Name(), job.(*testJob).runs)
		}
	}
}

func TestServiceRunCycleSkipsWhenLockHeld(t *testing.T) {
	job := &testJob{name: "sweep"}
	lock := &fakeLock{held: true}
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(job),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job skipped under contention, ran %d", job.runs)
	}
	if lock.releases != 0 {
		t.Fatal("expected no release of a lock we never held")
	}
}

func TestServiceRunCycleReleasesLock(t *testing.T) {
	lock := &fakeLock{}
	service, err := NewService(ServiceParams{
		Logger:   testLogger(),
		Registry: NewRegistry(&testJob{name: "sweep"}),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("run cycle: %v", err)
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock released once, got %d", lock.releases)
	}
	if lock.held {
		t.Fatal("expected lock free after cycle")
	}
}

func TestNewServiceRequiresLogger(t *testing.T) {
	if _, err := NewService(ServiceParams{Lock: &fakeLock{}}); err == nil {
		t.Fatal("expected error without logger")
	}
}

func TestNewServiceRequiresLock(t *testing.T) {
	if _, err := NewService(ServiceParams{Logger: testLogger()}); err == nil {
		t.Fatal("expected error without lock")
	}
}

func TestRegistryDropsNilJobs(t *testing.T) {
	registry := NewRegistry(nil, &testJob{name: "only"})
	registry.Register(nil)
	if len(registry.Jobs()) != 1 {
		t.Fatalf("expected 1 job, got %d", len(registry.Jobs()))
	}
}
