package sweep

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/taskbuddy/modules/task"
)

// fakeTaskPort serves canned refresh pages and records calls.
type fakeTaskPort struct {
	mu       sync.Mutex
	pages    []task.RefreshPageResponse
	calls    []int
	err      error
	failPage int
	block    chan struct{}
}

func (f *fakeTaskPort) GetTask(context.Context, string) (*task.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) ListTasks(context.Context, task.ListTasksRequest) (*task.ListTasksResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) UserTasks(context.Context, string) ([]task.TaskResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) MemberProgress(context.Context, string, string) (*task.MemberProgressResponse, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeTaskPort) RefreshPage(_ context.Context, page, _ int) (*task.RefreshPageResponse, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if f.failPage != 0 && page == f.failPage {
		return nil, errors.New("page refresh failed")
	}
	f.calls = append(f.calls, page)
	if page > len(f.pages) {
		return &task.RefreshPageResponse{}, nil
	}
	resp := f.pages[page-1]
	return &resp, nil
}

func (f *fakeTaskPort) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestRunOncePagesUntilShortPage(t *testing.T) {
	port := &fakeTaskPort{
		pages: []task.RefreshPageResponse{
			{Scanned: 100, Changed: 3},
			{Scanned: 100, Changed: 0, Failed: 1},
			{Scanned: 40, Changed: 2},
		},
	}
	s := NewSweeper(Config{Interval: time.Hour, PageSize: 100}, port)

	res, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if res.Pages != 3 {
		t.Errorf("Pages = %d, want 3", res.Pages)
	}
	if res.Scanned != 240 || res.Changed != 5 || res.Failed != 1 {
		t.Errorf("Result = %+v, want Scanned=240 Changed=5 Failed=1", res)
	}
	if port.callCount() != 3 {
		t.Errorf("RefreshPage called %d times, want 3", port.callCount())
	}
}

func TestRunOnceAbortsOnFailedPage(t *testing.T) {
	port := &fakeTaskPort{
		pages: []task.RefreshPageResponse{
			{Scanned: 100, Changed: 2, Failed: 1},
			{Scanned: 100, Changed: 4},
		},
		failPage: 2,
	}
	s := NewSweeper(Config{Interval: time.Hour, PageSize: 100}, port)

	res, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if res.Pages != 1 {
		t.Errorf("Pages = %d, want 1 completed page", res.Pages)
	}
	if res.Scanned != 100 || res.Changed != 2 {
		t.Errorf("Result = %+v, want the first page's counts kept", res)
	}
	if res.Failed != 1 {
		t.Errorf("Failed = %d, want only the failures the completed page reported", res.Failed)
	}
}

func TestRunOnceEmptyTable(t *testing.T) {
	port := &fakeTaskPort{}
	s := NewSweeper(Config{Interval: time.Hour, PageSize: 100}, port)

	res, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce() error = %v", err)
	}
	if res.Pages != 1 || res.Scanned != 0 {
		t.Errorf("Result = %+v, want a single empty page", res)
	}
}

func TestRunOnceSkipsOverlappingPass(t *testing.T) {
	block := make(chan struct{})
	port := &fakeTaskPort{block: block}
	s := NewSweeper(Config{Interval: time.Hour, PageSize: 100}, port)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if _, err := s.RunOnce(context.Background()); err != nil {
			t.Errorf("RunOnce() error = %v", err)
		}
	}()

	// Wait until the first pass has claimed the sweeping flag.
	deadline := time.Now().Add(time.Second)
	for {
		s.mu.Lock()
		sweeping := s.sweeping
		s.mu.Unlock()
		if sweeping {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("first pass never started")
		}
		time.Sleep(time.Millisecond)
	}

	// The concurrent call must return immediately without touching the port.
	res, err := s.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("overlapping RunOnce() error = %v", err)
	}
	if res.Pages != 0 {
		t.Errorf("overlapping pass did work: %+v", res)
	}

	close(block)
	wg.Wait()
	if port.callCount() != 1 {
		t.Errorf("RefreshPage called %d times, want 1", port.callCount())
	}
}

func TestSweeperStartStop(t *testing.T) {
	port := &fakeTaskPort{}
	s := NewSweeper(Config{Interval: 5 * time.Millisecond, PageSize: 100}, port)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !s.IsRunning() {
		t.Error("IsRunning() = false after Start()")
	}

	// Let at least one tick fire.
	deadline := time.Now().Add(time.Second)
	for port.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if port.callCount() == 0 {
		t.Error("no sweep pass ran")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if s.IsRunning() {
		t.Error("IsRunning() = true after Stop()")
	}
}
