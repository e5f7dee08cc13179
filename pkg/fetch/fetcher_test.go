package fetch

import (
	"context"
	"testing"

	"seopanel-go/pkg/backend"
)

// TestLifecycleSuccess verifies idle -> loading -> success.
func TestLifecycleSuccess(t *testing.T) {
	f := NewList[string]("Keyword data")

	if state := f.Snapshot().State; state != StateIdle {
		t.Fatalf("Expected idle before any fetch, got %v", state)
	}

	req := f.Begin("a.com")
	if state := f.Snapshot().State; state != StateLoading {
		t.Fatalf("Expected loading after Begin, got %v", state)
	}

	if !req.Apply([]string{"seo"}, nil) {
		t.Fatal("Apply of the only request should succeed")
	}

	snap := f.Snapshot()
	if snap.State != StateSuccess {
		t.Errorf("Expected success, got %v", snap.State)
	}
	if len(snap.Data) != 1 || snap.Data[0] != "seo" {
		t.Errorf("Unexpected data: %+v", snap.Data)
	}
	if snap.Key != "a.com" {
		t.Errorf("Unexpected key: %q", snap.Key)
	}
}

// TestEmptyResultIsNotError verifies a zero-row success lands in the
// empty state, not error.
func TestEmptyResultIsNotError(t *testing.T) {
	f := NewList[string]("Keyword data")
	f.Begin("a.com").Apply([]string{}, nil)

	snap := f.Snapshot()
	if snap.State != StateEmpty {
		t.Errorf("Expected empty, got %v", snap.State)
	}
	if snap.Message != "" {
		t.Errorf("Empty state must not carry an error message, got %q", snap.Message)
	}
}

// TestErrorClearsData verifies a failure wipes previously shown data so
// stale rows never render next to an error message.
func TestErrorClearsData(t *testing.T) {
	f := NewList[string]("Keyword data")
	f.Begin("a.com").Apply([]string{"seo"}, nil)

	f.Begin("a.com").Apply(nil, &backend.APIError{StatusCode: 500})

	snap := f.Snapshot()
	if snap.State != StateError {
		t.Fatalf("Expected error, got %v", snap.State)
	}
	if snap.Data != nil {
		t.Errorf("Expected data cleared on error, got %+v", snap.Data)
	}
	if snap.Message != "Server error. Please try again later." {
		t.Errorf("Unexpected error message: %q", snap.Message)
	}
}

// TestLastRequestWins verifies a stale completion cannot overwrite the
// newer request's outcome, in either completion order.
func TestLastRequestWins(t *testing.T) {
	f := NewList[string]("Keyword data")

	first := f.Begin("a.com")
	second := f.Begin("b.com")

	// Newer request completes first.
	if !second.Apply([]string{"fresh"}, nil) {
		t.Fatal("Newest request must apply")
	}
	// Stale completion arrives late and must be dropped.
	if first.Apply([]string{"stale"}, nil) {
		t.Fatal("Stale request must not apply")
	}

	snap := f.Snapshot()
	if snap.Key != "b.com" {
		t.Errorf("Expected key b.com, got %q", snap.Key)
	}
	if len(snap.Data) != 1 || snap.Data[0] != "fresh" {
		t.Errorf("Stale data leaked through: %+v", snap.Data)
	}
}

// TestStaleErrorDropped verifies a stale failure cannot replace a newer
// success with an error state.
func TestStaleErrorDropped(t *testing.T) {
	f := NewList[string]("Keyword data")

	first := f.Begin("a.com")
	second := f.Begin("b.com")

	second.Apply([]string{"fresh"}, nil)
	if first.Apply(nil, &backend.APIError{StatusCode: 500}) {
		t.Fatal("Stale error must not apply")
	}

	if snap := f.Snapshot(); snap.State != StateSuccess {
		t.Errorf("Expected success to survive stale error, got %v", snap.State)
	}
}

// TestEmptyKeyIssuesNoFetch verifies Begin with no key leaves the
// fetcher untouched.
func TestEmptyKeyIssuesNoFetch(t *testing.T) {
	f := NewList[string]("Keyword data")
	f.Begin("a.com").Apply([]string{"seo"}, nil)

	if req := f.Begin(""); req != nil {
		t.Fatal("Begin with empty key must not create a request")
	}
	if snap := f.Snapshot(); snap.State != StateSuccess || snap.Key != "a.com" {
		t.Errorf("Empty-key Begin disturbed state: %+v", snap)
	}
}

// TestRunCycle verifies the synchronous convenience wrapper.
func TestRunCycle(t *testing.T) {
	f := NewList[int]("Pages")

	snap := f.Run(context.Background(), "a.com", func(ctx context.Context, key string) ([]int, error) {
		if key != "a.com" {
			t.Errorf("Loader received wrong key %q", key)
		}
		return []int{1, 2, 3}, nil
	})
	if snap.State != StateSuccess || len(snap.Data) != 3 {
		t.Errorf("Unexpected run outcome: %+v", snap)
	}

	// Empty key: loader must not run, snapshot stays.
	snap = f.Run(context.Background(), "", func(ctx context.Context, key string) ([]int, error) {
		t.Fatal("Loader must not be called without a key")
		return nil, nil
	})
	if snap.State != StateSuccess {
		t.Errorf("Empty-key run disturbed state: %+v", snap)
	}
}

// TestReset verifies navigation away discards state and invalidates
// in-flight requests.
func TestReset(t *testing.T) {
	f := NewList[string]("Sites")
	req := f.Begin("a.com")
	f.Reset()

	if req.Apply([]string{"late"}, nil) {
		t.Fatal("Request begun before Reset must not apply")
	}
	if snap := f.Snapshot(); snap.State != StateIdle {
		t.Errorf("Expected idle after Reset, got %v", snap.State)
	}
}
