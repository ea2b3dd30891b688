package host

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Iron-Ham/pulse/internal/envelope"
	"github.com/Iron-Ham/pulse/internal/errors"
)

// fakeChannel answers directed sends from a per-recipient function.
type fakeChannel struct {
	recipients []int
	listErr    error
	reply      func(ctx context.Context, id int) (any, error)

	mu       sync.Mutex
	sent     []int
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (f *fakeChannel) Listen(Kind, Listener) func() { return func() {} }

func (f *fakeChannel) SendDirected(ctx context.Context, id int, _ envelope.Envelope) (any, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.sent = append(f.sent, id)
	f.mu.Unlock()

	return f.reply(ctx, id)
}

func (f *fakeChannel) Recipients(context.Context) ([]int, error) {
	return f.recipients, f.listErr
}

func (f *fakeChannel) SendUndirected(context.Context, envelope.Envelope) (any, error) {
	return nil, errors.ErrNoReceiver
}

func TestBroadcast_RepliesInEnumerationOrder(t *testing.T) {
	ch := &fakeChannel{
		recipients: []int{3, 1, 2},
		reply: func(_ context.Context, id int) (any, error) {
			// Later recipients answer first.
			time.Sleep(time.Duration(4-id) * time.Millisecond)
			return fmt.Sprintf("tab-%d", id), nil
		},
	}

	got, err := Broadcast(context.Background(), ch, envelope.New("c", "a", nil), 0)
	if err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
	want := []any{"tab-3", "tab-1", "tab-2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Broadcast() = %v, want %v", got, want)
	}
	if len(ch.sent) != 3 {
		t.Errorf("sent %d directed messages, want 3", len(ch.sent))
	}
}

func TestBroadcast_NoRecipients(t *testing.T) {
	ch := &fakeChannel{reply: func(context.Context, int) (any, error) { return nil, nil }}

	got, err := Broadcast(context.Background(), ch, envelope.New("c", "a", nil), 0)
	if err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Broadcast() = %#v, want empty non-nil slice", got)
	}
}

func TestBroadcast_FirstFailureWins(t *testing.T) {
	boom := errors.New("boom")
	ch := &fakeChannel{
		recipients: []int{1, 2, 3},
		reply: func(ctx context.Context, id int) (any, error) {
			if id == 2 {
				return nil, boom
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
				return id, nil
			}
		},
	}

	start := time.Now()
	got, err := Broadcast(context.Background(), ch, envelope.New("c", "a", nil), 0)
	if !errors.Is(err, boom) {
		t.Fatalf("Broadcast() error = %v, want %v", err, boom)
	}
	if got != nil {
		t.Errorf("Broadcast() should not return partial results, got %v", got)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("outstanding sends were not cancelled")
	}
}

func TestBroadcast_Limit(t *testing.T) {
	ch := &fakeChannel{
		recipients: []int{1, 2, 3, 4, 5, 6},
		reply: func(_ context.Context, id int) (any, error) {
			time.Sleep(5 * time.Millisecond)
			return id, nil
		},
	}

	if _, err := Broadcast(context.Background(), ch, envelope.New("c", "a", nil), 2); err != nil {
		t.Fatalf("Broadcast() error = %v", err)
	}
	if peak := ch.peak.Load(); peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestBroadcast_EnumerationError(t *testing.T) {
	ch := &fakeChannel{listErr: errors.ErrHubClosed}

	if _, err := Broadcast(context.Background(), ch, envelope.New("c", "a", nil), 0); !errors.Is(err, errors.ErrHubClosed) {
		t.Errorf("Broadcast() error = %v, want ErrHubClosed", err)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Internal, "internal"},
		{External, "external"},
		{Kind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
