package ocr

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeRecognizer struct {
	active    atomic.Int32
	maxActive atomic.Int32
	calls     atomic.Int32
	closed    atomic.Bool
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte) (string, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		cur := f.maxActive.Load()
		if n <= cur || f.maxActive.CompareAndSwap(cur, n) {
			break
		}
	}
	f.calls.Add(1)
	time.Sleep(time.Millisecond)
	return "text:" + string(image), nil
}

func (f *fakeRecognizer) Close() error {
	f.closed.Store(true)
	return nil
}

func TestEngineInitializesOnceAndSerializes(t *testing.T) {
	var factoryCalls atomic.Int32
	rec := &fakeRecognizer{}
	engine := NewEngine(func() (Recognizer, error) {
		factoryCalls.Add(1)
		time.Sleep(5 * time.Millisecond)
		return rec, nil
	})

	if engine.Started() {
		t.Fatalf("engine must not start before first use")
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := engine.Recognize(context.Background(), []byte("img"))
			if err != nil {
				t.Errorf("recognize: %v", err)
				return
			}
			if got != "text:img" {
				t.Errorf("unexpected text %q", got)
			}
		}()
	}
	wg.Wait()

	if got := factoryCalls.Load(); got != 1 {
		t.Fatalf("expected one factory call, got %d", got)
	}
	if got := rec.maxActive.Load(); got != 1 {
		t.Fatalf("expected serialized recognition, saw %d concurrent calls", got)
	}
	if got := rec.calls.Load(); got != 20 {
		t.Fatalf("expected 20 calls, got %d", got)
	}

	if err := engine.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !rec.closed.Load() {
		t.Fatalf("expected recognizer closed")
	}
}

func TestEngineRetriesFailedInit(t *testing.T) {
	var attempts atomic.Int32
	engine := NewEngine(func() (Recognizer, error) {
		if attempts.Add(1) == 1 {
			return nil, errors.New("tessdata missing")
		}
		return &fakeRecognizer{}, nil
	})

	if _, err := engine.Recognize(context.Background(), []byte("a")); err == nil {
		t.Fatalf("expected init error")
	}
	if _, err := engine.Recognize(context.Background(), []byte("a")); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestEngineRejectsEmptyImage(t *testing.T) {
	engine := NewEngine(func() (Recognizer, error) {
		t.Fatalf("factory must not run for empty input")
		return nil, nil
	})
	if _, err := engine.Recognize(context.Background(), nil); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("expected ErrEmptyImage, got %v", err)
	}
}

func TestEngineCanceledContext(t *testing.T) {
	engine := NewEngine(func() (Recognizer, error) { return &fakeRecognizer{}, nil })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := engine.Recognize(ctx, []byte("a")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
