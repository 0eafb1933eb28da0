// Package mocks provides centralized mock implementations for testing.
//
// This package contains mock implementations of the store, events and
// practice interfaces, so handler and service tests share one set of fakes
// instead of defining inline mocks in every test file.
//
// Usage:
//
//	import "github.com/phrazzld/hanzi-strokes/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    cards := &mocks.MockCardStateStore{
//	        ListDueFn: func(ctx context.Context, now time.Time, limit int) ([]*domain.CardState, error) {
//	            return nil, errors.New("connection refused")
//	        },
//	    }
//
//	    // Use the mock in your test...
//	}
//
// Every mock exposes per-method function fields (XxxFn) that take precedence
// over the default return values, and records calls under a mutex.
package mocks
