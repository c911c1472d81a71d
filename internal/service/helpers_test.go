package service_test

import (
	"sync"
	"time"

	"github.com/ndewijer/Tax-Loss-Harvesting-Backend/internal/service"
)

// testSelection pairs a SelectionService with a settable clock.
type testSelection struct {
	svc *service.SelectionService

	mu  sync.Mutex
	now time.Time
}

func (ts *testSelection) setNow(now time.Time) {
	ts.mu.Lock()
	ts.now = now
	ts.mu.Unlock()
	ts.svc.SetClock(func() time.Time {
		ts.mu.Lock()
		defer ts.mu.Unlock()
		return ts.now
	})
}
