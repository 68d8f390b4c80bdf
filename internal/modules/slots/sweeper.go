package slots

import (
	"context"
	"log"
	"time"
)

// StartSweeper runs Sweep on a fixed interval until the context is done or
// the returned channel is closed. A failed sweep is logged and retried next
// tick; correctness needs eventual release, not timely release. Overlapping
// runs are safe because the sweep is a single conditional bulk update.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) chan struct{} {
	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				released, err := m.Sweep(ctx)
				if err != nil {
					log.Printf("slot sweep failed, retrying next tick: %v", err)
					continue
				}
				if released > 0 {
					log.Printf("slot sweep released %d expired lock(s)", released)
				}
			case <-stopCh:
				log.Println("slot sweeper stopped")
				return
			case <-ctx.Done():
				log.Println("slot sweeper stopped (context done)")
				return
			}
		}
	}()

	log.Printf("slot sweeper started with interval %v", interval)
	return stopCh
}
