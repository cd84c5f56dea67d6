package job

import (
	"context"
	"errors"
)

var errNotRunning = errors.New("manager is not running")

// Healthcheck reports the manager healthy while it is started and its
// pool answers a ping.
func Healthcheck(m *Manager) func(context.Context) error {
	return func(ctx context.Context) error {
		if m == nil || !m.isStarted() {
			return errors.Join(ErrHealthcheckFailed, errNotRunning)
		}
		if err := m.pool.Ping(ctx); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
