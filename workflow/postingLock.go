package workflow

import (
	"context"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"github.com/sirupsen/logrus"
)

// acquirePostingLock takes a best-effort Redis lock around a stock-mutating
// workflow. Correctness does not depend on it; the DB transaction and row
// locks do the real serialization. Returns the release func.
func acquirePostingLock(ctx context.Context, logger *logrus.Logger, scope string) func() {
	locker := config.GetRedisLock()
	if locker == nil {
		return func() {}
	}

	lock, err := locker.Obtain(ctx, "posting:"+scope, 30*time.Second, nil)
	if err != nil {
		logger.WithFields(logrus.Fields{
			"module": "postingLock.go",
			"scope":  scope,
		}).Warn("could not obtain posting lock; proceeding without it: " + err.Error())
		return func() {}
	}
	return func() {
		_ = lock.Release(ctx)
	}
}
