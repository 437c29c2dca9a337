package main

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"boostwatch/models"
	"boostwatch/pkg/reconcile"
)

// instrumentedNotifier wraps the real notifier with alert metrics and the
// health-event audit table. Delivery semantics stay fire-and-forget.
type instrumentedNotifier struct {
	inner reconcile.Notifier
	met   *metrics
	db    *gorm.DB
	log   *zap.Logger
}

func (n *instrumentedNotifier) PostBoostAlert(ctx context.Context, obs reconcile.Observation) {
	n.met.alertsSent.WithLabelValues("boost").Inc()
	n.inner.PostBoostAlert(ctx, obs)
}

func (n *instrumentedNotifier) PostHealthAlert(ctx context.Context, message string) {
	n.met.alertsSent.WithLabelValues("health").Inc()
	if n.db != nil {
		kind := "stale"
		if strings.Contains(message, "consecutive") {
			kind = "failures"
		}
		if err := n.db.Create(&models.HealthEvent{Kind: kind, Message: message}).Error; err != nil {
			n.log.Warn("persist health event", zap.Error(err))
		}
	}
	n.inner.PostHealthAlert(ctx, message)
}
