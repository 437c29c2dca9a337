package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"boostwatch/pkg/reconcile"
)

// Webhook posts alerts to a Slack-compatible incoming webhook. Delivery is
// best effort: failures are logged and never surface back into reconciler
// state. With an empty URL the notifier runs in log-only mode.
type Webhook struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

func NewWebhook(url string, log *zap.Logger) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		log:    log,
	}
}

// PostBoostAlert formats and delivers a new-boost alert.
func (w *Webhook) PostBoostAlert(ctx context.Context, obs reconcile.Observation) {
	w.post(ctx, "boost", formatBoost(obs))
}

// PostHealthAlert delivers a health-watch message.
func (w *Webhook) PostHealthAlert(ctx context.Context, message string) {
	w.post(ctx, "health", ":warning: boostwatch health: "+message)
}

func (w *Webhook) post(ctx context.Context, kind, text string) {
	alertID := uuid.NewString()
	if w.url == "" {
		w.log.Info("alert (log-only, no webhook configured)",
			zap.String("kind", kind), zap.String("alert_id", alertID), zap.String("text", text))
		return
	}
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		w.log.Error("marshal alert payload", zap.Error(err))
		return
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		w.log.Error("build alert request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := w.client.Do(req)
	if err != nil {
		w.log.Error("deliver alert", zap.String("kind", kind), zap.String("alert_id", alertID), zap.Error(err))
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		w.log.Error("webhook rejected alert",
			zap.String("kind", kind), zap.String("alert_id", alertID), zap.Int("status", resp.StatusCode))
		return
	}
	w.log.Info("alert delivered", zap.String("kind", kind), zap.String("alert_id", alertID))
}

func formatBoost(obs reconcile.Observation) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(":zap: *NEW BOOST* %.6g%%\n", obs.Percentage))
	if obs.WasOdds != nil && obs.NowOdds != nil {
		sb.WriteString(fmt.Sprintf("*Odds:* %s → %s\n", obs.WasOdds, obs.NowOdds))
	} else {
		sb.WriteString("*Odds:* not detected\n")
	}
	if c := obs.Calc; c != nil {
		sb.WriteString(fmt.Sprintf("*Implied:* %.2f%% (Δ %.2f)", c.CalculatedPct, c.Discrepancy))
		if c.Significant {
			sb.WriteString(" :rotating_light: discrepancy above threshold")
		}
		sb.WriteString("\n")
	}
	if obs.RawOddsText != "" {
		sb.WriteString(fmt.Sprintf("*OCR odds text:* `%s`\n", truncate(obs.RawOddsText, 120)))
	}
	if obs.RawBoostText != "" {
		sb.WriteString(fmt.Sprintf("*OCR boost text:* `%s`\n", truncate(obs.RawBoostText, 120)))
	}
	sb.WriteString(fmt.Sprintf("_Observed: %s_", obs.ObservedAt.Format("15:04:05")))
	return sb.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
