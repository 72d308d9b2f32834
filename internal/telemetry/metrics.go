// Package telemetry provides Prometheus metrics for the contest bot.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	ContestsStarted      prometheus.Counter
	ContestsEnded        prometheus.Counter
	InvitesCredited      prometheus.Counter
	LeaderboardRefreshes prometheus.Counter
	TelegramAPIErrors    prometheus.Counter
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		ContestsStarted = promauto.NewCounter(prometheus.CounterOpts{Name: "contest_started_total", Help: "Number of contests started"})
		ContestsEnded = promauto.NewCounter(prometheus.CounterOpts{Name: "contest_ended_total", Help: "Number of contests ended (stop command or expiry)"})
		InvitesCredited = promauto.NewCounter(prometheus.CounterOpts{Name: "contest_invites_credited_total", Help: "Number of invite credits applied to scores"})
		LeaderboardRefreshes = promauto.NewCounter(prometheus.CounterOpts{Name: "contest_leaderboard_refreshes_total", Help: "Number of pinned leaderboard publishes/edits"})
		TelegramAPIErrors = promauto.NewCounter(prometheus.CounterOpts{Name: "contest_telegram_api_errors_total", Help: "Number of failed Telegram Bot API calls"})
	})
}

// Inc increments c if metrics are initialized.
func Inc(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}
