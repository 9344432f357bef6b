package smtppool

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/javi11/smtppool/pkg/smtpcli"
)

func TestPrometheusCollector(t *testing.T) {
	ctrl := gomock.NewController(t)
	pool := NewMockSMTPConnectionPool(ctrl)

	pool.EXPECT().GetMetricsSnapshot().Return(PoolMetricsSnapshot{
		Stats:                    PoolStats{Capacity: 4, Idle: 3, Acquired: 1, Connected: 2},
		TotalMessagesSent:        10,
		TotalSendFailures:        2,
		TotalRetries:             1,
		TotalKeepAlivePings:      5,
		TotalKeepAliveReconnects: 3,
		TotalKeepAliveFailures:   1,
		Wire: smtpcli.MetricsSnapshot{
			TotalCommands: 12,
			CommandErrors: 2,
			BytesUploaded: 2048,
			AuthAttempts:  3,
			AuthFailures:  1,
		},
	}).AnyTimes()

	collector := NewPrometheusCollector(pool, "smtp", prometheus.Labels{"server": "smtp.example.com:587"})

	registry := prometheus.NewPedanticRegistry()
	require.NoError(t, registry.Register(collector))

	expected := `
# HELP smtp_pool_capacity Number of pooled connections.
# TYPE smtp_pool_capacity gauge
smtp_pool_capacity{server="smtp.example.com:587"} 4
# HELP smtp_pool_messages_total Messages handled, by result.
# TYPE smtp_pool_messages_total counter
smtp_pool_messages_total{result="failed",server="smtp.example.com:587"} 2
smtp_pool_messages_total{result="sent",server="smtp.example.com:587"} 10
# HELP smtp_pool_keep_alive_total Keep-alive actions, by action and result.
# TYPE smtp_pool_keep_alive_total counter
smtp_pool_keep_alive_total{action="any",result="failed",server="smtp.example.com:587"} 1
smtp_pool_keep_alive_total{action="ping",result="total",server="smtp.example.com:587"} 5
smtp_pool_keep_alive_total{action="reconnect",result="total",server="smtp.example.com:587"} 3
# HELP smtp_pool_commands_total SMTP transactions and NOOPs, by result.
# TYPE smtp_pool_commands_total counter
smtp_pool_commands_total{result="failed",server="smtp.example.com:587"} 2
smtp_pool_commands_total{result="ok",server="smtp.example.com:587"} 10
# HELP smtp_pool_uploaded_bytes_total Message bytes written in DATA.
# TYPE smtp_pool_uploaded_bytes_total counter
smtp_pool_uploaded_bytes_total{server="smtp.example.com:587"} 2048
# HELP smtp_pool_auth_total Authentication attempts, by result.
# TYPE smtp_pool_auth_total counter
smtp_pool_auth_total{result="failed",server="smtp.example.com:587"} 1
smtp_pool_auth_total{result="ok",server="smtp.example.com:587"} 2
`

	err := testutil.GatherAndCompare(registry, strings.NewReader(expected),
		"smtp_pool_capacity", "smtp_pool_messages_total", "smtp_pool_keep_alive_total",
		"smtp_pool_commands_total", "smtp_pool_uploaded_bytes_total", "smtp_pool_auth_total")
	assert.NoError(t, err)

	assert.Equal(t, 21, testutil.CollectAndCount(collector))
}
