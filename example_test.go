package smtppool_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/javi11/smtppool"
	"github.com/javi11/smtppool/pkg/smtpcli"
)

func ExampleNewConnectionPool() {
	pool, err := smtppool.NewConnectionPool(smtppool.Config{
		Server: smtppool.ServerConfig{
			Host:     "smtp.example.com",
			Port:     587,
			Security: smtpcli.SecurityStartTLS,
			Username: "user",
			Password: "pass",
		},
		Capacity: 4,
		Logger:   slog.Default(),
	})
	if err != nil {
		panic(err)
	}
	defer pool.Quit()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = pool.Send(ctx, &smtpcli.Message{
		From:    "Sender <sender@example.com>",
		To:      []string{"rcpt@example.com"},
		Subject: "Hello",
		Text:    "Hello from the pool",
	})

	switch {
	case err == nil:
		fmt.Println("sent")
	case smtppool.IsAuthenticationError(err):
		fmt.Println("check the credentials:", err)
	case errors.Is(err, smtppool.ErrAdmissionTimeout):
		fmt.Println("every connection stayed busy:", err)
	case smtppool.IsRetryable(err):
		fmt.Println("try again later:", err)
	default:
		fmt.Println("rejected:", err)
	}
}

func ExamplePoolMetrics() {
	pool, err := smtppool.NewConnectionPool(smtppool.Config{
		Server: smtppool.ServerConfig{Host: "smtp.example.com"},
	})
	if err != nil {
		panic(err)
	}
	defer pool.Quit()

	metrics := pool.GetMetrics()

	fmt.Printf("Messages sent: %d\n", metrics.GetTotalMessagesSent())
	fmt.Printf("Retries: %d\n", metrics.GetTotalRetries())
	fmt.Printf("Average acquire wait: %v\n", metrics.GetAverageAcquireWaitTime())

	stats := pool.Stats()
	fmt.Printf("Idle: %d/%d, connected: %d\n", stats.Idle, stats.Capacity, stats.Connected)

	// JSON serialization for monitoring systems
	snapshot := pool.GetMetricsSnapshot()
	if data, err := json.MarshalIndent(snapshot, "", "  "); err == nil {
		fmt.Printf("%s\n", data)
	}
}
