package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/fynbosch/menuflow"
	"github.com/fynbosch/menuflow/internal/logging"
	"github.com/fynbosch/menuflow/pkg/actions"
	"github.com/fynbosch/menuflow/pkg/adapters/file"
	httpAdapter "github.com/fynbosch/menuflow/pkg/adapters/http"
	"github.com/fynbosch/menuflow/pkg/adapters/memory"
	redisAdapter "github.com/fynbosch/menuflow/pkg/adapters/redis"
	"github.com/fynbosch/menuflow/pkg/ports"
	"github.com/fynbosch/menuflow/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long: `Starts the Menuflow engine behind an HTTP webhook endpoint.
Positions are kept in memory by default; pass --redis (or set REDIS_ADDR)
for durable storage and cross-replica turn serialization.`,
	Run: func(cmd *cobra.Command, args []string) {
		dir, _ := cmd.Flags().GetString("templates")
		port, _ := cmd.Flags().GetString("port")
		redisAddr, _ := cmd.Flags().GetString("redis")
		level, _ := cmd.Flags().GetString("log-level")

		if redisAddr == "" {
			redisAddr = os.Getenv("REDIS_ADDR")
		}

		logger := logging.New(logging.ParseLevel(level))

		engine := menuflow.New(file.NewSource(dir), menuflow.WithLogger(logger))
		engine.RegisterAction("static_reply", actions.StaticReply())

		// Broken template configuration must abort startup, not surface
		// as apologies mid-conversation.
		if err := engine.Preload(); err != nil {
			fmt.Printf("Template configuration error: %v\n", err)
			os.Exit(1)
		}

		var store ports.PositionStore
		sessionOpts := []session.Option{session.WithLogger(logger)}
		if redisAddr != "" {
			client := redis.NewClient(&redis.Options{
				Addr:     redisAddr,
				Password: os.Getenv("REDIS_PASSWORD"),
			})
			defer func() { _ = client.Close() }()

			store = redisAdapter.NewFromClient(client)
			// Cross-replica turn serialization locks through the same
			// client the store uses; in-process mutexes cover the rest.
			sessionOpts = append(sessionOpts, session.WithLocker(redisAdapter.NewLocker(client, "menuflow:")))
			logger.Info("using redis position store", "addr", redisAddr)
		} else {
			store = memory.NewStore()
			logger.Warn("using in-memory position store; positions are lost on restart")
		}
		sessions := session.NewManager(store, sessionOpts...)

		handler := httpAdapter.NewHandler(engine, sessions, httpAdapter.WithLogger(logger))

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Menuflow webhook server on %s\n", srv.Addr)
			fmt.Printf("Serving templates from: %s\n", dir)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Menuflow server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("redis", "", "Redis address for the position store (host:port)")
}
