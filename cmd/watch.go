package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/temsafy/temsafy/internal/services/dashboard"
	"github.com/temsafy/temsafy/internal/syncpoll"
)

// watchCmd tails the dashboard snapshot endpoint and prints change events
// as they are detected, the same diffing the web client performs.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the dashboard and print change events",
	Run: func(cmd *cobra.Command, args []string) {
		url, _ := cmd.Flags().GetString("url")
		token, _ := cmd.Flags().GetString("token")
		interval, _ := cmd.Flags().GetDuration("interval")
		userFlag, _ := cmd.Flags().GetString("user")
		deptFlag, _ := cmd.Flags().GetString("department")

		var viewer syncpoll.Viewer
		if userFlag != "" {
			id, err := uuid.Parse(userFlag)
			if err != nil {
				fmt.Println("Invalid --user id", err)
				os.Exit(1)
			}
			viewer.UserID = id
		}
		if deptFlag != "" {
			id, err := uuid.Parse(deptFlag)
			if err != nil {
				fmt.Println("Invalid --department id", err)
				os.Exit(1)
			}
			viewer.DepartmentID = &id
		}

		poller := syncpoll.NewPoller(syncpoll.NewHTTPFetcher(url, token), interval)

		var mu sync.Mutex
		var prev *dashboard.Snapshot

		unsubscribe := poller.Subscribe(func(body []byte) {
			snap, err := syncpoll.ParseSnapshot(body)
			if err != nil {
				fmt.Println("Unable to decode snapshot", err)
				return
			}

			mu.Lock()
			events := syncpoll.DiffSnapshots(prev, snap, viewer)
			prev = snap
			mu.Unlock()

			for _, e := range events {
				fmt.Printf("[%s] %s %s: %s\n", time.Now().Format(time.TimeOnly), e.Type, e.Entity, e.Message)
			}
		})
		defer unsubscribe()
		defer poller.Stop()

		fmt.Printf("Watching %s every %s, Ctrl-C to stop\n", url, interval)

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		if err := poller.LastError(); err != nil {
			fmt.Println("Last poll error:", err)
		}
	},
}

func init() {
	watchCmd.Flags().String("url", "http://localhost:6060/api/dashboard/real-time", "Snapshot endpoint to poll")
	watchCmd.Flags().String("token", "", "Bearer token for the API")
	watchCmd.Flags().Duration("interval", syncpoll.DefaultInterval, "Poll interval")
	watchCmd.Flags().String("user", "", "User id to scope task events to")
	watchCmd.Flags().String("department", "", "Department id to scope task events to")

	rootCmd.AddCommand(watchCmd)
}
