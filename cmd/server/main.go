// The granthkosh binary runs the bookstore API and its maintenance
// commands.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/granthkosh/granthkosh/config"
	"github.com/granthkosh/granthkosh/database/seeders"
	"github.com/granthkosh/granthkosh/internal/server"
	"github.com/granthkosh/granthkosh/pkg/database"
)

func main() {
	root := &cobra.Command{
		Use:           "granthkosh",
		Short:         "GranthKosh bookstore API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.Start()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP API",
			RunE: func(cmd *cobra.Command, args []string) error {
				return server.Start()
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Seed the database with an admin account and sample books",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := config.Load(); err != nil {
					return err
				}

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := database.Connect(ctx); err != nil {
					return err
				}
				defer database.Disconnect(context.Background()) //nolint:errcheck

				fmt.Println("Seeding database:")
				return seeders.RunAll(ctx, database.DB())
			},
		},
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
