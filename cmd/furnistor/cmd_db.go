package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/furnistor/config"
	"github.com/shashiranjanraj/furnistor/database/seeders"
	"github.com/shashiranjanraj/furnistor/pkg/database"
)

// furnistor seed — populate the database with starter data.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all registered database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := database.Connect(ctx); err != nil {
			return err
		}
		defer database.Disconnect(context.Background()) //nolint:errcheck

		if err := database.EnsureIndexes(ctx); err != nil {
			return err
		}

		fmt.Println("Seeding database...")
		if err := seeders.RunAll(ctx, database.DB()); err != nil {
			return err
		}
		fmt.Println("Done.")
		return nil
	},
}
