package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"exchange-backend/internal/config"
	"exchange-backend/pkg/database"
	"exchange-backend/pkg/datagen"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "datagen",
		Short: "Generate and load catalog data for the auction service",
	}

	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newLoadCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newGenerateCmd() *cobra.Command {
	var (
		output   string
		supplies int
		bidders  int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a catalog seed file with supplies and bidders",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := datagen.Generate(output, supplies, bidders)
			if err != nil {
				return err
			}
			fmt.Printf("Generated %s\n", output)
			fmt.Printf("  Supplies: %d\n", result.SuppliesCount)
			fmt.Printf("  Bidders:  %d\n", result.BiddersCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "data.json", "output path for the generated JSON file")
	cmd.Flags().IntVarP(&supplies, "supplies", "s", 10, "number of supplies to generate")
	cmd.Flags().IntVarP(&bidders, "bidders", "b", 12, "number of bidders to generate")

	return cmd
}

func newLoadCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load a catalog seed file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("file not found: %s", input)
			}

			cfg := config.Load()
			db, err := database.Connect(cfg.MongoURI)
			if err != nil {
				return err
			}
			defer database.Disconnect(db.Client())

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			result, err := datagen.Load(ctx, db, input)
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %s\n", input)
			fmt.Printf("  Supplies: %d\n", result.SuppliesCount)
			fmt.Printf("  Bidders:  %d\n", result.BiddersCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "data.json", "path to JSON file to load")

	return cmd
}
