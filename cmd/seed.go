package cmd

import (
	"ecommerce-backend/config"
	"ecommerce-backend/models"
	"ecommerce-backend/seeds"
	"ecommerce-backend/store"
	"fmt"
	"github.com/spf13/cobra"
)

var resetBeforeSeed bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the sample catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}

		db, err := config.SetupDatabaseConnection(cfg.Database)
		if err != nil {
			return err
		}

		if resetBeforeSeed {
			err := db.Migrator().DropTable(&models.ProductTag{}, &models.Product{}, &models.Tag{}, &models.Category{})
			if err != nil {
				return fmt.Errorf("dropping tables: %w", err)
			}
		}

		s, err := store.NewGormStore(db)
		if err != nil {
			return err
		}
		defer s.Close()

		summary, err := seeds.Seed(cmd.Context(), s)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d tags, %d products\n",
			summary.Categories, summary.Tags, summary.Products)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&resetBeforeSeed, "reset", false, "drop and recreate the tables first")
}
