package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()

		store := createStore()
		defer store.Close() //nolint:errcheck

		if err := store.Migrate(); err != nil {
			log.WithError(err).Fatal("migration failed")
		}
		log.Info("migration completed")
	},
}
