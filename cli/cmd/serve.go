package cmd

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taskcanvas/taskcanvas/api"
	"github.com/taskcanvas/taskcanvas/services/auth"
	"github.com/taskcanvas/taskcanvas/util"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the TaskCanvas server",
	Run: func(cmd *cobra.Command, args []string) {
		initConfig()

		store := createStore()
		defer store.Close() //nolint:errcheck

		if err := store.Migrate(); err != nil {
			log.WithError(err).Fatal("migration failed")
		}

		if util.Config.JWTSecret == "" {
			log.Fatal("jwt_secret is required to serve")
		}

		authService := auth.NewService(store, util.Config.JWTSecret, util.Config.TokenExpiry())
		router := api.Route(store, authService)

		log.WithField("port", util.Config.Port).Info("listening")
		if err := http.ListenAndServe(util.Config.Port, router); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	},
}
