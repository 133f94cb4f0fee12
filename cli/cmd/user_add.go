package cmd

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taskcanvas/taskcanvas/services/auth"
	"github.com/taskcanvas/taskcanvas/util"
)

type userAddArgs struct {
	email    string
	name     string
	password string
}

var targetUserAddArgs userAddArgs

func init() {
	userAddCmd.PersistentFlags().StringVar(&targetUserAddArgs.email, "email", "", "New user email")
	userAddCmd.PersistentFlags().StringVar(&targetUserAddArgs.name, "name", "", "New user display name")
	userAddCmd.PersistentFlags().StringVar(&targetUserAddArgs.password, "password", "", "New user password")
	userCmd.AddCommand(userAddCmd)
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new user",
	Run: func(cmd *cobra.Command, args []string) {
		if targetUserAddArgs.email == "" || targetUserAddArgs.password == "" {
			fmt.Println("Arguments --email and --password required")
			fmt.Println("Use command `taskcanvas users add --help` for details.")
			os.Exit(1)
		}

		initConfig()

		store := createStore()
		defer store.Close() //nolint:errcheck

		if err := store.Migrate(); err != nil {
			log.WithError(err).Fatal("migration failed")
		}

		authService := auth.NewService(store, util.Config.JWTSecret, util.Config.TokenExpiry())
		user, err := authService.Register(context.Background(), targetUserAddArgs.email, targetUserAddArgs.name, targetUserAddArgs.password)
		if err != nil {
			log.WithError(err).Fatal("cannot create user")
		}

		fmt.Printf("User %s <%s> created\n", user.Name, user.Email)
	},
}
