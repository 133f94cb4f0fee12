package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/taskcanvas/taskcanvas/db"
	"github.com/taskcanvas/taskcanvas/db/bolt"
	"github.com/taskcanvas/taskcanvas/db/sql"
	"github.com/taskcanvas/taskcanvas/util"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "taskcanvas",
	Short: "TaskCanvas server",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		os.Exit(0)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initConfig() {
	if err := util.ConfigInit(configPath); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}
	util.LogInit()
}

// createStore builds and connects the configured store.
func createStore() db.Store {
	var store db.Store

	switch util.Config.Dialect {
	case util.DialectBolt:
		store = bolt.NewBoltDb(util.Config.BoltPath)
	case util.DialectSQLite:
		store = sql.NewSqlDb(sql.DialectSQLite, util.Config.SQLitePath)
	case util.DialectPostgres:
		store = sql.NewSqlDb(sql.DialectPostgres, util.Config.PostgresDSN)
	default:
		log.Fatalf("unknown store dialect %q", util.Config.Dialect)
	}

	if err := store.Connect(); err != nil {
		log.WithError(err).Fatal("cannot connect to store")
	}
	return store
}
