// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"database/sql"
	"log"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/Zercerium/zero2prod/internal/config"
	"github.com/Zercerium/zero2prod/internal/database"
	"github.com/Zercerium/zero2prod/internal/server"
)

func main() {
	cmd := &cli.Command{
		Name:   "server",
		Usage:  "Start the newsletter delivery service",
		Flags:  config.Flags(),
		Action: server.Run,
		Commands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "Manage database migrations",
				Commands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "Apply all pending migrations",
						Action: migrateAction(database.RunMigrations),
					},
					{
						Name:   "down",
						Usage:  "Roll back the most recent migration",
						Action: migrateAction(database.MigrateDown),
					},
					{
						Name:   "reset",
						Usage:  "Roll back all migrations",
						Action: migrateAction(database.MigrateReset),
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func migrateAction(step func(*sql.DB) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		db, err := database.Open(cmd.String("database-dsn"))
		if err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()
		return step(db.DB)
	}
}
