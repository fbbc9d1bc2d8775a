package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Rakhulsr/venue-admin/app/client"
	"github.com/Rakhulsr/venue-admin/app/configs"
	"github.com/Rakhulsr/venue-admin/app/models"
	"github.com/Rakhulsr/venue-admin/app/repositories"
	"github.com/Rakhulsr/venue-admin/app/routes"
	"github.com/Rakhulsr/venue-admin/app/services"
	"github.com/Rakhulsr/venue-admin/app/utils/logger"
	"github.com/Rakhulsr/venue-admin/app/utils/sessions"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func NewCommand(env configs.ENV, log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "venue-admin",
		Usage: "Admin console for venue bookings",
		Action: func(ctx context.Context, c *cli.Command) error {
			return serve(ctx, env, log)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the admin console",
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, env, log)
				},
			},
			{
				Name:  "export",
				Usage: "Export a list from the API to a file",
				Commands: []*cli.Command{
					exportCategoriesCommand(env, log),
					exportVenuesCommand(env, log),
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session, encryption and CSRF keys for .env",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Value: ".env.new_keys", Usage: "file to write the keys to, empty to only print them"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					if err := configs.GenerateSessionKeys(os.Stdout, c.String("out")); err != nil {
						return err
					}
					log.Info("generate-keys: key generation complete")
					return nil
				},
			},
		},
	}
}

func RunCli(env configs.ENV, log *zap.Logger) {
	log = logger.OrNop(log)
	if err := NewCommand(env, log).Run(context.Background(), os.Args); err != nil {
		log.Fatal("RunCli: command failed", zap.Error(err))
	}
}

func serve(_ context.Context, env configs.ENV, log *zap.Logger) error {
	router, err := routes.NewRouter(env, log)
	if err != nil {
		return err
	}

	server := http.Server{
		Addr:              env.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("serve: server starting", zap.String("addr", server.Addr), zap.String("api", env.APIBaseURL))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Value: "csv", Usage: "csv or xls"},
		&cli.StringFlag{Name: "out", Usage: "output file, defaults to the generated name"},
		&cli.StringFlag{Name: "dir", Value: ".", Usage: "directory for the generated name"},
		&cli.StringFlag{Name: "token", Usage: "bearer token, defaults to API_TOKEN"},
	}
}

func exportCategoriesCommand(env configs.ENV, log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "Export the category tree",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "search", Usage: "title filter"},
			&cli.StringFlag{Name: "module", Value: services.AllModules, Usage: "module id"},
			&cli.StringFlag{Name: "lang", Usage: "label for the file name"},
		}, exportFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			f, err := services.ParseExportFormat(c.String("format"))
			if err != nil {
				return err
			}
			repos, err := cliRepositories(env, c.String("token"), log)
			if err != nil {
				return err
			}

			categories, err := repos.Categories.GetAll(ctx, repositories.CategoryQuery{})
			if err != nil {
				return fmt.Errorf("failed to load categories: %w", err)
			}
			modules, err := repos.Modules.GetAll(ctx)
			if err != nil {
				log.Warn("export categories: failed to load modules", zap.Error(err))
			}
			moduleNames := models.ModuleNames(modules)

			moduleID := c.String("module")
			scope := c.String("lang")
			if scope == "" && moduleID != services.AllModules {
				scope = moduleNames[moduleID]
			}

			rows := services.Flatten(services.BuildTree(categories, c.String("search"), moduleID))
			export := services.BuildExport("categories", scope, f, rows, services.CategoryColumns(moduleNames), time.Now())
			return save(ctx, c, export, log)
		},
	}
}

func exportVenuesCommand(env configs.ENV, log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "venues",
		Usage: "Export venues",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "zone", Usage: "zone id"},
			&cli.StringFlag{Name: "view", Usage: "top-picks for the curated list"},
		}, exportFlags()...),
		Action: func(ctx context.Context, c *cli.Command) error {
			f, err := services.ParseExportFormat(c.String("format"))
			if err != nil {
				return err
			}
			repos, err := cliRepositories(env, c.String("token"), log)
			if err != nil {
				return err
			}

			var venues []models.Venue
			scope := c.String("view")
			if scope == "top-picks" {
				venues, err = repos.Venues.GetTopPicks(ctx)
			} else {
				venues, err = repos.Venues.GetAll(ctx, c.String("zone"))
				scope = c.String("zone")
			}
			if err != nil {
				return fmt.Errorf("failed to load venues: %w", err)
			}

			export := services.BuildExport("venues", scope, f, venues, services.VenueColumns(), time.Now())
			return save(ctx, c, export, log)
		},
	}
}

// cliRepositories authenticates with the token flag or API_TOKEN, held in
// memory for the lifetime of the command.
func cliRepositories(env configs.ENV, token string, log *zap.Logger) (*repositories.Repositories, error) {
	if token == "" {
		token = env.APIToken
	}
	auth := sessions.NewAuthContext(sessions.NewMemoryStorage(map[string]string{sessions.TokenKey: token}))
	if err := auth.Check(); err != nil {
		return nil, fmt.Errorf("no usable token, pass --token or set API_TOKEN: %w", err)
	}

	fetcher := client.NewFetcher(client.Options{
		BaseURL: env.APIBaseURL,
		Timeout: env.APITimeout,
		Retries: env.APIRetries,
		Backoff: env.APIRetryBackoff,
		Logger:  log,
	}).WithAuth(auth)
	return repositories.New(fetcher, env.ImageBaseURL, log), nil
}

func save(ctx context.Context, c *cli.Command, export services.Export, log *zap.Logger) error {
	saver := &services.DiskSaver{Dir: c.String("dir"), Path: c.String("out")}
	if err := saver.Save(ctx, export); err != nil {
		return err
	}
	log.Info("export: file written", zap.String("path", saver.Written), zap.Int("bytes", len(export.Body)))
	return nil
}
