package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	_ "infra-object-service/docs"
	"infra-object-service/internal/handlers"
	"infra-object-service/internal/models"
	"infra-object-service/internal/permissions"
	"infra-object-service/internal/services"
)

// RootCommand creates and returns the root command.
func RootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "infra-objects",
		Short:        "Infrastructure object lifecycle service",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(serveCommand(), migrateCommand(), importCommand(), analyzeCommand())
	return rootCmd
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			a := setup(ctx)
			defer a.Close()

			server := fiber.New(fiber.Config{BodyLimit: 64 * 1024 * 1024})

			// Register Prometheus metrics endpoint
			server.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

			api := server.Group("/api")
			api.Get("/swagger/*", swagger.HandlerDefault)
			api.Get("/health", func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})
			handlers.Register(api,
				handlers.NewObjectHandler(a.objects, a.logger),
				handlers.NewAnalysisHandler(a.conflicts, a.logger),
				handlers.NewPlanHandler(a.plans, a.logger))

			for _, r := range server.GetRoutes() {
				a.logger.Debug("route registered", "method", r.Method, "path", r.Path)
			}

			go func() {
				<-ctx.Done()
				a.logger.Info("shutting down")
				if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
					a.logger.Error("shutdown failed", "error", err)
				}
			}()

			port := a.cfg.AppPort
			a.logger.Info("server listening", "port", port)
			return server.Listen(":" + port)
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := InitConfig()
			logger, closer := InitLogger(cfg)
			defer closer.Close()
			MigrateDatabase(ConnectDatabase(cfg, logger))
			logger.Info("migration finished")
			return nil
		},
	}
}

// actorFlags are the identity flags shared by offline commands.
type actorFlags struct {
	tenant string
	actor  string
	role   string
	plan   string
}

func (f *actorFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.tenant, "tenant", "", "Tenant ID")
	cmd.Flags().StringVar(&f.actor, "actor", "cli", "Actor recorded in the history")
	cmd.Flags().StringVar(&f.role, "role", string(permissions.RoleAdmin), "Actor role")
	cmd.Flags().StringVar(&f.plan, "plan", "", "Plan ID")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("plan")
}

func (f *actorFlags) resolve() (permissions.Actor, uuid.UUID, error) {
	planID, err := uuid.Parse(f.plan)
	if err != nil {
		return permissions.Actor{}, uuid.Nil, errors.Wrapf(err, "invalid plan id %q", f.plan)
	}
	return permissions.Actor{ID: f.actor, Role: permissions.ParseRole(f.role), TenantID: f.tenant}, planID, nil
}

func importCommand() *cobra.Command {
	var (
		flags actorFlags
		job   string
	)
	cmd := &cobra.Command{
		Use:   "import [archive]",
		Short: "Create objects from an archive of JSON documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, planID, err := flags.resolve()
			if err != nil {
				return err
			}
			opts := services.ImportOptions{PlanID: planID}
			if job != "" {
				jobID, err := uuid.Parse(job)
				if err != nil {
					return errors.Wrapf(err, "invalid detection job id %q", job)
				}
				opts.DetectionJobID = &jobID
			}

			ctx, stop := signalContext()
			defer stop()
			a := setup(ctx)
			defer a.Close()

			im, err := a.imports.ImportArchive(ctx, args[0], opts, actor)
			if im != nil {
				fmt.Fprintln(cmd.OutOrStdout(), im.GetSummary())
			}
			return err
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&job, "job", "", "Detection job the objects came from")
	return cmd
}

func analyzeCommand() *cobra.Command {
	var (
		flags       actorFlags
		autoResolve bool
		asJSON      bool
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run conflict analysis on a plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			actor, planID, err := flags.resolve()
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()
			a := setup(ctx)
			defer a.Close()

			report, err := a.conflicts.AnalyzeConflicts(ctx, models.AnalysisRequest{
				PlanID:      planID,
				AutoResolve: autoResolve,
			}, actor)
			if report != nil {
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					if encErr := enc.Encode(report); encErr != nil {
						return encErr
					}
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), report.Summary)
				}
			}
			return err
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&autoResolve, "auto-resolve", false, "Deactivate low-confidence duplicates")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full report as JSON")
	return cmd
}
