package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teacher_registry/internal/app"
	domaintelegram "teacher_registry/internal/domain/telegram"
	"teacher_registry/internal/infra/config"
	idb "teacher_registry/internal/infra/database"
	"teacher_registry/internal/infra/logger"
	"teacher_registry/internal/infra/scheduler"
	"teacher_registry/internal/infra/telegram"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/telebot.v3"
	"gorm.io/gorm"
)

const startupTimeout = 30 * time.Second

// deps is what every subcommand needs: loaded config and an open pool.
type deps struct {
	cfg *config.AppConfig
	db  *gorm.DB
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "registry",
		Short:         "Teacher registry: schema migrations, smoke checks, leak audits and the admin bot",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading TEACHER_* variables")

	setup := func(ctx context.Context) (*deps, error) {
		cfg, err := config.Load(envFile)
		if err != nil {
			return nil, fmt.Errorf("could not load application configuration: %w", err)
		}
		logger.Init(cfg)
		logger.Log.WithFields(logrus.Fields{
			"log_level":   cfg.LogLevel,
			"environment": cfg.Environment,
		}).Info("Configuration loaded")

		opts, err := idb.OptionsFromConfig(cfg, logger.Component("database"))
		if err != nil {
			return nil, err
		}
		connectCtx, cancel := context.WithTimeout(ctx, startupTimeout)
		defer cancel()
		db, err := idb.NewConnection(connectCtx, opts)
		if err != nil {
			return nil, fmt.Errorf("could not connect to database: %w", err)
		}
		return &deps{cfg: cfg, db: db}, nil
	}

	root.AddCommand(
		newMigrateCmd(setup),
		newSmokeCmd(setup),
		newAuditCmd(setup),
		newServeCmd(setup),
	)
	return root
}

type setupFunc func(ctx context.Context) (*deps, error)

func closeDB(db *gorm.DB) {
	if err := idb.Close(db); err != nil {
		logger.Log.WithError(err).Warn("Failed to close database pool")
	}
}

func newMigrateCmd(setup setupFunc) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply (or with --down, roll back) the teacher table migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(rt.db)

			log := logger.Component("migrate")
			if down {
				if err := idb.MigrateDown(rt.db); err != nil {
					return err
				}
				log.Info("Migrations rolled back")
				return nil
			}
			if err := idb.MigrateUp(rt.db); err != nil {
				return err
			}
			version, dirty, err := idb.MigrateVersion(rt.db)
			if err != nil {
				return err
			}
			log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll back every migration")
	return cmd
}

func newSmokeCmd(setup setupFunc) *cobra.Command {
	var teacherID int64
	cmd := &cobra.Command{
		Use:   "smoke",
		Short: "Insert, read, delete and verify one teacher row against the live table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(rt.db)

			if !cmd.Flags().Changed("id") {
				teacherID = rt.cfg.SmokeTeacherID
			}
			check := app.NewSmokeCheck(idb.NewGormTeacherRepository(rt.db), logger.Component("smoke"))
			report, err := check.Run(cmd.Context(), teacherID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "smoke check %s passed for teacher %d in %s\n", report.RunID, report.TeacherID, report.Duration)
			return nil
		},
	}
	cmd.Flags().Int64Var(&teacherID, "id", 88888, "teacher_id used for the probe row")
	return cmd
}

func newAuditCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Report sentinel rows that a test run failed to roll back",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB(rt.db)

			auditor := app.NewLeakAuditor(idb.NewGormTeacherRepository(rt.db), nil, 0, rt.cfg.SentinelIDs, logger.Component("audit"))
			report, err := auditor.Audit(cmd.Context())
			if err != nil {
				return err
			}
			if !report.Clean() {
				return fmt.Errorf("leaked sentinel rows: %v", report.Leaked)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "no leaked rows among %v\n", report.Checked)
			return nil
		},
	}
}

func newServeCmd(setup setupFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the audit scheduler and, when a token is configured, the admin bot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := setup(ctx)
			if err != nil {
				return err
			}
			defer closeDB(rt.db)
			mainLogger := logger.Component("main")

			teacherRepo := idb.NewGormTeacherRepository(rt.db)
			mainLogger.Info("Teacher repository initialized.")

			var telegramClient domaintelegram.Client
			var bot *telebot.Bot
			if rt.cfg.TelegramEnabled() {
				b, err := telegram.NewBot(rt.cfg.TelegramToken, logger.Component("telebot"))
				if err != nil {
					return fmt.Errorf("could not create Telegram bot: %w", err)
				}
				bot = b
				telegramClient = telegram.NewTelebotAdapter(b)
			} else {
				mainLogger.Warn("Telegram token not configured; admin bot disabled")
			}

			auditor := app.NewLeakAuditor(teacherRepo, telegramClient, rt.cfg.AdminTelegramID, rt.cfg.SentinelIDs, logger.Component("audit"))
			auditScheduler := scheduler.NewAuditScheduler(auditor, logger.Component("scheduler"), rt.cfg.AuditCronSpec)
			if err := auditScheduler.Start(); err != nil {
				return err
			}
			defer auditScheduler.Stop()

			if bot != nil {
				registry := app.NewRegistryService(teacherRepo, rt.cfg.AdminTelegramID)
				botLogger := logger.Component("telegram")
				telegram.RegisterBotCommands(bot, rt.cfg.AdminTelegramID, botLogger)
				telegram.RegisterAdminHandlers(ctx, bot, registry, auditor, rt.cfg.AdminTelegramID, botLogger)
				mainLogger.Info("Admin command handlers registered.")

				// Start bot in a goroutine so it doesn't block graceful shutdown handling
				go bot.Start()
				defer bot.Stop()
			}

			mainLogger.Info("Application setup complete.")
			<-ctx.Done() // Block until a signal is received
			mainLogger.Info("Shutting down application...")
			return nil
		},
	}
}
