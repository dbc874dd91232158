package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"technician-dispatch-service/internal/adapters/export"
	"technician-dispatch-service/internal/adapters/repositories"
	"technician-dispatch-service/internal/application"
	"technician-dispatch-service/internal/config"
	"technician-dispatch-service/internal/platform/db"
	"technician-dispatch-service/internal/platform/logging"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "dbtool",
	Short: "Database and reporting utilities for the dispatch service",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			fmt.Fprintln(os.Stderr, "No .env file found (using environment variables)")
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logging.Setup(cfg.Env, cfg.LogLevel)

		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required")
		}
		return nil
	},
	SilenceUsage: true,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Create tables, constraints and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB) error {
			log.Info().Msg("initializing database schema")
			if err := repositories.InitSchema(ctx, conn); err != nil {
				return err
			}
			log.Info().Msg("schema ready")
			return nil
		})
	},
}

var seedPath string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load appointments and absences from a JSON seed file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := seedPath
		if path == "" {
			path = cfg.SeedPath
		}
		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB) error {
			log.Info().Str("path", path).Msg("seeding database")
			if err := repositories.SeedFromJSON(ctx, conn, path); err != nil {
				return err
			}
			log.Info().Msg("seeding complete")
			return nil
		})
	},
}

var (
	routeTechnician string
	routeDay        string
	routeFormat     string
)

var routeCmd = &cobra.Command{
	Use:   "route",
	Short: "Print the estimated route of one technician day",
	Example: `  dbtool route --technician tech-1 --day 2026-03-02
  dbtool route --technician tech-1 --day 2026-03-02 --format kml > route.kml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		window, err := cfg.Window()
		if err != nil {
			return err
		}
		day, err := time.ParseInLocation(time.DateOnly, routeDay, window.Loc())
		if err != nil {
			return fmt.Errorf("route: --day must be YYYY-MM-DD: %w", err)
		}

		return withDB(cmd.Context(), func(ctx context.Context, conn *sql.DB) error {
			appts := repositories.NewPostgresAppointmentRepository(conn)
			sched, err := application.NewScheduler(appts, repositories.NewPostgresAbsenceRepository(conn), nil, application.Settings{
				Window:     window,
				Route:      cfg.RouteParams(),
				Suggestion: cfg.SuggestionParams(),
			})
			if err != nil {
				return err
			}

			est, err := sched.EstimateRoute(ctx, routeTechnician, day)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch routeFormat {
			case "kml":
				return export.WriteRouteKML(out, routeTechnician+" "+routeDay, est, window.Loc())
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]any{
					"technician_id":          routeTechnician,
					"day":                    routeDay,
					"total_distance_km":      est.TotalDistanceKm,
					"total_duration_minutes": est.TotalDurationMinutes,
					"skipped_legs":           est.SkippedLegs,
					"polyline":               export.EncodeRoute(est),
				})
			default:
				return fmt.Errorf("route: unknown format %q (json or kml)", routeFormat)
			}
		})
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedPath, "path", "", "seed file (defaults to SEED_PATH)")

	routeCmd.Flags().StringVar(&routeTechnician, "technician", "", "technician id")
	routeCmd.Flags().StringVar(&routeDay, "day", "", "day as YYYY-MM-DD")
	routeCmd.Flags().StringVar(&routeFormat, "format", "json", "output format: json or kml")
	_ = routeCmd.MarkFlagRequired("technician")
	_ = routeCmd.MarkFlagRequired("day")

	rootCmd.AddCommand(schemaCmd, seedCmd, routeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(ctx, conn)
}
