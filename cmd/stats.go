package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"wellness_tracker/internal/config"
	"wellness_tracker/internal/models"
	"wellness_tracker/internal/repository"
	"wellness_tracker/internal/repository/db"
	"wellness_tracker/internal/service"
	"wellness_tracker/internal/stats"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var userID int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print adherence statistics and exercises of a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			conn, err := db.InitDB(cfg.DB.Path)
			if err != nil {
				return fmt.Errorf("init sqlite: %w", err)
			}
			defer func() { _ = conn.Close() }()

			repos := repository.NewRepository(conn)
			ctx := cmd.Context()
			summary, err := service.NewStatisticsService(repos.Exercises, nil).Summary(ctx, userID)
			if err != nil {
				return fmt.Errorf("compute statistics: %w", err)
			}
			exercises, err := repos.Exercises.List(ctx, userID)
			if err != nil {
				return fmt.Errorf("list exercises: %w", err)
			}
			return printStats(cmd.OutOrStdout(), summary, exercises)
		},
	}
	cmd.Flags().IntVar(&userID, "user", 1, "user id")
	return cmd
}

func printStats(out io.Writer, s models.Statistics, exercises []models.Exercise) error {
	fmt.Fprintf(out, "Exercises:       %d (%d completed)\n", s.TotalExercises, s.CompletedExercises)
	fmt.Fprintf(out, "Total training:  %s\n", stats.FormatDuration(s.TotalTrainingSeconds))
	fmt.Fprintf(out, "Current streak:  %d day(s)\n", s.Streak)
	if s.LastTrainedAt != nil {
		fmt.Fprintf(out, "Last trained:    %s\n", s.LastTrainedAt.Local().Format("2006-01-02 15:04"))
	}
	if len(exercises) == 0 {
		return nil
	}

	fmt.Fprintln(out)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tTIMER\tDURATION\tDONE")
	for _, e := range exercises {
		fmt.Fprintf(w, "%s\t%s\t%ds/%ds x%d\t%s\t%d\n",
			e.Name, e.Category,
			e.Timer.WorkSeconds, e.Timer.RestSeconds, e.Timer.SeriesCount,
			stats.FormatClock(e.DurationSeconds), e.TimesCompleted)
	}
	return w.Flush()
}
