package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Meltonq/autopost/internal/schedule"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the posting scheduler",
	RunE:  runScheduler,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	runner := schedule.New(a.loc)
	if err := runner.Add(scheduleSpec(a.cfg, a.th), func() {
		if err := a.poster.Run(ctx, "schedule", false); err != nil {
			log.Error().Err(err).Msg("scheduled post failed")
		}
	}); err != nil {
		return err
	}

	if a.cfg.SendTestOnStart {
		if err := a.poster.Run(ctx, "startup-test", true); err != nil {
			log.Error().Err(err).Msg("startup test post failed")
		}
	}

	runner.Start()
	log.Info().Str("timezone", a.cfg.Timezone).
		Int("active_from", a.cfg.ActiveHoursStart).Int("active_to", a.cfg.ActiveHoursEnd).
		Msg("scheduler started")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Info().Str("signal", s.String()).Msg("shutting down")

	cancel()
	runner.Stop()
	return nil
}
