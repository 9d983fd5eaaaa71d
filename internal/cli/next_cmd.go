package cli

import (
	"fmt"
	"time"

	"proservis/internal/domain/recurrence"
	"proservis/internal/infra/config"
	"proservis/internal/infra/logger"

	"github.com/spf13/cobra"
)

func newNextCmd() *cobra.Command {
	var (
		date      string
		frequency string
		weekdays  string
		day       string
		dates     string
		count     int
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the next maintenance date for a frequency policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadPreview()
			if err != nil {
				return err
			}
			logger.Configure(logger.Log, cmd.ErrOrStderr(), cfg)

			ref := recurrence.DateOnly(time.Now())
			if date != "" {
				if ref, err = recurrence.ParseDate(date); err != nil {
					return err
				}
			}

			var policy recurrence.Policy
			if policy.Weekdays, err = recurrence.ParseWeekdays(weekdays); err != nil {
				return err
			}
			if day != "" {
				if policy.DayOfMonth, err = recurrence.ParseDayOfMonth(day); err != nil {
					return err
				}
			}
			if policy.ExplicitDates, err = recurrence.ParseDateList(dates); err != nil {
				return err
			}

			freq := recurrence.Frequency(frequency)
			if !freq.Valid() {
				logger.Log.WithField("frequency", frequency).Warn("Unknown frequency, nothing will be scheduled")
			}

			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}

			out := cmd.OutOrStdout()
			projected := recurrence.Project(ref, freq, policy, count)
			if len(projected) == 0 {
				fmt.Fprintln(out, "none")
				return nil
			}
			for _, d := range projected {
				fmt.Fprintln(out, d)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Reference date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&frequency, "frequency", "", fmt.Sprintf("Frequency code %v", recurrence.Frequencies()))
	cmd.Flags().StringVar(&weekdays, "weekdays", "", "Weekly weekdays, comma separated, 1=Monday ... 7=Sunday")
	cmd.Flags().StringVar(&day, "day", "", "Monthly day of month, 1-31")
	cmd.Flags().StringVar(&dates, "dates", "", "Custom dates, comma separated YYYY-MM-DD")
	cmd.Flags().IntVar(&count, "count", 1, "Number of upcoming dates to print")
	_ = cmd.MarkFlagRequired("frequency")

	return cmd
}
