package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/elbasanier-main/dlarc/internal/building"
	"github.com/elbasanier-main/dlarc/internal/reporter"
	"github.com/elbasanier-main/dlarc/internal/sequencer"
	"github.com/elbasanier-main/dlarc/internal/standards"
	"github.com/elbasanier-main/dlarc/internal/ui"
)

var (
	flagJSON        bool
	flagOutput      string
	flagCrew        int
	flagTempF       float64
	flagMaxParallel int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dlarc",
		Short: "Standards-constrained construction sequencing and scheduling",
		Long: `dlarc turns a building description into a time-phased activity network,
computes the critical path, and validates the result against engineering
code constraints (ACI 318-19, ACI 347-04). Floors are strictly sequential:
floor N+1 cannot start before floor N's code-mandated wait time elapses.`,
	}

	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "Write output to file instead of stdout")
	rootCmd.PersistentFlags().IntVar(&flagCrew, "crew", 0, "Override crew size from the building file")
	rootCmd.PersistentFlags().Float64Var(&flagTempF, "temp", 0, "Override ambient temperature (°F)")

	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(standardsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadEngine loads the standards table and builds the pipeline. The
// table is loaded exactly once per process and shared read-only.
func loadEngine() (*sequencer.Sequencer, error) {
	table, err := standards.Load()
	if err != nil {
		return nil, fmt.Errorf("load standards tables: %w", err)
	}
	return sequencer.New(table), nil
}

func loadParams(path string) (*building.Params, error) {
	p, err := building.ParseFile(path)
	if err != nil {
		return nil, err
	}
	if flagCrew > 0 {
		p.CrewSize = flagCrew
	}
	if flagTempF > 0 {
		p.AmbientTempF = flagTempF
	}
	return p, nil
}

func outputWriter() (*os.File, func(), error) {
	if flagOutput == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(flagOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <building.json>",
		Short: "Compute the CPM schedule and validation for one building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := loadEngine()
			if err != nil {
				return err
			}
			p, err := loadParams(args[0])
			if err != nil {
				return err
			}
			out, err := seq.Run(p)
			if err != nil {
				return describeFailure(err)
			}

			w, done, err := outputWriter()
			if err != nil {
				return err
			}
			defer done()

			r := reporter.New(out)
			if flagJSON {
				return r.WriteJSON(w)
			}
			r.PrintSchedule(w)
			fmt.Fprintln(w)
			r.PrintValidation(w)
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <building.json>",
		Short: "Run constructability checks against one building",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := loadEngine()
			if err != nil {
				return err
			}
			p, err := loadParams(args[0])
			if err != nil {
				return err
			}
			out, err := seq.Run(p)
			if err != nil {
				return describeFailure(err)
			}

			w, done, err := outputWriter()
			if err != nil {
				return err
			}
			defer done()

			r := reporter.New(out)
			if flagJSON {
				return r.WriteJSON(w)
			}
			r.PrintValidation(w)
			return nil
		},
	}
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <building.json>...",
		Short: "Schedule several independent buildings concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seq, err := loadEngine()
			if err != nil {
				return err
			}

			params := make([]*building.Params, 0, len(args))
			for _, path := range args {
				p, err := loadParams(path)
				if err != nil {
					return err
				}
				params = append(params, p)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results := seq.RunBatch(ctx, params, flagMaxParallel)

			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "%s %s: %v\n", ui.BoldRed("✗"), res.Name, res.Err)
					continue
				}
				fmt.Printf("%s %-24s %6.1f days  score %.2f  %s\n",
					ui.Green("✓"), res.Name,
					res.Outcome.Schedule.TotalDurationDays,
					res.Outcome.Validation.Score,
					constructableTag(res.Outcome.Validation.Constructable))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d buildings failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&flagMaxParallel, "max-parallel", 4, "Max buildings scheduled concurrently")
	return cmd
}

func constructableTag(ok bool) string {
	if ok {
		return ui.BoldGreen("constructable")
	}
	return ui.BoldRed("not constructable")
}

func standardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standards",
		Short: "Query the loaded engineering standards tables",
	}
	cmd.AddCommand(standardsListCmd())
	cmd.AddCommand(formRemovalCmd())
	cmd.AddCommand(phiCmd())
	cmd.AddCommand(materialCmd())
	return cmd
}

func standardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List loaded standards and known material grades",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := standards.Load()
			if err != nil {
				return err
			}
			for _, s := range table.Consulted() {
				fmt.Println(s)
			}
			fmt.Printf("material grades: %v\n", table.Materials())
			return nil
		},
	}
}

func formRemovalCmd() *cobra.Command {
	var (
		member   string
		spanFt   float64
		loadCond string
		reshores bool
		tempF    float64
	)
	cmd := &cobra.Command{
		Use:   "form-removal",
		Short: "Look up the minimum formwork removal time",
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := standards.Load()
			if err != nil {
				return err
			}
			fr, err := table.FormRemoval(standards.MemberType(member), spanFt,
				standards.LoadCondition(loadCond), reshores, tempF)
			if err != nil {
				return err
			}
			fmt.Printf("%.2f days (%s %s", fr.Days, fr.Ref.Standard, fr.Ref.Section)
			if fr.ColdAdjusted {
				fmt.Printf(", cold-weather adjusted")
			}
			fmt.Println(")")
			return nil
		},
	}
	cmd.Flags().StringVar(&member, "member", "slab", "Member type (column|wall|slab|beam|joist)")
	cmd.Flags().Float64Var(&spanFt, "span", 15, "Span in feet")
	cmd.Flags().StringVar(&loadCond, "load", string(standards.LiveLessThanDead), "Load condition")
	cmd.Flags().BoolVar(&reshores, "reshores", true, "Reshores placed after stripping")
	cmd.Flags().Float64Var(&tempF, "temp-f", 70, "Ambient temperature (°F)")
	return cmd
}

func phiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "phi <loading-mode>",
		Short: "Look up a strength-reduction factor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := standards.Load()
			if err != nil {
				return err
			}
			phi, err := table.PhiFactor(standards.LoadingMode(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("phi = %.2f — %s (%s %s)\n", phi.Phi, phi.Description,
				phi.Ref.Standard, phi.Ref.Section)
			return nil
		},
	}
}

func materialCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "material <grade>",
		Short: "Look up concrete grade properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := standards.Load()
			if err != nil {
				return err
			}
			m, err := table.Material(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: fc' = %.0f MPa (%.0f psi), Ec = %.0f psi, %s weight\n",
				m.Grade, m.FcMPa, m.FcPsi, m.EcPsi, m.Weight)
			return nil
		},
	}
}

// describeFailure separates "could not compute a schedule" hard failures
// from ordinary lookups so the exit message names the actual cause.
func describeFailure(err error) error {
	switch {
	case errors.Is(err, building.ErrInvalidInput):
		return fmt.Errorf("invalid building input: %w", err)
	case errors.Is(err, standards.ErrNotFound):
		return fmt.Errorf("standards lookup miss (no fallback applied): %w", err)
	default:
		return err
	}
}
