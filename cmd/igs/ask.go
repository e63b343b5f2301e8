package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cortexai/igs/internal/service"
)

var askExplain bool

var askCmd = &cobra.Command{
	Use:   "ask <query...>",
	Short: "Answer a single query and exit",
	Example: `  igs ask "2 ^ 10"
  igs ask who directed Alien
  igs ask --explain "France population multiplied by 2"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askExplain, "explain", false, "show routing and decomposition instead of answering")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	level := "warn"
	if cmd.Flags().Changed("log-level") {
		level = cfg.LogLevel
	}
	setupLogging(level, true)

	query := strings.Join(args, " ")
	d := service.NewDispatcherFromConfig(cmd.Context(), cfg)
	out := cmd.OutOrStdout()

	if askExplain {
		printOutcome(out, d.Explain(query))
		return nil
	}

	res := d.Process(cmd.Context(), query)
	if res.Failed() {
		color.New(color.FgRed).Fprintln(out, res.Text)
		return nil
	}
	fmt.Fprintln(out, res.Text)
	return nil
}

func printOutcome(w io.Writer, o service.Outcome) {
	label := color.New(color.Bold)
	row := func(name, value string) {
		label.Fprintf(w, "%-10s ", name+":")
		fmt.Fprintln(w, value)
	}

	row("provider", string(o.Route.Kind))
	row("rule", o.Route.Rule)
	if o.Route.Trigger != "" {
		row("trigger", fmt.Sprintf("%q", o.Route.Trigger))
	}
	row("reasoning", o.Route.Reasoning)
	if o.Compound != nil {
		row("subject", fmt.Sprintf("%q via %s", o.Compound.Subject, o.SubjectRoute.Kind))
		row("then", o.Compound.Expression("<answer>"))
	}
	if o.Result.Failed() {
		row("error", o.Result.Text)
	}
}
