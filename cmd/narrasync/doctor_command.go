package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"narrasync/internal/deps"
	"narrasync/internal/preflight"
	"narrasync/internal/services"
)

type doctorReport struct {
	Checks       []preflight.Result `json:"checks"`
	Dependencies []deps.Status      `json:"dependencies"`
	OK           bool               `json:"ok"`
}

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and the synthesis command",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			report := doctorReport{
				Checks:       preflight.RunAll(cmd.Context(), cfg),
				Dependencies: preflight.CheckSystemDeps(cfg),
			}
			failedChecks := preflight.Failed(report.Checks)
			missing := deps.Missing(report.Dependencies)
			report.OK = len(failedChecks) == 0 && len(missing) == 0

			if jsonOut {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				printDoctorReport(cmd, report)
			}

			switch {
			case len(missing) > 0:
				names := make([]string, 0, len(missing))
				for _, m := range missing {
					names = append(names, m.Command)
				}
				return services.Wrap(services.ErrExternalTool, "doctor", "dependencies",
					fmt.Sprintf("missing %s", strings.Join(names, ", ")), nil)
			case len(failedChecks) > 0:
				return services.Wrap(services.ErrConfiguration, "doctor", "checks",
					fmt.Sprintf("%d check(s) failed", len(failedChecks)), nil)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the report as JSON")
	return cmd
}

func printDoctorReport(cmd *cobra.Command, report doctorReport) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	for _, line := range renderSectionHeader("Checks", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, check := range report.Checks {
		kind := statusOK
		if !check.Passed {
			kind = statusError
		}
		fmt.Fprintln(out, renderStatusLine(check.Name, kind, check.Detail, colorize))
	}

	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("Dependencies", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, dep := range report.Dependencies {
		kind := statusOK
		detail := dep.Command
		if !dep.Available {
			kind = statusError
			if dep.Optional {
				kind = statusWarn
			}
			detail = dep.Detail
		}
		fmt.Fprintln(out, renderStatusLine(dep.Name, kind, detail, colorize))
	}
}
