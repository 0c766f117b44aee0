package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/farm-atlas/pkg/models/domain"
	"github.com/de-tools/farm-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type QueryCmd struct {
	farm     string
	format   string
	timeout  time.Duration
	open     Opener
	reporter *export.Reporter
}

func NewQueryCmd(open Opener, reporter *export.Reporter) *cobra.Command {
	qc := &QueryCmd{open: open, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "query <message>",
		Short: "Run a report query for a farm",
		Args:  cobra.MinimumNArgs(1),
		RunE:  qc.run,
	}

	cmd.Flags().StringVar(&qc.farm, "farm", "", "Farm id the query is scoped to")
	cmd.Flags().StringVar(&qc.format, "format", export.FormatHTML, "Output format (html, json, yaml)")
	cmd.Flags().DurationVar(&qc.timeout, "timeout", 60*time.Second, "Query timeout")

	_ = cmd.MarkFlagRequired("farm")

	return cmd
}

func (qc *QueryCmd) run(cmd *cobra.Command, args []string) error {
	farmID, err := domain.ParseFarmID(qc.farm)
	if err != nil {
		return err
	}
	if !export.ValidReportFormat(qc.format) {
		return fmt.Errorf("unsupported format %q", qc.format)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), qc.timeout)
	defer cancel()

	stack, err := qc.open(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	report, err := stack.Process(ctx, strings.ToLower(strings.Join(args, " ")), farmID)
	if err != nil {
		return fmt.Errorf("failed to run query: %w", err)
	}

	return qc.reporter.Handle(report, qc.format)
}
