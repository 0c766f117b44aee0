package commands

import (
	"fmt"
	"strings"

	"github.com/de-tools/farm-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type RouteCmd struct {
	open     Opener
	reporter *export.Reporter
}

func NewRouteCmd(open Opener, reporter *export.Reporter) *cobra.Command {
	rc := &RouteCmd{open: open, reporter: reporter}
	return &cobra.Command{
		Use:   "route <message>",
		Short: "Show which report module a message is routed to",
		Args:  cobra.MinimumNArgs(1),
		RunE:  rc.run,
	}
}

func (rc *RouteCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	stack, err := rc.open(ctx)
	if err != nil {
		return err
	}
	defer stack.Close()

	message := strings.ToLower(strings.Join(args, " "))
	sel, err := stack.Route(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to route %q: %w", message, err)
	}

	return rc.reporter.HandleSelection(message, sel)
}
