package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brayner/brayner/config"
	"github.com/brayner/brayner/internal/application/coach"
	"github.com/brayner/brayner/internal/domain/document"
)

func (c *cli) coachCmd() *cobra.Command {
	cc := &cobra.Command{
		Use:   "coach",
		Short: "Talk to Professor Brayner",
	}
	cc.AddCommand(
		&cobra.Command{
			Use:   "history",
			Short: "Show the conversation",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				history, err := c.app.coach.History(cmd.Context())
				if err != nil {
					return err
				}
				printHistory(cmd.OutOrStdout(), history)
				return nil
			},
		},
		&cobra.Command{
			Use:   "send <message>",
			Short: "Ask the coach something",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				reply, err := c.app.coach.Send(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), reply)
				return nil
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Start the conversation over",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				history, err := c.app.coach.ClearHistory(cmd.Context())
				if err != nil {
					return err
				}
				printHistory(cmd.OutOrStdout(), history)
				return nil
			},
		},
		&cobra.Command{
			Use:   "support",
			Short: "Get a short support message",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				msg := coach.FallbackSupport
				if c.app.cfg.Features.IsEnabled(config.FeatureCoachSupport) {
					msg = c.app.coach.SupportMessage(cmd.Context())
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			},
		},
	)
	return cc
}

func (c *cli) analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <subject> <summary> [topic]",
		Short: "Find the main weakness in a practice session",
		Long: `Ask the coach for the main weakness shown by a practice session.
On success the weakness is recorded and the topic (or the weakness
itself) is scheduled for revision.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic := ""
			if len(args) == 3 {
				topic = args[2]
			}
			out := cmd.OutOrStdout()
			analysis := c.app.coach.AnalyzePractice(cmd.Context(), args[0], args[1], topic)
			if analysis == nil {
				fmt.Fprintln(out, "Analysis is unavailable right now.")
				return nil
			}
			fmt.Fprintf(out, "Weakness: %s\nSuggestion: %s\nPriority: %s\n",
				analysis.WeaknessType, analysis.Suggestion, analysis.Priority)
			return nil
		},
	}
}

func printHistory(out io.Writer, history []document.ChatMessage) {
	for _, m := range history {
		who := "you"
		if m.Role == document.RoleModel {
			who = "coach"
		}
		fmt.Fprintf(out, "%s: %s\n", who, m.Text())
	}
}
