package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/progress"
)

func (c *cli) startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the 30 day program today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := c.app.ledger.StartProgram(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Program started on %s.\n", snap.PlanStartDate)
			printDay(out, snap)
			return nil
		},
	}
}

func (c *cli) progressCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "progress",
		Aliases: []string{"status"},
		Short:   "Show today's tasks and overall progress",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := c.app.ledger.GetProgress(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			if !snap.PlanStarted {
				fmt.Fprintln(out, "The program has not started. Run `brayner start`.")
				return nil
			}
			if snap.IsFinished() {
				fmt.Fprintln(out, "All 30 days are unlocked. Finish strong.")
			}
			printDay(out, snap)

			lvl := progress.LevelFor(snap.XP)
			fmt.Fprintf(out, "\nStreak: %d  XP: %d  Level %d (%s)\n", snap.Streak, snap.XP, lvl.Level, lvl.Label)
			fmt.Fprintf(out, "Studied today: %d min  Discipline: %s  Mode: %s\n",
				snap.TotalMinutesToday, snap.DisciplineLevel, snap.DisciplineMode)
			fmt.Fprintf(out, "Completed days: %s\n", joinInts(snap.CompletedDays))
			if len(snap.MissedDays) > 0 {
				fmt.Fprintf(out, "Missed days: %s\n", joinInts(snap.MissedDays))
			}
			if len(snap.Revisions) > 0 {
				fmt.Fprintln(out, "Revisions:")
				for _, r := range snap.Revisions {
					fmt.Fprintf(out, "  %s: %s\n", r.Subject, r.Topic)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the snapshot as JSON")
	return cmd
}

func (c *cli) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <task-id>",
		Short: "Toggle a task in today's completion list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			done, err := c.app.ledger.CompleteTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %s done. +%d XP\n", args[0], progress.XPTaskCompleted)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Task %s reopened.\n", args[0])
			}
			return nil
		},
	}
}

func (c *cli) minutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "minutes <n>",
		Short: "Add study minutes to today's total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("minutes must be a whole number: %q", args[0])
			}
			total, err := c.app.ledger.AddStudyMinutes(cmd.Context(), n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Studied today: %d min\n", total)
			return nil
		},
	}
}

func (c *cli) focusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus",
		Short: "Record a finished focus session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			xp, err := c.app.ledger.CompleteFocusSession(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Focus session recorded. +%d XP (total %d)\n", progress.XPFocusCompleted, xp)
			return nil
		},
	}
}

func (c *cli) advanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance",
		Short: "Mark today's day as completed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ok, err := c.app.ledger.AdvanceDay(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintln(out, "Nothing to complete. Either the program has not started or today is already done.")
				return nil
			}
			snap, err := c.app.ledger.GetProgress(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Day %d complete. Streak: %d\n", snap.CurrentDay, snap.Streak)
			return nil
		},
	}
}

func (c *cli) levelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "level",
		Short: "Show XP and level",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			xp := c.app.ledger.XP(ctx)
			lvl := c.app.ledger.Level(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "Level %d: %s\nXP %d (%d to %d, %.0f%%)\n",
				lvl.Level, lvl.Label, xp, lvl.MinXP, lvl.MaxXP, lvl.Progress(xp)*100)
			return nil
		},
	}
}

func (c *cli) reviseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revise <subject> <topic>",
		Short: "Schedule a topic for revision",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := c.app.ledger.ScheduleRevision(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revision scheduled: %s: %s\n", item.Subject, item.Topic)
			return nil
		},
	}
}

// printDay writes the current day header, its plan and today's tasks.
func printDay(out io.Writer, snap progress.Snapshot) {
	fmt.Fprintf(out, "Day %d of %d", snap.CurrentDay, document.ProgramLength)
	if snap.RecoveryMode {
		fmt.Fprint(out, " (recovery mode)")
	}
	fmt.Fprintln(out)

	if p := snap.DayPlan; p != nil {
		fmt.Fprintf(out, "Subject: %s\nFocus: %s\nPractice: %s\nChallenge: %s\n",
			p.Subject, p.FocusConcept, p.PracticeTask, p.DisciplineChallenge)
	}

	fmt.Fprintln(out, "Tasks:")
	for _, t := range snap.DailyTasks {
		mark := " "
		if containsString(snap.CompletedTasks, t.ID) {
			mark = "x"
		}
		fmt.Fprintf(out, "  [%s] %s  %s\n", mark, t.ID, t.Title)
	}
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func joinInts(nums []int) string {
	if len(nums) == 0 {
		return "none"
	}
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
