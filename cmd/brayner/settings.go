package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brayner/brayner/config"
	"github.com/brayner/brayner/internal/application/command"
	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/internal/domain/notification"
)

func (c *cli) settingsCmd() *cobra.Command {
	settings := &cobra.Command{
		Use:   "settings",
		Short: "Show or change preferences",
	}
	settings.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show preferences",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				printPreferences(cmd, c.app.settings.Get(cmd.Context()))
				return nil
			},
		},
		c.settingsSetCmd(),
	)
	return settings
}

func (c *cli) settingsSetCmd() *cobra.Command {
	var (
		theme, language, mode                     string
		daily, comeback, revision, sound, vibrate bool
		all                                       bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change preferences; only the given flags are applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			f := cmd.Flags()

			var update command.UpdatePreferencesCommand
			if f.Changed("notifications") {
				update = command.AllNotifications(all)
			}
			if f.Changed("theme") {
				t := document.Theme(strings.ToLower(theme))
				update.Theme = &t
			}
			if f.Changed("language") {
				l := document.Language(strings.ToLower(language))
				update.Language = &l
			}
			if f.Changed("mode") {
				m := document.DisciplineMode(mode)
				update.DisciplineMode = &m
			}
			if f.Changed("daily") {
				update.DailyReminder = &daily
			}
			if f.Changed("comeback") {
				update.ComebackReminder = &comeback
			}
			if f.Changed("revision") {
				update.RevisionReminder = &revision
			}
			if f.Changed("sound") {
				update.SoundEnabled = &sound
			}
			if f.Changed("vibration") {
				update.VibrationEnabled = &vibrate
			}
			if update.IsEmpty() {
				return fmt.Errorf("nothing to change; see `brayner settings set --help`")
			}

			wasOn := c.app.settings.AnyNotificationsEnabled(ctx)
			res, err := c.app.prefs.Handle(ctx, update)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.ChangedFields) == 0 {
				fmt.Fprintln(out, "No changes.")
				return nil
			}
			fmt.Fprintf(out, "Updated: %s\n", strings.Join(res.ChangedFields, ", "))

			if !wasOn && res.Preferences.Notifications.AnyEnabled() &&
				c.app.cfg.Features.IsEnabled(config.FeatureNotifyActivated) {
				n, err := c.app.notifier.Activate(ctx)
				if err != nil {
					return err
				}
				if n.Status == notification.StatusSkipped {
					fmt.Fprintf(out, "Notifications are on but could not be shown now: %s\n", n.Reason)
				}
			}
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&theme, "theme", "", "theme: system, light, dark")
	fl.StringVar(&language, "language", "", "language: system, bn, en")
	fl.StringVar(&mode, "mode", "", "discipline mode: Gentle, Balanced, Strict")
	fl.BoolVar(&all, "notifications", false, "switch every reminder on or off")
	fl.BoolVar(&daily, "daily", false, "daily reminder")
	fl.BoolVar(&comeback, "comeback", false, "comeback reminder")
	fl.BoolVar(&revision, "revision", false, "revision reminder")
	fl.BoolVar(&sound, "sound", false, "sound")
	fl.BoolVar(&vibrate, "vibration", false, "vibration")
	return cmd
}

func printPreferences(cmd *cobra.Command, p document.Preferences) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Theme:      %s\n", p.Theme)
	fmt.Fprintf(out, "Language:   %s\n", p.Language)
	fmt.Fprintf(out, "Mode:       %s\n", p.DisciplineMode)
	fmt.Fprintf(out, "Reminders:  daily=%t comeback=%t revision=%t\n",
		p.Notifications.DailyReminder, p.Notifications.ComebackReminder, p.Notifications.RevisionReminder)
	fmt.Fprintf(out, "Sound:      %t\n", p.SoundEnabled)
	fmt.Fprintf(out, "Vibration:  %t\n", p.VibrationEnabled)
}
