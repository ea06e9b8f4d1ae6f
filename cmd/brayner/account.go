package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/brayner/brayner/internal/application/auth"
	"github.com/brayner/brayner/internal/application/saga"
	"github.com/brayner/brayner/internal/domain/document"
	"github.com/brayner/brayner/pkg/logger"
)

var errInvalidCredentials = errors.New("invalid email or password")

func (c *cli) signupCmd() *cobra.Command {
	var req auth.SignupRequest
	var level string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a local account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.AcademicLevel = document.AcademicLevel(strings.ToUpper(level))
			user, err := c.app.auth.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s. You are logged in as %s.\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&level, "level", "", "academic level: SSC or HSC")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to an existing account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, ok := c.app.auth.Login(cmd.Context(), email, password)
			if !ok {
				return errInvalidCredentials
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s.\n", user.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.app.auth.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			user := c.app.auth.CurrentUser(cmd.Context())
			if user == nil {
				fmt.Fprintln(out, "Not logged in.")
				return nil
			}
			fmt.Fprintf(out, "%s <%s>\n", user.Name, user.Email)
			if user.AcademicLevel != "" {
				fmt.Fprintf(out, "Level: %s\n", user.AcademicLevel)
			}
			if user.Assessment != nil {
				a := user.Assessment
				fmt.Fprintf(out, "Goal: %s, problem: %s, weak subjects: %s\n",
					a.PrimaryGoal, a.PrimaryProblem, strings.Join(a.WeakSubjects, ", "))
			}
			if c.app.auth.IsOnboarded(cmd.Context()) {
				fmt.Fprintln(out, "Comeback plan: ready")
			}
			return nil
		},
	}
}

func (c *cli) onboardCmd() *cobra.Command {
	var in saga.OnboardingInput
	var level, problem, goal string

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Sign up with an assessment and build the comeback plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lvl := document.AcademicLevel(strings.ToUpper(level))
			in.Signup.AcademicLevel = lvl
			in.Assessment.AcademicLevel = lvl
			in.Assessment.PrimaryProblem = document.Problem(problem)
			in.Assessment.PrimaryGoal = document.Goal(goal)

			res, err := c.app.saga.Execute(cmd.Context(), in)
			if err != nil {
				c.app.log.Warn("onboarding stopped",
					logger.String("step", string(saga.FailedStep(err))),
					logger.Err(err),
				)
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Welcome, %s. Discipline mode: %s.\n", res.User.Name, res.DisciplineMode)
			fmt.Fprintf(out, "Your plan has %d days.\n", len(res.Plans))
			for _, w := range res.WeakAreas {
				fmt.Fprintf(out, "  weak area: %s (%s)\n", w.Subject, w.Issue)
			}
			fmt.Fprintln(out, "Run `brayner start` when you are ready.")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Signup.Name, "name", "", "display name")
	f.StringVar(&in.Signup.Email, "email", "", "email address")
	f.StringVar(&in.Signup.Password, "password", "", "password")
	f.StringVar(&level, "level", "SSC", "academic level: SSC or HSC")
	f.StringVar(&in.Assessment.TargetExam, "exam", "", "target exam")
	f.StringSliceVar(&in.Assessment.WeakSubjects, "weak", nil, "weak subjects, comma separated")
	f.IntVar(&in.Assessment.StudyGoal, "study-hours", 0, "daily study goal in hours")
	f.StringVar(&problem, "problem", string(document.ProblemFocus), "primary problem: focus, discipline, syllabus, procrastination")
	f.StringVar(&goal, "goal", string(document.GoalComeback), "primary goal: gpa5, pass, competitive, comeback")
	return cmd
}

func (c *cli) profileCmd() *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Manage the session profile",
	}
	profile.AddCommand(&cobra.Command{
		Use:   "name <new name>",
		Short: "Rename the current user",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := c.app.auth.UpdateProfileName(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Name updated to %s.\n", user.Name)
			return nil
		},
	})
	return profile
}
