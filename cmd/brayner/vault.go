package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) noteCmd() *cobra.Command {
	note := &cobra.Command{
		Use:   "note",
		Short: "Manage study notes",
	}

	var title string
	add := &cobra.Command{
		Use:   "add <content>",
		Short: "Save a note",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := c.app.vault.SaveNote(cmd.Context(), title, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved note %s.\n", n.ID)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "note title")

	note.AddCommand(
		add,
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Delete a note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.vault.DeleteNote(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %s.\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "ls",
			Short: "List notes, newest first",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				out := cmd.OutOrStdout()
				notes := c.app.vault.Notes(cmd.Context())
				if len(notes) == 0 {
					fmt.Fprintln(out, "No notes yet.")
					return nil
				}
				for _, n := range notes {
					fmt.Fprintf(out, "%s  %s  %s\n    %s\n", n.ID, n.CreatedAt, n.Title, n.Content)
				}
				return nil
			},
		},
	)
	return note
}

func (c *cli) resourceCmd() *cobra.Command {
	resource := &cobra.Command{
		Use:   "resource",
		Short: "Manage saved study links",
	}
	resource.AddCommand(
		&cobra.Command{
			Use:   "add <title> <link>",
			Short: "Save a link",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				r, err := c.app.vault.AddResource(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved resource %s.\n", r.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Remove a link",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := c.app.vault.RemoveResource(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed resource %s.\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "ls",
			Short: "List saved links",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				out := cmd.OutOrStdout()
				resources := c.app.vault.Resources(cmd.Context())
				if len(resources) == 0 {
					fmt.Fprintln(out, "No resources yet.")
					return nil
				}
				for _, r := range resources {
					fmt.Fprintf(out, "%s  %s  %s\n", r.ID, r.Title, r.Link)
				}
				return nil
			},
		},
	)
	return resource
}
