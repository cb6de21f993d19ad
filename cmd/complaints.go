package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"citizenhub/internal/complaint"

	"github.com/spf13/cobra"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "File a complaint from the command line",
	Example: `  citizenhub submit --name Ali --category Water --description "urgent water leak flooding street"
  citizenhub submit --name Sara --category صفائی --description "کچرا نہیں اٹھایا گیا" --image street.jpg`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		description, _ := cmd.Flags().GetString("description")
		category, _ := cmd.Flags().GetString("category")
		imagePath, _ := cmd.Flags().GetString("image")

		return withApp(cmd.Context(), func(a *app) error {
			req := complaint.SubmitRequest{Name: name, Description: description, Category: category}
			if imagePath != "" {
				f, err := os.Open(imagePath)
				if err != nil {
					return fmt.Errorf("open image: %w", err)
				}
				defer f.Close()
				req.Image = &complaint.Attachment{Filename: filepath.Base(imagePath), Data: f}
			}

			rec, err := a.service.Submit(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecord(rec))
			fmt.Fprintf(cmd.OutOrStdout(), "\nTracking number: %s\n", rec.IDString())
			return nil
		})
	},
}

var trackCmd = &cobra.Command{
	Use:   "track <id>",
	Short: "Show a complaint by tracking number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := complaint.ParseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app) error {
			rec, err := a.service.Track(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderRecord(rec))
			return nil
		})
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <id>",
	Short: "Mark a complaint as resolved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := complaint.ParseID(args[0])
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app) error {
			rec, err := a.service.Resolve(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Complaint %s is %s\n", rec.IDString(), rec.Status)
			return nil
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List complaints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawStatus, _ := cmd.Flags().GetString("status")
		status, err := parseStatus(rawStatus)
		if err != nil {
			return err
		}
		return withApp(cmd.Context(), func(a *app) error {
			records, err := a.service.List(cmd.Context(), status)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No complaints found.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(records))
			fmt.Fprintf(cmd.OutOrStdout(), "%d complaint(s)\n", len(records))
			return nil
		})
	},
}

func parseStatus(raw string) (complaint.Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return "", nil
	case "pending":
		return complaint.StatusPending, nil
	case "resolved":
		return complaint.StatusResolved, nil
	default:
		return "", fmt.Errorf("unknown status %q (want pending or resolved)", raw)
	}
}

// withApp wires the application for a one-shot command and tears it down
// afterwards, draining queued notifications.
func withApp(ctx context.Context, fn func(a *app) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func init() {
	rootCmd.AddCommand(submitCmd, trackCmd, resolveCmd, listCmd)

	submitCmd.Flags().String("name", "", "Citizen name (required)")
	submitCmd.Flags().String("description", "", "Complaint description (required)")
	submitCmd.Flags().String("category", "", "Category, e.g. Water or پانی (default Other)")
	submitCmd.Flags().String("image", "", "Path to an image to attach")

	listCmd.Flags().String("status", "", "Filter by status: pending or resolved")
}
