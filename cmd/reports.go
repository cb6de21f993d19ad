package cmd

import (
	"fmt"
	"os"
	"time"

	"citizenhub/internal/complaint"
	"citizenhub/internal/receipt"
	"citizenhub/internal/summary"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Render the pending complaints table as a PNG",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		return withApp(cmd.Context(), func(a *app) error {
			records, err := a.service.List(cmd.Context(), "")
			if err != nil {
				return err
			}
			pending := summary.Pending(records)
			if len(pending) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "✓ No pending complaints")
				return nil
			}
			img, err := summary.RenderPending(records, time.Now())
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, img, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "📊 %d pending complaint(s) written to %s\n", len(pending), out)
			return nil
		})
	},
}

var receiptCmd = &cobra.Command{
	Use:   "receipt <id>",
	Short: "Print a complaint receipt to PDF (or HTML with --html)",
	Long: `Print a complaint receipt. PDF output drives a headless Chrome, which
must be installed on the host. --html writes the receipt page without Chrome.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := complaint.ParseID(args[0])
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("out")
		asHTML, _ := cmd.Flags().GetBool("html")
		if out == "" {
			ext := ".pdf"
			if asHTML {
				ext = ".html"
			}
			out = "complaint-" + args[0] + ext
		}

		return withApp(cmd.Context(), func(a *app) error {
			rec, err := a.service.Track(cmd.Context(), id)
			if err != nil {
				return err
			}

			var data []byte
			if asHTML {
				data, err = receipt.RenderHTML(rec, time.Now())
			} else {
				data, err = a.receiptRenderer().RenderPDF(cmd.Context(), rec)
			}
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "🧾 Receipt for %s written to %s\n", rec.IDString(), out)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd, receiptCmd)

	summaryCmd.Flags().String("out", "pending-summary.png", "Output PNG path")
	receiptCmd.Flags().String("out", "", "Output path (default complaint-<id>.pdf)")
	receiptCmd.Flags().Bool("html", false, "Write HTML instead of PDF")
}
