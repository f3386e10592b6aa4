package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/preprints/internal/infra/config"
	"github.com/aalvaropc/preprints/internal/usecase"
)

func validateCmd() *cobra.Command {
	var workspace string
	var draft string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Validate a submission draft (no HTTP)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			root, err := resolveWorkspaceRoot(workspace)
			if err != nil {
				return err
			}

			draftPath, err := resolveDraftPath(root, draft)
			if err != nil {
				return err
			}

			d, err := config.LoadDraft(draftPath)
			if err != nil {
				return err
			}

			problems := usecase.ValidateDraft(d)
			if len(problems) > 0 {
				printProblems(cmd.OutOrStdout(), problems)
				return fmt.Errorf("draft is invalid (%d problem(s))", len(problems))
			}

			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&draft, "file", "f", "", "Draft name or path (required)")

	_ = c.MarkFlagRequired("file")
	return c
}

func printProblems(w io.Writer, problems []usecase.DraftProblem) {
	for _, p := range problems {
		fmt.Fprintf(w, "- %s: %s\n", p.Field, p.Message)
	}
}
