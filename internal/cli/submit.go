package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/infra/config"
	"github.com/aalvaropc/preprints/internal/usecase"
)

func submitCmd() *cobra.Command {
	var workspace string
	var draft string
	var format string

	c := &cobra.Command{
		Use:   "submit",
		Short: "Submit a preprint from a draft file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "pretty" && format != "json" && format != "" {
				return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
			}

			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}

			draftPath, err := resolveDraftPath(ws.root, draft)
			if err != nil {
				return err
			}

			d, err := config.LoadDraft(draftPath)
			if err != nil {
				return err
			}
			if problems := usecase.ValidateDraft(d); len(problems) > 0 {
				printProblems(cmd.ErrOrStderr(), problems)
				return fmt.Errorf("draft is invalid (%d problem(s))", len(problems))
			}

			a := ws.addPreprint(stdoutNotifier(cmd.ErrOrStderr()), d.Provider)
			pp, err := usecase.SubmitDraft(cmd.Context(), a, d)
			if err != nil {
				return err
			}

			return printPreprint(cmd.OutOrStdout(), pp, a.Session(), format)
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVarP(&draft, "file", "f", "", "Draft name or path (required)")
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")

	_ = c.MarkFlagRequired("file")
	return c
}

func printPreprint(w io.Writer, pp domain.Preprint, session string, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		payload := map[string]any{
			"session":  session,
			"preprint": pp,
		}
		return enc.Encode(payload)
	case "pretty", "":
		printPrettyPreprint(w, pp, session)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyPreprint(w io.Writer, pp domain.Preprint, session string) {
	fmt.Fprintf(w, "Preprint: %s\n", pp.ID)
	fmt.Fprintf(w, "Node:     %s\n", pp.NodeID)
	if pp.DOI != "" {
		fmt.Fprintf(w, "DOI:      %s\n", pp.DOI)
	}
	if !pp.DateCreated.IsZero() {
		fmt.Fprintf(w, "Created:  %s\n", pp.DateCreated.Format(time.RFC3339))
	}
	if session != "" {
		fmt.Fprintf(w, "Session:  %s\n", session)
	}
	if len(pp.Subjects) > 0 {
		fmt.Fprintln(w, "Subjects:")
		for _, p := range pp.Subjects {
			fmt.Fprintf(w, "  - %s\n", p.String())
		}
	}
}
