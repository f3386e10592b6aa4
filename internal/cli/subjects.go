package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/usecase"
)

const pathSeparator = "/"

func subjectsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "subjects",
		Short: "Browse the subject taxonomy",
	}
	c.AddCommand(subjectsRootsCmd(), subjectsListCmd(), subjectsFlattenCmd())
	return c
}

func subjectsRootsCmd() *cobra.Command {
	var workspace string

	c := &cobra.Command{
		Use:   "roots",
		Short: "List top-level subjects",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			items, err := ws.api.Children(cmd.Context(), domain.RootParent, ws.cfg.Taxonomy.RootsPageSize)
			if err != nil {
				return err
			}
			printSubjects(cmd.OutOrStdout(), items)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return c
}

func subjectsListCmd() *cobra.Command {
	var workspace string
	var parent string

	c := &cobra.Command{
		Use:   "list",
		Short: "List the children of a subject",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			items, err := ws.subjects().Children(cmd.Context(), parent)
			if err != nil {
				return err
			}
			printSubjects(cmd.OutOrStdout(), items)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().StringVar(&parent, "parent", "", "Parent subject id (empty lists the roots)")
	return c
}

// subjectsFlattenCmd runs a selection locally and prints what would be submitted.
func subjectsFlattenCmd() *cobra.Command {
	var paths []string
	var format string

	c := &cobra.Command{
		Use:   "flatten",
		Short: "Print the flattened form of a set of subject paths",
		RunE: func(cmd *cobra.Command, _ []string) error {
			parsed := make([]domain.Path, 0, len(paths))
			for _, p := range paths {
				parsed = append(parsed, parsePath(p))
			}
			sel := usecase.NewSubjects(nil, 0)
			sel.Restore(parsed)
			return printPaths(cmd.OutOrStdout(), sel.Flatten(), format)
		},
	}

	c.Flags().StringArrayVarP(&paths, "path", "p", nil, `Subject path, names joined by "/" (repeatable)`)
	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	return c
}

func countCmd() *cobra.Command {
	var workspace string

	c := &cobra.Command{
		Use:   "count",
		Short: "Print the total number of preprints in the search index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			n, err := ws.counter.CountPreprints(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Preprints\n", usecase.FormatCount(n))
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	return c
}

func contributorsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "contributors",
		Short: "Find users to add as authors",
	}
	c.AddCommand(contributorsSearchCmd())
	return c
}

func contributorsSearchCmd() *cobra.Command {
	var workspace string
	var page int

	c := &cobra.Command{
		Use:   "search <name>",
		Short: "Search users by full name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := loadWorkspace(workspace)
			if err != nil {
				return err
			}
			a := ws.addPreprint(stdoutNotifier(cmd.ErrOrStderr()), "")
			res, err := a.FindContributors(cmd.Context(), strings.Join(args, " "), domain.Page{Number: page})
			if err != nil {
				return err
			}
			printUsers(cmd.OutOrStdout(), res)
			return nil
		},
	}

	c.Flags().StringVarP(&workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	c.Flags().IntVar(&page, "page", 1, "Result page")
	return c
}

func parsePath(s string) domain.Path {
	parts := strings.Split(s, pathSeparator)
	out := make(domain.Path, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printSubjects(w io.Writer, items []domain.Subject) {
	if len(items) == 0 {
		fmt.Fprintln(w, "(no subjects)")
		return
	}
	for _, s := range items {
		fmt.Fprintf(w, "%s\t%s\n", s.ID, s.Name)
	}
}

func printPaths(w io.Writer, paths []domain.Path, format string) error {
	switch format {
	case "json":
		if paths == nil {
			paths = []domain.Path{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(paths)
	case "pretty", "":
		for _, p := range paths {
			fmt.Fprintln(w, p.String())
		}
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printUsers(w io.Writer, page domain.UserPage) {
	if len(page.Users) == 0 {
		fmt.Fprintln(w, "(no users)")
		return
	}
	for _, u := range page.Users {
		fmt.Fprintf(w, "%s\t%s\n", u.ID, u.FullName)
	}
	if page.Next {
		fmt.Fprintf(w, "(%d total, more on the next page)\n", page.Total)
	}
}
