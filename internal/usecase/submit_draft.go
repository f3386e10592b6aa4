package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aalvaropc/preprints/internal/domain"
)

// DraftProblem is one reason a draft cannot be submitted.
type DraftProblem struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidateDraft checks a submission draft without any network calls.
func ValidateDraft(d domain.SubmissionDraft) []DraftProblem {
	var out []DraftProblem

	if info, err := os.Stat(d.File.Path); err != nil {
		out = append(out, DraftProblem{Field: "file.path", Message: err.Error()})
	} else if info.IsDir() {
		out = append(out, DraftProblem{Field: "file.path", Message: d.File.Path + " is a directory"})
	}

	v := domain.ValidateBasics(d.Basics)
	for _, field := range []string{"Title", "Abstract", "DOI"} {
		for _, msg := range v.Messages(field) {
			out = append(out, DraftProblem{Field: strings.ToLower(field), Message: msg})
		}
	}

	if len(d.Subjects) == 0 {
		out = append(out, DraftProblem{Field: "subjects", Message: "at least one subject is required"})
	}
	return out
}

// SubmitDraft walks the wizard from start to finish with the values of d.
func SubmitDraft(ctx context.Context, a *AddPreprint, d domain.SubmissionDraft) (domain.Preprint, error) {
	if problems := ValidateDraft(d); len(problems) > 0 {
		errs := make([]error, 0, len(problems))
		for _, p := range problems {
			errs = append(errs, fmt.Errorf("%s: %s", p.Field, p.Message))
		}
		return domain.Preprint{}, &domain.OpError{Op: "submitdraft.validate", Kind: domain.KindValidation, Err: errors.Join(errs...)}
	}

	a.Reset()
	if err := a.PrepareUpload(d.File); err != nil {
		return domain.Preprint{}, err
	}

	if d.ProjectID == "" {
		if err := a.SetUploadState(UploadNew); err != nil {
			return domain.Preprint{}, err
		}
		if _, err := a.CreateProject(ctx, d.ProjectTitle); err != nil {
			return domain.Preprint{}, err
		}
	} else {
		if err := a.SetUploadState(UploadExisting); err != nil {
			return domain.Preprint{}, err
		}
		node, err := findNode(ctx, a, d.ProjectID)
		if err != nil {
			return domain.Preprint{}, err
		}
		if err := a.SelectProject(ctx, node); err != nil {
			return domain.Preprint{}, err
		}
		if d.AsChild {
			_, err = a.AddChild(ctx)
		} else {
			_, err = a.StartUpload(ctx)
		}
		if err != nil {
			return domain.Preprint{}, err
		}
	}

	a.SetBasics(d.Basics)
	a.Subjects().Restore(d.Subjects)
	for a.Panel() != domain.PanelSubmit {
		if _, err := a.Next(); err != nil {
			return domain.Preprint{}, err
		}
	}
	return a.Submit(ctx)
}

func findNode(ctx context.Context, a *AddPreprint, id string) (domain.Node, error) {
	nodes, err := a.ListUserNodes(ctx)
	if err != nil {
		return domain.Node{}, err
	}
	for _, n := range nodes {
		if n.ID == id {
			return n, nil
		}
	}
	return domain.Node{}, &domain.OpError{Op: "submitdraft.find_node", Kind: domain.KindNotFound, Path: id, Err: domain.ErrNotFound}
}
