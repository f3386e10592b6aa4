package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aalvaropc/preprints/internal/domain"
)

type harness struct {
	nodes     *fakeNodes
	users     *fakeUsers
	uploader  *fakeUploader
	submitter *fakeSubmitter
	events    *fakeEvents
	notifier  *fakeNotifier
	uc        *AddPreprint
}

func newHarness(opts ...AddPreprintOption) *harness {
	h := &harness{
		nodes: &fakeNodes{
			userNodes: []domain.Node{
				{ID: "p1", Title: "Sleep", Description: "A project", CurrentUserPermissions: []string{"read", "write", "admin"}},
				{ID: "p2", Title: "Read only", CurrentUserPermissions: []string{"read"}},
			},
			providers: []domain.StorageProvider{
				{Name: "github", UploadURL: "https://files/github/"},
				{Name: "osfstorage", UploadURL: "https://files/osf/"},
			},
			contributors: []domain.Contributor{{ID: "c1", UserID: "u1", FullName: "Ada", Bibliographic: true}},
		},
		users:     &fakeUsers{},
		uploader:  &fakeUploader{},
		submitter: &fakeSubmitter{},
		events:    &fakeEvents{},
		notifier:  &fakeNotifier{},
	}
	h.uc = NewAddPreprint(AddPreprintDeps{
		Nodes:     h.nodes,
		Users:     h.users,
		Uploader:  h.uploader,
		Submitter: h.submitter,
		Events:    h.events,
		Notifier:  h.notifier,
		Subjects:  NewSubjects(taxonomyFixture(), 100),
	}, opts...)
	return h
}

func goodBasics() domain.Basics {
	return domain.Basics{Title: "Sleep and memory", Abstract: "An abstract that is long enough.", DOI: "10.1234/abcd"}
}

func TestAddPreprint_ExistingProjectFlow(t *testing.T) {
	h := newHarness(WithProvider("osf"))
	ctx := context.Background()

	if err := h.uc.PrepareUpload(domain.UploadFile{Path: "/tmp/paper.pdf"}); err != nil {
		t.Fatalf("PrepareUpload: %v", err)
	}
	nodes, err := h.uc.ListUserNodes(ctx)
	if err != nil || len(nodes) != 2 {
		t.Fatalf("ListUserNodes: %v %+v", err, nodes)
	}
	if err := h.uc.SelectProject(ctx, nodes[0]); err != nil {
		t.Fatalf("SelectProject: %v", err)
	}
	if !h.uc.IsAdmin() || !h.uc.CanEdit() {
		t.Fatalf("expected admin on selected project")
	}

	if _, err := h.uc.Next(); !errors.Is(err, domain.ErrPanelInvalid) {
		t.Fatalf("upload panel must block until the file is uploaded, got %v", err)
	}

	up, err := h.uc.StartUpload(ctx)
	if err != nil {
		t.Fatalf("StartUpload: %v", err)
	}
	if up.ID != "file-1" || up.Name != "paper.pdf" {
		t.Fatalf("unexpected upload %+v", up)
	}
	if diff := cmp.Diff([]string{"https://files/osf/?kind=file&name=paper.pdf"}, h.uploader.urls); diff != "" {
		t.Fatalf("upload url mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{MsgUploadStarted, MsgUploadFinished}, h.notifier.infos); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
	if h.uc.Panel() != domain.PanelBasics {
		t.Fatalf("upload should advance to basics, at %s", h.uc.Panel())
	}

	if v := h.uc.SetBasics(domain.Basics{Title: "x"}); v.IsValid() {
		t.Fatalf("short abstract must be invalid")
	}
	if _, err := h.uc.Next(); !errors.Is(err, domain.ErrPanelInvalid) {
		t.Fatalf("invalid basics must block, got %v", err)
	}
	h.uc.SetBasics(goodBasics())
	if p, err := h.uc.Next(); err != nil || p != domain.PanelSubjects {
		t.Fatalf("Next: %v %s", err, p)
	}

	if _, err := h.uc.Next(); !errors.Is(err, domain.ErrPanelInvalid) {
		t.Fatalf("empty subjects must block, got %v", err)
	}
	if _, err := h.uc.Subjects().Select(ctx, []domain.Subject{subj("l", "Life Sciences"), subj("l1", "Biology")}); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if p, err := h.uc.Next(); err != nil || p != domain.PanelAuthors {
		t.Fatalf("Next: %v %s", err, p)
	}
	if p, err := h.uc.Next(); err != nil || p != domain.PanelSubmit {
		t.Fatalf("Next: %v %s", err, p)
	}
	if _, err := h.uc.Next(); !errors.Is(err, domain.ErrNoNextPanel) {
		t.Fatalf("expected ErrNoNextPanel, got %v", err)
	}

	pp, err := h.uc.Submit(ctx)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if pp.ID != "pp1" {
		t.Fatalf("unexpected preprint %+v", pp)
	}
	want := domain.PreprintDraft{
		NodeID:        "p1",
		PrimaryFileID: "file-1",
		Provider:      "osf",
		Basics:        goodBasics(),
		Subjects:      []domain.Path{{"Life Sciences", "Biology"}},
	}
	if diff := cmp.Diff([]domain.PreprintDraft{want}, h.submitter.drafts); diff != "" {
		t.Fatalf("draft mismatch (-want +got):\n%s", diff)
	}
	if len(h.events.events) != 1 || !strings.HasSuffix(h.events.events[0].Label, "pp1") {
		t.Fatalf("expected submit event, got %+v", h.events.events)
	}
}

func TestAddPreprint_ProjectPrefillsBasics(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	project := h.nodes.userNodes[0]
	project.Tags = []string{"sleep", "memory"}
	if err := h.uc.SelectProject(ctx, project); err != nil {
		t.Fatalf("SelectProject: %v", err)
	}
	b, v := h.uc.Basics()
	if diff := cmp.Diff(domain.Basics{Title: "Sleep", Abstract: "A project", Tags: []string{"sleep", "memory"}}, b); diff != "" {
		t.Fatalf("basics mismatch (-want +got):\n%s", diff)
	}
	if v.IsValid() || len(v.Messages("Abstract")) != 1 {
		t.Fatalf("prefilled basics should be validated, got %+v", v)
	}

	_ = h.uc.PrepareUpload(domain.UploadFile{Path: "/tmp/paper.pdf"})
	if _, err := h.uc.AddChild(ctx); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if b, _ := h.uc.Basics(); b.Title != "Sleep Preprint" || b.Abstract != "A project" {
		t.Fatalf("basics should follow the new component, got %+v", b)
	}

	h.uc.SetBasics(goodBasics())
	if err := h.uc.SelectProject(ctx, h.nodes.userNodes[0]); err != nil {
		t.Fatalf("SelectProject: %v", err)
	}
	if b, v := h.uc.Basics(); !cmp.Equal(goodBasics(), b) || !v.IsValid() {
		t.Fatalf("edited basics must survive a project change, got %+v", b)
	}

	h.uc.Reset()
	if b, _ := h.uc.Basics(); !cmp.Equal(domain.Basics{}, b) {
		t.Fatalf("reset should clear basics, got %+v", b)
	}
}

func TestAddPreprint_SubmitMovesToSubmitPanel(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	_ = h.uc.PrepareUpload(domain.UploadFile{Path: "/tmp/paper.pdf"})
	if err := h.uc.SelectProject(ctx, h.nodes.userNodes[0]); err != nil {
		t.Fatalf("SelectProject: %v", err)
	}
	if _, err := h.uc.StartUpload(ctx); err != nil {
		t.Fatalf("StartUpload: %v", err)
	}
	h.uc.SetBasics(goodBasics())
	h.uc.Subjects().Restore([]domain.Path{{"Life Sciences"}})

	if h.uc.Panel() != domain.PanelBasics {
		t.Fatalf("expected to sit on basics, at %s", h.uc.Panel())
	}
	if _, err := h.uc.Submit(ctx); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if h.uc.Panel() != domain.PanelSubmit {
		t.Fatalf("submit should end on the submit panel, at %s", h.uc.Panel())
	}
}

func TestAddPreprint_SelectProjectNeedsAdmin(t *testing.T) {
	h := newHarness()
	err := h.uc.SelectProject(context.Background(), h.nodes.userNodes[1])
	if !domain.IsKind(err, domain.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, ok := h.uc.Node(); ok {
		t.Fatalf("project must not be selected")
	}
}

func TestAddPreprint_CreateProjectUploads(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	if _, err := h.uc.CreateProject(ctx, "New work"); !errors.Is(err, domain.ErrNoPendingUpload) {
		t.Fatalf("expected ErrNoPendingUpload, got %v", err)
	}

	_ = h.uc.SetUploadState(UploadNew)
	_ = h.uc.PrepareUpload(domain.UploadFile{Name: "draft.docx", Path: "/tmp/x.docx"})
	node, err := h.uc.CreateProject(ctx, "  New work ")
	if err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	if diff := cmp.Diff([]domain.NewNode{{Title: "New work", Category: "project", Public: false}}, h.nodes.created); diff != "" {
		t.Fatalf("create payload mismatch (-want +got):\n%s", diff)
	}
	if got, _ := h.uc.Node(); got.ID != node.ID || !got.IsAdmin() {
		t.Fatalf("new project should be selected with admin rights: %+v", got)
	}
	if n := len(h.uc.UserNodes()); n != 1 {
		t.Fatalf("created node should be appended to user nodes, got %d", n)
	}
	if _, ok := h.uc.Uploaded(); !ok {
		t.Fatalf("file should be uploaded")
	}
	if _, ok := h.uc.Pending(); ok {
		t.Fatalf("pending upload should be consumed")
	}
	if h.uc.Panel() != domain.PanelBasics {
		t.Fatalf("expected basics panel, got %s", h.uc.Panel())
	}
}

func TestAddPreprint_AddChild(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	if _, err := h.uc.AddChild(ctx); !errors.Is(err, domain.ErrNoProject) {
		t.Fatalf("expected ErrNoProject, got %v", err)
	}

	_ = h.uc.PrepareUpload(domain.UploadFile{Path: "/tmp/paper.pdf"})
	if err := h.uc.SelectProject(ctx, h.nodes.userNodes[0]); err != nil {
		t.Fatalf("SelectProject: %v", err)
	}
	child, err := h.uc.AddChild(ctx)
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if child.Title != "Sleep Preprint" || child.Description != "A project" {
		t.Fatalf("unexpected child %+v", child)
	}
	if diff := cmp.Diff([]string{"p1"}, h.nodes.childParents); diff != "" {
		t.Fatalf("parent mismatch (-want +got):\n%s", diff)
	}
	if got, _ := h.uc.Node(); got.ID != child.ID {
		t.Fatalf("child should be selected, got %+v", got)
	}
}

func TestAddPreprint_DeleteProject(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	_ = h.uc.PrepareUpload(domain.UploadFile{Path: "/tmp/paper.pdf"})
	_, _ = h.uc.ListUserNodes(ctx)
	_ = h.uc.SelectProject(ctx, h.nodes.userNodes[0])

	if err := h.uc.DeleteProject(ctx); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}
	if _, ok := h.uc.Node(); ok {
		t.Fatalf("selection should be cleared")
	}
	if _, ok := h.uc.Pending(); ok {
		t.Fatalf("pending upload should be cleared")
	}
	if len(h.uc.UserNodes()) != 1 {
		t.Fatalf("deleted node should leave the user nodes")
	}
	if h.notifier.infos[len(h.notifier.infos)-1] != MsgProjectDeleted {
		t.Fatalf("expected %q notification, got %v", MsgProjectDeleted, h.notifier.infos)
	}
}

func TestAddPreprint_DeleteFailureSurfaces(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	_ = h.uc.SelectProject(ctx, h.nodes.userNodes[0])
	h.nodes.deleteErr = errBoom

	if err := h.uc.DeleteProject(ctx); !errors.Is(err, errBoom) {
		t.Fatalf("expected delete error, got %v", err)
	}
	if _, ok := h.uc.Node(); !ok {
		t.Fatalf("selection must survive a failed delete")
	}
	if len(h.notifier.errs) != 1 || len(h.nodes.deleted) != 0 {
		t.Fatalf("expected one error notification and no retry")
	}
}

func TestAddPreprint_StartUploadErrors(t *testing.T) {
	ctx := context.Background()

	h := newHarness()
	if _, err := h.uc.StartUpload(ctx); !errors.Is(err, domain.ErrNoPendingUpload) {
		t.Fatalf("expected ErrNoPendingUpload, got %v", err)
	}
	_ = h.uc.PrepareUpload(domain.UploadFile{Path: "/tmp/a.pdf"})
	if _, err := h.uc.StartUpload(ctx); !errors.Is(err, domain.ErrNoProject) {
		t.Fatalf("expected ErrNoProject, got %v", err)
	}

	h = newHarness(WithStorageProvider("dropbox"))
	_ = h.uc.PrepareUpload(domain.UploadFile{Path: "/tmp/a.pdf"})
	_ = h.uc.SelectProject(ctx, h.nodes.userNodes[0])
	if _, err := h.uc.StartUpload(ctx); !errors.Is(err, domain.ErrNoUploadTarget) {
		t.Fatalf("expected ErrNoUploadTarget, got %v", err)
	}

	h = newHarness()
	h.uploader.err = errBoom
	_ = h.uc.PrepareUpload(domain.UploadFile{Path: "/tmp/a.pdf"})
	_ = h.uc.SelectProject(ctx, h.nodes.userNodes[0])
	if _, err := h.uc.StartUpload(ctx); !errors.Is(err, errBoom) {
		t.Fatalf("expected upload error, got %v", err)
	}
	if _, ok := h.uc.Pending(); !ok {
		t.Fatalf("failed upload keeps the pending file")
	}
	if h.uc.Panel() != domain.PanelUpload {
		t.Fatalf("failed upload must not advance")
	}
}

func TestAddPreprint_SubmitRequiresValidPanels(t *testing.T) {
	h := newHarness()
	_, err := h.uc.Submit(context.Background())
	if !errors.Is(err, domain.ErrPanelInvalid) {
		t.Fatalf("expected ErrPanelInvalid, got %v", err)
	}
	for _, name := range []string{"Upload", "Basics", "Subjects"} {
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error should name %s: %v", name, err)
		}
	}
	if len(h.submitter.drafts) != 0 {
		t.Fatalf("nothing must be submitted")
	}
}

func TestAddPreprint_BackAndOpen(t *testing.T) {
	h := newHarness()

	if _, err := h.uc.Back(); !errors.Is(err, domain.ErrNoPrevPanel) {
		t.Fatalf("expected ErrNoPrevPanel, got %v", err)
	}
	if err := h.uc.Open(domain.PanelSubjects); !errors.Is(err, domain.ErrPanelInvalid) {
		t.Fatalf("expected ErrPanelInvalid, got %v", err)
	}
	if err := h.uc.SetUploadState("bogus"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAddPreprint_FindContributors(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	page, err := h.uc.FindContributors(ctx, "  ", domain.Page{})
	if err != nil || len(page.Users) != 0 || len(h.users.queries) != 0 {
		t.Fatalf("blank query must not hit the backend")
	}

	page, err = h.uc.FindContributors(ctx, "Ada Lovelace", domain.Page{})
	if err != nil {
		t.Fatalf("FindContributors: %v", err)
	}
	if page.Total != 1 || h.users.pages[0].Number != 1 {
		t.Fatalf("unexpected page %+v / %+v", page, h.users.pages)
	}
}

func TestAddPreprint_ResetStartsNewSession(t *testing.T) {
	h := newHarness()
	first := h.uc.Session()
	_ = h.uc.PrepareUpload(domain.UploadFile{Path: "/tmp/a.pdf"})

	h.uc.Reset()
	if h.uc.Session() == first || h.uc.Session() == "" {
		t.Fatalf("expected a new session id")
	}
	if _, ok := h.uc.Pending(); ok || h.uc.UploadState() != UploadStart {
		t.Fatalf("expected a clean upload panel")
	}
}
