package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/aalvaropc/preprints/internal/domain"
	"github.com/aalvaropc/preprints/internal/ports"
)

// UploadState is where the upload panel is: nothing chosen yet, creating a
// new project, or picking an existing one.
type UploadState string

const (
	UploadStart    UploadState = "start"
	UploadNew      UploadState = "new"
	UploadExisting UploadState = "existing"
)

// User-facing notifications.
const (
	MsgProjectDeleted  = "Project deleted"
	MsgUploadStarted   = "File will upload in the background."
	MsgUploadFinished  = "File uploaded!"
	MsgPreprintCreated = "Preprint submitted!"
)

// PendingUpload is a file chosen before the project that will hold it.
type PendingUpload struct {
	File domain.UploadFile
}

// AddPreprintDeps are the collaborators of the submit wizard.
type AddPreprintDeps struct {
	Nodes     ports.NodeService
	Users     ports.ContributorSearch
	Uploader  ports.FileUploader
	Submitter ports.PreprintSubmitter
	Events    ports.EventSink
	Notifier  ports.Notifier
	Subjects  *Subjects
}

// AddPreprint drives one preprint submission through the wizard panels.
type AddPreprint struct {
	nodes     ports.NodeService
	users     ports.ContributorSearch
	uploader  ports.FileUploader
	submitter ports.PreprintSubmitter
	events    ports.EventSink
	notify    ports.Notifier
	subjects  *Subjects

	storageProvider string
	provider        string
	log             *slog.Logger

	mu           sync.Mutex
	session      string
	wizard       *domain.Wizard
	state        UploadState
	pending      *PendingUpload
	userNodes    []domain.Node
	node         *domain.Node
	uploaded     *domain.UploadedFile
	basics       domain.Basics
	validation   domain.BasicsValidation
	contributors []domain.Contributor

	// basicsFromNode is set while the basics still mirror the selected project.
	basicsFromNode bool
}

type AddPreprintOption func(*AddPreprint)

// WithStorageProvider selects the node file store that receives uploads.
func WithStorageProvider(name string) AddPreprintOption {
	return func(a *AddPreprint) {
		if name != "" {
			a.storageProvider = name
		}
	}
}

// WithProvider sets the preprint provider the submission goes to.
func WithProvider(name string) AddPreprintOption {
	return func(a *AddPreprint) { a.provider = name }
}

func WithAddPreprintLogger(l *slog.Logger) AddPreprintOption {
	return func(a *AddPreprint) {
		if l != nil {
			a.log = l
		}
	}
}

func NewAddPreprint(deps AddPreprintDeps, opts ...AddPreprintOption) *AddPreprint {
	a := &AddPreprint{
		nodes:           deps.Nodes,
		users:           deps.Users,
		uploader:        deps.Uploader,
		submitter:       deps.Submitter,
		events:          deps.Events,
		notify:          deps.Notifier,
		subjects:        deps.Subjects,
		storageProvider: domain.DefaultConfig().Upload.Provider,
		log:             discardLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.wizard = domain.NewWizard(domain.PanelCheckerFunc(a.panelValid))
	a.resetLocked()
	return a
}

// Session identifies this submission in logs and analytics.
func (a *AddPreprint) Session() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Panel returns the open wizard panel.
func (a *AddPreprint) Panel() domain.Panel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wizard.Current()
}

// PanelValid reports whether the data behind p is complete.
func (a *AddPreprint) PanelValid(p domain.Panel) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.panelValid(p)
}

// panelValid expects a.mu to be held.
func (a *AddPreprint) panelValid(p domain.Panel) bool {
	switch p {
	case domain.PanelUpload:
		return a.node != nil && a.uploaded != nil
	case domain.PanelBasics:
		return a.validation.IsValid()
	case domain.PanelSubjects:
		return a.subjects != nil && len(a.subjects.Flatten()) > 0
	case domain.PanelAuthors:
		return len(a.contributors) > 0
	case domain.PanelSubmit:
		for _, q := range domain.Panels() {
			if q != domain.PanelSubmit && !a.panelValid(q) {
				return false
			}
		}
		return true
	}
	return false
}

// Next moves to the panel after the open one.
func (a *AddPreprint) Next() (domain.Panel, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nextLocked()
}

func (a *AddPreprint) nextLocked() (domain.Panel, error) {
	from := a.wizard.Current()
	to, err := a.wizard.Advance()
	if err != nil {
		a.log.Debug("wizard.advance.blocked", "session", a.session, "panel", string(from), "err", err)
		return to, err
	}
	a.log.Debug("wizard.advance", "session", a.session, "from", string(from), "to", string(to))
	return to, nil
}

// Back moves to the previous panel.
func (a *AddPreprint) Back() (domain.Panel, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wizard.Back()
}

// Open jumps to a panel. Later panels need every earlier one to be valid.
func (a *AddPreprint) Open(p domain.Panel) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.wizard.Open(p)
}

// UploadState returns the upload panel state.
func (a *AddPreprint) UploadState() UploadState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// SetUploadState switches between choosing a new or an existing project.
func (a *AddPreprint) SetUploadState(s UploadState) error {
	switch s {
	case UploadStart, UploadNew, UploadExisting:
	default:
		return &domain.OpError{Op: "addpreprint.upload_state", Kind: domain.KindValidation, Err: fmt.Errorf("unknown state %q: %w", s, domain.ErrInvalidInput)}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
	return nil
}

// PrepareUpload records the file that will be uploaded once a project is known.
func (a *AddPreprint) PrepareUpload(file domain.UploadFile) error {
	if strings.TrimSpace(file.Path) == "" {
		return &domain.OpError{Op: "addpreprint.prepare_upload", Kind: domain.KindValidation, Err: fmt.Errorf("file path is empty: %w", domain.ErrInvalidInput)}
	}
	if file.Name == "" {
		file.Name = filepath.Base(file.Path)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = &PendingUpload{File: file}
	a.uploaded = nil
	a.log.Info("upload.prepared", "session", a.session, "file", file.Name)
	return nil
}

// Pending returns the file waiting for upload, if any.
func (a *AddPreprint) Pending() (PendingUpload, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.pending == nil {
		return PendingUpload{}, false
	}
	return *a.pending, true
}

// ListUserNodes loads the projects of the current user.
func (a *AddPreprint) ListUserNodes(ctx context.Context) ([]domain.Node, error) {
	nodes, err := a.nodes.ListUserNodes(ctx)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userNodes = nodes
	return append([]domain.Node(nil), nodes...), nil
}

// UserNodes returns the projects loaded so far, including ones created here.
func (a *AddPreprint) UserNodes() []domain.Node {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Node(nil), a.userNodes...)
}

// SelectProject makes node the target of the upload and loads its contributors.
func (a *AddPreprint) SelectProject(ctx context.Context, node domain.Node) error {
	if !node.CanEdit() {
		return &domain.OpError{Op: "addpreprint.select_project", Kind: domain.KindValidation, Path: node.ID, Err: fmt.Errorf("no admin permission on %q: %w", node.Title, domain.ErrInvalidInput)}
	}

	contributors, err := a.nodes.Contributors(ctx, node.ID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.node = &node
	a.uploaded = nil
	a.contributors = contributors
	a.prefillBasicsLocked(node)
	a.log.Info("project.selected", "session", a.session, "node", node.ID, "contributors", len(contributors))
	return nil
}

// Node returns the selected project.
func (a *AddPreprint) Node() (domain.Node, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.node == nil {
		return domain.Node{}, false
	}
	return *a.node, true
}

// IsAdmin reports whether the current user administers the selected project.
func (a *AddPreprint) IsAdmin() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.node.IsAdmin()
}

// CanEdit reports whether the selected project may become a preprint.
func (a *AddPreprint) CanEdit() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.node.CanEdit()
}

// CreateProject creates a private project for the pending file and uploads it there.
func (a *AddPreprint) CreateProject(ctx context.Context, title string) (domain.Node, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Node{}, &domain.OpError{Op: "addpreprint.create_project", Kind: domain.KindValidation, Err: fmt.Errorf("title can't be blank: %w", domain.ErrInvalidInput)}
	}
	if _, ok := a.Pending(); !ok {
		return domain.Node{}, &domain.OpError{Op: "addpreprint.create_project", Kind: domain.KindValidation, Err: domain.ErrNoPendingUpload}
	}

	node, err := a.nodes.CreateNode(ctx, domain.NewNode{Title: title, Category: "project", Public: false})
	if err != nil {
		a.notify.Error(err.Error())
		return domain.Node{}, err
	}

	if err := a.adopt(ctx, node, "project.created"); err != nil {
		return node, err
	}
	_, err = a.StartUpload(ctx)
	return node, err
}

// AddChild creates a component under the selected project, named after it,
// and uploads the pending file into the component.
func (a *AddPreprint) AddChild(ctx context.Context) (domain.Node, error) {
	parent, ok := a.Node()
	if !ok {
		return domain.Node{}, &domain.OpError{Op: "addpreprint.add_child", Kind: domain.KindValidation, Err: domain.ErrNoProject}
	}

	child, err := a.nodes.AddChild(ctx, parent.ID, domain.NewNode{
		Title:       parent.Title + " Preprint",
		Description: parent.Description,
	})
	if err != nil {
		a.notify.Error(err.Error())
		return domain.Node{}, err
	}

	if err := a.adopt(ctx, child, "project.child_created"); err != nil {
		return child, err
	}
	_, err = a.StartUpload(ctx)
	return child, err
}

// adopt selects a node the current user just created.
func (a *AddPreprint) adopt(ctx context.Context, node domain.Node, event string) error {
	if len(node.CurrentUserPermissions) == 0 {
		node.CurrentUserPermissions = []string{domain.PermissionAdmin}
	}

	contributors, err := a.nodes.Contributors(ctx, node.ID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.userNodes = append(a.userNodes, node)
	a.node = &node
	a.uploaded = nil
	a.contributors = contributors
	a.prefillBasicsLocked(node)
	a.log.Info(event, "session", a.session, "node", node.ID)
	return nil
}

// DeleteProject destroys the selected project and forgets the pending upload.
func (a *AddPreprint) DeleteProject(ctx context.Context) error {
	node, ok := a.Node()
	if !ok {
		return &domain.OpError{Op: "addpreprint.delete_project", Kind: domain.KindValidation, Err: domain.ErrNoProject}
	}

	if err := a.nodes.DeleteNode(ctx, node.ID); err != nil {
		a.notify.Error(err.Error())
		return err
	}

	a.mu.Lock()
	a.node = nil
	a.pending = nil
	a.uploaded = nil
	a.contributors = nil
	a.userNodes = removeNode(a.userNodes, node.ID)
	a.state = UploadStart
	a.mu.Unlock()

	a.log.Info("project.deleted", "session", a.session, "node", node.ID)
	a.notify.Info(MsgProjectDeleted)
	return nil
}

// StartUpload sends the pending file to the selected project's storage and
// moves past the upload panel.
func (a *AddPreprint) StartUpload(ctx context.Context) (domain.UploadedFile, error) {
	const op = "addpreprint.start_upload"

	a.mu.Lock()
	pending, node := a.pending, a.node
	a.mu.Unlock()
	if pending == nil {
		return domain.UploadedFile{}, &domain.OpError{Op: op, Kind: domain.KindValidation, Err: domain.ErrNoPendingUpload}
	}
	if node == nil {
		return domain.UploadedFile{}, &domain.OpError{Op: op, Kind: domain.KindValidation, Err: domain.ErrNoProject}
	}

	target, err := a.uploadTarget(ctx, node.ID, pending.File.Name)
	if err != nil {
		a.notify.Error(err.Error())
		return domain.UploadedFile{}, err
	}

	a.notify.Info(MsgUploadStarted)
	a.log.Info("upload.started", "session", a.session, "node", node.ID, "file", pending.File.Name)

	uploaded, err := a.uploader.Upload(ctx, target, pending.File)
	if err != nil {
		a.log.Warn("upload.failed", "session", a.session, "node", node.ID, "err", err)
		a.notify.Error(err.Error())
		return domain.UploadedFile{}, err
	}

	a.mu.Lock()
	a.uploaded = &uploaded
	a.pending = nil
	if a.wizard.Current() == domain.PanelUpload {
		_, err = a.nextLocked()
	}
	a.mu.Unlock()

	a.log.Info("upload.finished", "session", a.session, "file_id", uploaded.ID)
	a.notify.Info(MsgUploadFinished)
	return uploaded, err
}

func (a *AddPreprint) uploadTarget(ctx context.Context, nodeID, fileName string) (string, error) {
	providers, err := a.nodes.StorageProviders(ctx, nodeID)
	if err != nil {
		return "", err
	}
	for _, p := range providers {
		if p.Name == a.storageProvider {
			u, err := p.NewFileURL(fileName)
			if err != nil {
				return "", &domain.OpError{Op: "addpreprint.upload_target", Kind: domain.KindRemote, Path: nodeID, Err: err}
			}
			return u, nil
		}
	}
	return "", &domain.OpError{
		Op:   "addpreprint.upload_target",
		Kind: domain.KindNotFound,
		Path: nodeID,
		Err:  fmt.Errorf("storage provider %q: %w", a.storageProvider, domain.ErrNoUploadTarget),
	}
}

// Uploaded returns the primary file, once uploaded.
func (a *AddPreprint) Uploaded() (domain.UploadedFile, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.uploaded == nil {
		return domain.UploadedFile{}, false
	}
	return *a.uploaded, true
}

// SetBasics stores the basics form and validates it.
func (a *AddPreprint) SetBasics(b domain.Basics) domain.BasicsValidation {
	v := domain.ValidateBasics(b)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.basics = b
	a.validation = v
	a.basicsFromNode = false
	return v
}

// prefillBasicsLocked copies title, description and tags of node into the basics form
// unless the form holds values that did not come from a project.
func (a *AddPreprint) prefillBasicsLocked(node domain.Node) {
	if !a.basicsFromNode && !isZeroBasics(a.basics) {
		return
	}
	a.basics = domain.Basics{
		Title:    node.Title,
		Abstract: node.Description,
		Tags:     append([]string(nil), node.Tags...),
	}
	a.validation = domain.ValidateBasics(a.basics)
	a.basicsFromNode = true
}

func isZeroBasics(b domain.Basics) bool {
	return b.Title == "" && b.Abstract == "" && b.DOI == "" && len(b.Tags) == 0
}

// Basics returns the stored basics form and its validation.
func (a *AddPreprint) Basics() (domain.Basics, domain.BasicsValidation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.basics, a.validation
}

// Subjects is the subject picker of this submission.
func (a *AddPreprint) Subjects() *Subjects { return a.subjects }

// FindContributors searches users by full name.
func (a *AddPreprint) FindContributors(ctx context.Context, query string, page domain.Page) (domain.UserPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.UserPage{Users: []domain.User{}}, nil
	}
	if page.Number < 1 {
		page.Number = 1
	}
	return a.users.SearchUsers(ctx, query, page)
}

// Contributors returns the contributors of the selected project.
func (a *AddPreprint) Contributors() []domain.Contributor {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]domain.Contributor(nil), a.contributors...)
}

// Submit creates the preprint once every panel is valid.
func (a *AddPreprint) Submit(ctx context.Context) (domain.Preprint, error) {
	const op = "addpreprint.submit"

	a.mu.Lock()
	var invalid []string
	for _, p := range domain.Panels() {
		if p != domain.PanelSubmit && !a.panelValid(p) {
			invalid = append(invalid, p.Title())
		}
	}
	if len(invalid) > 0 {
		a.mu.Unlock()
		return domain.Preprint{}, &domain.OpError{
			Op:   op,
			Kind: domain.KindValidation,
			Err:  fmt.Errorf("%s: %w", strings.Join(invalid, ", "), domain.ErrPanelInvalid),
		}
	}
	draft := domain.PreprintDraft{
		NodeID:        a.node.ID,
		PrimaryFileID: a.uploaded.ID,
		Provider:      a.provider,
		Basics:        a.basics,
		Subjects:      a.subjects.Flatten(),
	}
	session := a.session
	a.mu.Unlock()

	pp, err := a.submitter.SubmitPreprint(ctx, draft)
	if err != nil {
		a.notify.Error(err.Error())
		return domain.Preprint{}, err
	}

	a.log.Info("preprint.submitted", "session", session, "preprint", pp.ID, "subjects", len(draft.Subjects))
	if err := a.events.Track(domain.Event{Category: "button", Action: "click", Label: "Preprints - Submit - " + pp.ID}); err != nil {
		a.log.Warn("analytics.track.failed", "err", err)
	}
	a.notify.Info(MsgPreprintCreated)

	a.mu.Lock()
	if a.wizard.Current() != domain.PanelSubmit {
		if err := a.wizard.Open(domain.PanelSubmit); err != nil {
			a.log.Warn("wizard.open.failed", "session", session, "panel", domain.PanelSubmit, "err", err)
		}
	}
	a.mu.Unlock()
	return pp, nil
}

// Reset abandons the submission and starts a new session.
func (a *AddPreprint) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.resetLocked()
}

func (a *AddPreprint) resetLocked() {
	a.session = uuid.NewString()
	a.wizard.Reset()
	a.state = UploadStart
	a.pending = nil
	a.node = nil
	a.uploaded = nil
	a.basics = domain.Basics{}
	a.validation = domain.ValidateBasics(a.basics)
	a.basicsFromNode = false
	a.contributors = nil
	if a.subjects != nil {
		a.subjects.Reset()
	}
}

func removeNode(nodes []domain.Node, id string) []domain.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}

// IsValidation reports whether err is a wizard rule rather than a failure.
func IsValidation(err error) bool {
	return domain.IsKind(err, domain.KindValidation) || errors.Is(err, domain.ErrPanelInvalid)
}
