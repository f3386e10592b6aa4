package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/aalvaropc/preprints/internal/domain"
)

type fakeTaxonomy struct {
	mu       sync.Mutex
	children map[string][]domain.Subject
	calls    map[string]int
	err      error
	// block, when set, is waited on before answering for that parent.
	block map[string]chan struct{}
}

func newFakeTaxonomy() *fakeTaxonomy {
	return &fakeTaxonomy{
		children: map[string][]domain.Subject{},
		calls:    map[string]int{},
		block:    map[string]chan struct{}{},
	}
}

func (f *fakeTaxonomy) Children(ctx context.Context, parentID string, _ int) ([]domain.Subject, error) {
	f.mu.Lock()
	f.calls[parentID]++
	ch := f.block[parentID]
	err := f.err
	out := f.children[parentID]
	f.mu.Unlock()

	if ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (f *fakeTaxonomy) callCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type fakeCounter struct {
	n   int64
	err error
}

func (f fakeCounter) CountPreprints(context.Context) (int64, error) { return f.n, f.err }

type fakeEvents struct {
	mu     sync.Mutex
	events []domain.Event
	err    error
}

func (f *fakeEvents) Track(ev domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

type fakeNotifier struct {
	mu    sync.Mutex
	infos []string
	errs  []string
}

func (f *fakeNotifier) Info(msg string)  { f.mu.Lock(); f.infos = append(f.infos, msg); f.mu.Unlock() }
func (f *fakeNotifier) Error(msg string) { f.mu.Lock(); f.errs = append(f.errs, msg); f.mu.Unlock() }

type fakeNodes struct {
	userNodes    []domain.Node
	created      []domain.NewNode
	childParents []string
	deleted      []string
	providers    []domain.StorageProvider
	contributors []domain.Contributor

	createErr error
	deleteErr error
	nextID    int
}

func (f *fakeNodes) ListUserNodes(context.Context) ([]domain.Node, error) { return f.userNodes, nil }

func (f *fakeNodes) CreateNode(_ context.Context, n domain.NewNode) (domain.Node, error) {
	if f.createErr != nil {
		return domain.Node{}, f.createErr
	}
	f.created = append(f.created, n)
	f.nextID++
	return domain.Node{ID: "new" + string(rune('0'+f.nextID)), Title: n.Title, Description: n.Description, Category: n.Category}, nil
}

func (f *fakeNodes) AddChild(ctx context.Context, parentID string, n domain.NewNode) (domain.Node, error) {
	f.childParents = append(f.childParents, parentID)
	return f.CreateNode(ctx, n)
}

func (f *fakeNodes) DeleteNode(_ context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeNodes) StorageProviders(context.Context, string) ([]domain.StorageProvider, error) {
	return f.providers, nil
}

func (f *fakeNodes) Contributors(context.Context, string) ([]domain.Contributor, error) {
	return f.contributors, nil
}

type fakeUploader struct {
	urls []string
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, u string, file domain.UploadFile) (domain.UploadedFile, error) {
	if f.err != nil {
		return domain.UploadedFile{}, f.err
	}
	f.urls = append(f.urls, u)
	return domain.UploadedFile{ID: "file-1", Name: file.Name}, nil
}

type fakeUsers struct {
	queries []string
	pages   []domain.Page
}

func (f *fakeUsers) SearchUsers(_ context.Context, q string, p domain.Page) (domain.UserPage, error) {
	f.queries = append(f.queries, q)
	f.pages = append(f.pages, p)
	return domain.UserPage{Users: []domain.User{{ID: "u1", FullName: q}}, Total: 1}, nil
}

type fakeSubmitter struct {
	drafts []domain.PreprintDraft
	err    error
}

func (f *fakeSubmitter) SubmitPreprint(_ context.Context, d domain.PreprintDraft) (domain.Preprint, error) {
	if f.err != nil {
		return domain.Preprint{}, f.err
	}
	f.drafts = append(f.drafts, d)
	return domain.Preprint{ID: "pp1", NodeID: d.NodeID, Subjects: d.Subjects}, nil
}

var errBoom = errors.New("boom")
