package domain

import (
	"net/url"
	"slices"
	"time"
)

// PermissionAdmin is the node permission that allows editing and deleting.
const PermissionAdmin = "admin"

// Node is a project or component that a preprint is attached to.
type Node struct {
	ID                     string   `json:"id"`
	Title                  string   `json:"title"`
	Description            string   `json:"description,omitempty"`
	Category               string   `json:"category,omitempty"`
	Public                 bool     `json:"public"`
	Registration           bool     `json:"registration"`
	Tags                   []string `json:"tags,omitempty"`
	CurrentUserPermissions []string `json:"current_user_permissions,omitempty"`
}

// IsAdmin reports whether the current user administers the node.
func (n *Node) IsAdmin() bool {
	if n == nil {
		return false
	}
	return slices.Contains(n.CurrentUserPermissions, PermissionAdmin)
}

// CanEdit reports whether the node may be turned into a preprint by the current user.
func (n *Node) CanEdit() bool {
	return n.IsAdmin() && !n.Registration
}

// NewNode is the payload for creating a project or a component.
type NewNode struct {
	Title       string
	Description string
	Category    string
	Public      bool
}

// User is an account found by contributor search.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

// Contributor is a user attached to a node.
type Contributor struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	FullName      string `json:"full_name"`
	Permission    string `json:"permission,omitempty"`
	Bibliographic bool   `json:"bibliographic"`
}

// Page selects one page of a paged listing. Zero values mean "server default".
type Page struct {
	Number int
	Size   int
}

// UserPage is one page of user search results.
type UserPage struct {
	Users []User `json:"users"`
	Total int    `json:"total"`
	Next  bool   `json:"next"`
}

// StorageProvider is a file store attached to a node.
type StorageProvider struct {
	Name      string `json:"name"`
	UploadURL string `json:"upload_url"`
}

// NewFileURL is the upload link with the query that creates a new file called name.
func (p StorageProvider) NewFileURL(name string) (string, error) {
	if p.UploadURL == "" {
		return "", ErrNoUploadTarget
	}
	u, err := url.Parse(p.UploadURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("kind", "file")
	q.Set("name", name)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// UploadFile is a local file waiting to be uploaded.
type UploadFile struct {
	Name string `json:"name" yaml:"name"`
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size,omitempty" yaml:"-"`
}

// UploadedFile is the stored copy of an UploadFile.
type UploadedFile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Path string `json:"path,omitempty"`
}

// PreprintDraft is everything sent to the backend on submission.
type PreprintDraft struct {
	NodeID        string
	PrimaryFileID string
	Provider      string
	Basics        Basics
	Subjects      []Path
}

// Preprint is a submitted preprint.
type Preprint struct {
	ID          string    `json:"id"`
	NodeID      string    `json:"node_id"`
	DOI         string    `json:"doi,omitempty"`
	Subjects    []Path    `json:"subjects"`
	DateCreated time.Time `json:"date_created,omitempty"`
}

// SubmissionDraft drives the whole wizard from a file instead of a person.
type SubmissionDraft struct {
	// ProjectID selects an existing project; empty creates ProjectTitle.
	ProjectID    string
	ProjectTitle string
	// AsChild uploads into a new component of the project instead of the project itself.
	AsChild bool

	File     UploadFile
	Basics   Basics
	Subjects []Path
	Provider string
}
