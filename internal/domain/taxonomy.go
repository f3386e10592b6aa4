package domain

// Subject is one taxonomy node as shown to the user.
type Subject struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Level is a displayed breadcrumb entry with the children fetched for it.
type Level struct {
	Subject
	Children []Subject `json:"children"`
}

// RootParent is the parent filter value that selects top-level taxonomies.
const RootParent = "null"
