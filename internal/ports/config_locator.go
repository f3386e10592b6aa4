package ports

// ConfigLocator finds the directory holding preprints.yaml starting from an arbitrary directory.
type ConfigLocator interface {
	FindRoot(startDir string) (string, error)
}

// ConfigInitializer writes a default configuration into root.
type ConfigInitializer interface {
	Init(root string, force bool) error
}
