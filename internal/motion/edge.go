package motion

// Watcher feeds hardware edges into a Signal until closed.
type Watcher interface {
	Close() error
}
