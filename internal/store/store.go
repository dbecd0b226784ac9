package store

import (
	"os"
	"path/filepath"
)

// Store is the client's local state directory (~/.dayplan by default). It holds
// the config file, the action journal and the TUI state. Day documents are never
// stored here; the backend owns them.
type Store struct {
	Dir string
}

// Open returns the store rooted at the config dir.
func Open() (Store, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: dir}, nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) path(name string) string {
	return filepath.Join(s.Dir, name)
}
