package accounts

import (
	"fmt"

	"github.com/quasilyte/gdata"
)

// GDataBackend stores profile records as gdata items in the user data dir.
type GDataBackend struct {
	m *gdata.Manager
}

// OpenGData opens (or creates) the data directory for appName.
func OpenGData(appName string) (*GDataBackend, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open gdata %q: %w", appName, err)
	}
	return &GDataBackend{m: m}, nil
}

func (b *GDataBackend) Load(key string) ([]byte, error) {
	if !b.m.ItemExists(key) {
		return nil, nil
	}
	return b.m.LoadItem(key)
}

func (b *GDataBackend) Save(key string, data []byte) error {
	return b.m.SaveItem(key, data)
}
