// Package deviceid keeps the anonymous device identity the companion client
// sends as userId. The id is created on first use and persisted so later
// runs report under the same identity.
package deviceid

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Alijeyrad/eunoia_backend/pkg/constants"
)

// Prefix starts every generated id. Servers treat ids as opaque.
const Prefix = "user_"

// Store is the durable backing store for the id.
type Store interface {
	// Load returns "" and no error when nothing is stored yet.
	Load() (string, error)
	Save(id string) error
}

// Provider hands out one id per store. The first call loads or generates it;
// later calls return the memoized value.
type Provider struct {
	mu       sync.Mutex
	store    Store
	generate func() (string, error)
	id       string
}

func New(store Store) *Provider {
	return &Provider{store: store, generate: Generate}
}

// NewFileProvider stores the id in a file at path, or at DefaultPath when
// path is empty.
func NewFileProvider(path string) (*Provider, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return New(FileStore{Path: path}), nil
}

// EnsureInitialized loads the stored id or generates and persists a new one.
// It is safe to call repeatedly and from several goroutines.
func (p *Provider) EnsureInitialized() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.id != "" {
		return p.id, nil
	}

	id, err := p.store.Load()
	if err != nil {
		return "", fmt.Errorf("load device id: %w", err)
	}
	if id == "" {
		if id, err = p.generate(); err != nil {
			return "", fmt.Errorf("generate device id: %w", err)
		}
		if err := p.store.Save(id); err != nil {
			return "", fmt.Errorf("save device id: %w", err)
		}
	}
	p.id = id
	return id, nil
}

// ID is EnsureInitialized for callers that only need the value.
func (p *Provider) ID() (string, error) {
	return p.EnsureInitialized()
}

// Generate returns a fresh id: Prefix, a random base36 part and the current
// time in base36.
func Generate() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	random := binary.BigEndian.Uint64(u[:8])
	return Prefix +
		strconv.FormatUint(random, 36) +
		strconv.FormatInt(time.Now().UnixMilli(), 36), nil
}

// ---------------------------------------------------------------------------
// File store
// ---------------------------------------------------------------------------

// DefaultPath is <user config dir>/eunoia/device_id.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, constants.AppName, "device_id"), nil
}

// FileStore keeps the id as a single line in a file.
type FileStore struct {
	Path string
}

func (s FileStore) Load() (string, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func (s FileStore) Save(id string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.Path, []byte(id+"\n"), 0o600)
}
