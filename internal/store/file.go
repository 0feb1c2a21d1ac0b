package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"voicedash/config/storage"
)

// ErrCorrupt is returned when the store document is not a JSON object and
// no usable backup exists.
var ErrCorrupt = errors.New("store: document is corrupt")

// FileStore keeps every key in a single JSON object on disk. Reads use
// gjson, batches are spliced in with sjson and committed by an atomic
// rename. An advisory lock on a sidecar file serializes processes.
type FileStore struct {
	path    string
	backups int
	mu      sync.Mutex
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithBackups sets how many rolling backups to keep. 0 disables backups.
func WithBackups(n int) FileOption {
	return func(s *FileStore) {
		s.backups = n
	}
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	s := &FileStore{
		path:    path,
		backups: storage.DefaultBackupRetention,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the document path
func (s *FileStore) Path() string {
	return s.path
}

// Get returns the raw JSON stored under key.
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateKey(key); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	release, err := s.acquire(false)
	if err != nil {
		return nil, err
	}
	defer release()

	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}

	result := gjson.GetBytes(doc, key)
	if !result.Exists() {
		return nil, ErrNotFound
	}
	return []byte(result.Raw), nil
}

// Set stores value under key.
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	return s.Apply(ctx, Put(key, value))
}

// Delete removes key.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, Remove(key))
}

// Apply splices every op into the document and commits it with one rename.
func (s *FileStore) Apply(ctx context.Context, ops ...Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateOps(ops); err != nil {
		return err
	}
	if len(ops) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	release, err := s.acquire(true)
	if err != nil {
		return err
	}
	defer release()

	doc, err := s.readDocument()
	if err != nil {
		return err
	}

	for _, op := range ops {
		if op.Delete {
			doc, err = sjson.DeleteBytes(doc, op.Key)
		} else {
			doc, err = sjson.SetRawBytes(doc, op.Key, op.Value)
		}
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", op.Key, err)
		}
	}

	if err := storage.AtomicWrite(s.path, doc, s.backups); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	return nil
}

// readDocument returns the current document, "{}" when the file does not
// exist yet. A corrupt document is replaced by its newest backup if any.
func (s *FileStore) readDocument() ([]byte, error) {
	doc, err := s.readRaw()
	if err != nil {
		return nil, err
	}
	if isObject(doc) {
		return doc, nil
	}

	if s.backups > 0 {
		bm := storage.NewBackupManager(s.backups)
		if restoreErr := bm.RestoreFromLatestBackup(s.path); restoreErr == nil {
			doc, err = s.readRaw()
			if err == nil && isObject(doc) {
				return doc, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrCorrupt, s.path)
}

func (s *FileStore) readRaw() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []byte("{}"), nil
		}
		return nil, fmt.Errorf("failed to read store: %w", err)
	}
	if len(data) == 0 {
		return []byte("{}"), nil
	}
	return data, nil
}

func isObject(doc []byte) bool {
	return gjson.ValidBytes(doc) && gjson.ParseBytes(doc).IsObject()
}

// acquire takes the sidecar lock; the document itself is replaced by
// rename, so locking it directly would lock a stale inode.
func (s *FileStore) acquire(exclusive bool) (func(), error) {
	f, err := os.OpenFile(s.path+".lock", os.O_RDWR|os.O_CREATE, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if exclusive {
		err = lockFileExclusive(f)
	} else {
		err = lockFileShared(f)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to lock store: %w", err)
	}

	return func() {
		_ = unlockFile(f)
		f.Close()
	}, nil
}
