// Package cache keeps analysis reports on disk so that unchanged sources are
// not parsed again. Entries are keyed by a hash of the source combined with a
// fingerprint of the checker configuration.
package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"

	serrors "github.com/sachi/sachi-go/internal/errors"
	"github.com/sachi/sachi-go/internal/report"
)

const bucketName = "reports"

// Manager handles cache operations
type Manager struct {
	db          *bolt.DB
	path        string
	ttl         time.Duration
	fingerprint string
	logger      logrus.FieldLogger
	now         func() time.Time
}

// Options configure a Manager
type Options struct {
	// TTL after which entries are misses; zero keeps entries forever
	TTL time.Duration
	// Fingerprint identifies the checker configuration the reports were built with
	Fingerprint string
	Logger      logrus.FieldLogger
}

type entry struct {
	CreatedAt time.Time         `json:"created_at"`
	Report    *report.ASTReport `json:"report"`
}

// Stats describes the content of the cache
type Stats struct {
	Path    string `json:"path" yaml:"path"`
	Entries int    `json:"entries" yaml:"entries"`
	Expired int    `json:"expired" yaml:"expired"`
	Size    int64  `json:"size" yaml:"size"`
}

// Open opens (creating if needed) the cache database at path
func Open(path string, opts Options) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, serrors.StorageErrorf(err, "failed to create cache directory for %s", path)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, serrors.StorageErrorf(err, "failed to open cache %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, serrors.StorageError(err, "failed to initialize cache bucket")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Manager{
		db:          db,
		path:        path,
		ttl:         opts.TTL,
		fingerprint: opts.Fingerprint,
		logger:      logger.WithField("component", "cache"),
		now:         time.Now,
	}, nil
}

// Fingerprint hashes the given configuration parts into a short identifier
func Fingerprint(parts ...string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(strings.Join(parts, "\x00")))
}

// Key returns the cache key of source
func (m *Manager) Key(source []byte) []byte {
	return []byte(fmt.Sprintf("%016x:%s", xxhash.Sum64(source), m.fingerprint))
}

// Get returns the cached report for source. The returned report is marked
// as cached; its target is the one it was stored with.
func (m *Manager) Get(source []byte) (*report.ASTReport, bool) {
	var e entry
	found := false

	err := m.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get(m.Key(source))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		m.logger.WithError(err).Warn("Failed to read cache entry")
		return nil, false
	}
	if !found || e.Report == nil || m.expired(e) {
		return nil, false
	}

	e.Report.Cached = true
	return e.Report, true
}

// Put stores the report of source
func (m *Manager) Put(source []byte, r *report.ASTReport) error {
	data, err := json.Marshal(entry{CreatedAt: m.now().UTC(), Report: r})
	if err != nil {
		return serrors.StorageError(err, "failed to encode cache entry")
	}

	err = m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put(m.Key(source), data)
	})
	if err != nil {
		return serrors.StorageError(err, "failed to write cache entry")
	}
	return nil
}

// Clear removes every entry and returns how many were removed
func (m *Manager) Clear() (int, error) {
	removed := 0
	err := m.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket([]byte(bucketName)); b != nil {
			removed = b.Stats().KeyN
			if err := tx.DeleteBucket([]byte(bucketName)); err != nil {
				return err
			}
		}
		_, err := tx.CreateBucket([]byte(bucketName))
		return err
	})
	if err != nil {
		return 0, serrors.StorageError(err, "failed to clear cache")
	}

	m.logger.WithField("removed", removed).Debug("Cache cleared")
	return removed, nil
}

// Stats counts entries and reports the database size
func (m *Manager) Stats() (Stats, error) {
	s := Stats{Path: m.path}
	err := m.db.View(func(tx *bolt.Tx) error {
		s.Size = tx.Size()
		return tx.Bucket([]byte(bucketName)).ForEach(func(k, v []byte) error {
			s.Entries++
			var e entry
			if err := json.Unmarshal(v, &e); err != nil || m.expired(e) {
				s.Expired++
			}
			return nil
		})
	})
	if err != nil {
		return Stats{}, serrors.StorageError(err, "failed to read cache stats")
	}
	return s, nil
}

// Path returns the location of the cache database
func (m *Manager) Path() string {
	return m.path
}

// Close releases the database
func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) expired(e entry) bool {
	return m.ttl > 0 && m.now().Sub(e.CreatedAt) > m.ttl
}
