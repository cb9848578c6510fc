// Package staging implements the recoverable holding area for deleted files.
// A delete command never erases anything at execute time: each path is moved
// into a uuid-named slot under the trash root, together with a manifest
// recording where it came from. Undo restores the payload; permanent removal
// happens only when the owning command leaves history.
package staging

import (
	"encoding/json"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/fman/pkg/errors"
	"github.com/arthur-debert/fman/pkg/types"
)

// ManifestName is the name of the per-slot manifest file
const ManifestName = "entry.json"

// Entry describes one staged path
type Entry struct {
	ID       string    `json:"id"`
	From     string    `json:"from"`
	Name     string    `json:"name"`
	IsDir    bool      `json:"is_dir"`
	Size     int64     `json:"size"`
	StagedAt time.Time `json:"staged_at"`
}

// Area is a staging area rooted at a single directory.
// All methods are safe for use from the single worker context that owns a
// command run; the area itself carries no cross-command state.
type Area struct {
	fs   types.FS
	root string
	log  zerolog.Logger
}

// New creates a staging area rooted at root. The directory is created on
// first Put.
func New(fs types.FS, root string, logger zerolog.Logger) *Area {
	return &Area{fs: fs, root: root, log: logger}
}

// Root returns the staging root directory.
func (a *Area) Root() string { return a.root }

// Available reports whether the staging root exists or can be created.
func (a *Area) Available() error {
	if err := a.fs.MkdirAll(a.root, 0755); err != nil {
		return errors.Wrap(err, errors.ErrStagingUnavailable, "cannot create staging root")
	}
	return nil
}

// Put moves the file or directory at src into a fresh slot and records the
// manifest. The payload keeps its original basename so a restored path is
// byte-identical to what was deleted.
func (a *Area) Put(src string) (*Entry, error) {
	info, err := a.fs.Lstat(src)
	if err != nil {
		return nil, errors.FromOSError(err, "stat before staging")
	}

	entry := &Entry{
		ID:       uuid.NewString(),
		From:     src,
		Name:     filepath.Base(src),
		IsDir:    info.IsDir(),
		Size:     info.Size(),
		StagedAt: time.Now(),
	}

	slot := filepath.Join(a.root, entry.ID)
	if err := a.fs.MkdirAll(slot, 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrStagingUnavailable, "cannot create staging slot")
	}

	if err := a.fs.Rename(src, filepath.Join(slot, entry.Name)); err != nil {
		// Clean up the empty slot so a failed Put leaves no residue
		_ = a.fs.RemoveAll(slot)
		return nil, errors.FromOSError(err, "move into staging")
	}

	if err := a.writeManifest(entry); err != nil {
		a.log.Warn().Err(err).Str("id", entry.ID).Msg("staged payload has no manifest")
	}

	a.log.Debug().Str("id", entry.ID).Str("from", src).Msg("staged for deletion")
	return entry, nil
}

// Restore moves a staged payload back to its original location. It fails
// with ALREADY_EXISTS when something new occupies the original path.
func (a *Area) Restore(entry *Entry) error {
	if _, err := a.fs.Lstat(entry.From); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "restore target %s already exists", entry.From)
	}

	payload := filepath.Join(a.root, entry.ID, entry.Name)
	if _, err := a.fs.Lstat(payload); err != nil {
		return errors.Wrapf(err, errors.ErrNotFound, "staged payload %s is gone", entry.ID)
	}

	if err := a.fs.MkdirAll(filepath.Dir(entry.From), 0755); err != nil {
		return errors.FromOSError(err, "recreate parent for restore")
	}
	if err := a.fs.Rename(payload, entry.From); err != nil {
		return errors.FromOSError(err, "move out of staging")
	}

	_ = a.fs.RemoveAll(filepath.Join(a.root, entry.ID))
	a.log.Debug().Str("id", entry.ID).Str("to", entry.From).Msg("restored from staging")
	return nil
}

// Discard permanently removes a staged slot. This is the point of no return
// for a deleted file.
func (a *Area) Discard(entry *Entry) error {
	if err := a.fs.RemoveAll(filepath.Join(a.root, entry.ID)); err != nil {
		return errors.FromOSError(err, "discard staged payload")
	}
	a.log.Debug().Str("id", entry.ID).Str("from", entry.From).Msg("staged payload discarded")
	return nil
}

// List returns the entries currently held in the area, oldest first.
func (a *Area) List() ([]*Entry, error) {
	dirEntries, err := a.fs.ReadDir(a.root)
	if err != nil {
		return nil, errors.FromOSError(err, "read staging root")
	}

	var entries []*Entry
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		entry, err := a.readManifest(de.Name())
		if err != nil {
			a.log.Warn().Err(err).Str("slot", de.Name()).Msg("skipping unreadable staging slot")
			continue
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].StagedAt.Before(entries[j].StagedAt)
	})
	return entries, nil
}

func (a *Area) writeManifest(entry *Entry) error {
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}
	return a.fs.WriteFile(filepath.Join(a.root, entry.ID, ManifestName), data, 0644)
}

func (a *Area) readManifest(slot string) (*Entry, error) {
	data, err := a.fs.ReadFile(filepath.Join(a.root, slot, ManifestName))
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
