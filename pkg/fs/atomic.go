// Copyright © 2018 One Concern

package fs

import (
	"os"
	"path/filepath"

	"github.com/oneconcern/nr/pkg/errors"
	"github.com/spf13/afero"
)

// AtomicFile is a temporary file which replaces its target when committed.
//
// The temporary file is staged in the same directory as the target, so the
// final rename does not cross filesystems. Closing a file which has not been
// committed discards it.
type AtomicFile struct {
	afero.File
	fs     afero.Fs
	target string
	perm   os.FileMode
	done   bool
}

// CreateAtomic opens a temporary file that replaces path once committed
func (p *Paths) CreateAtomic(path string, perm os.FileMode) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := p.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.New("ensuring directories for " + path).Wrap(err)
	}
	f, err := afero.TempFile(p.fs, dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return nil, errors.New("create staging file for " + path).Wrap(err)
	}
	return &AtomicFile{
		File:   f,
		fs:     p.fs,
		target: path,
		perm:   perm,
	}, nil
}

// Target path replaced on commit
func (a *AtomicFile) Target() string {
	return a.target
}

// Commit closes the staging file and renames it into place
func (a *AtomicFile) Commit() error {
	if a.done {
		return ErrAtomicFileDone
	}
	a.done = true
	staged := a.File.Name()
	if err := a.File.Close(); err != nil {
		_ = a.fs.Remove(staged)
		return err
	}
	if err := a.fs.Chmod(staged, a.perm); err != nil {
		_ = a.fs.Remove(staged)
		return err
	}
	if err := a.fs.Rename(staged, a.target); err != nil {
		_ = a.fs.Remove(staged)
		return errors.New("commit " + a.target).Wrap(err)
	}
	return nil
}

// Discard closes and removes the staging file
func (a *AtomicFile) Discard() error {
	if a.done {
		return ErrAtomicFileDone
	}
	a.done = true
	staged := a.File.Name()
	closeErr := a.File.Close()
	return errors.Combine(closeErr, a.fs.Remove(staged))
}

// Close discards the file, unless already committed
func (a *AtomicFile) Close() error {
	if a.done {
		return nil
	}
	return a.Discard()
}

// WriteFileAtomic replaces the content of a file in one step
func (p *Paths) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	f, err := p.CreateAtomic(path, perm)
	if err != nil {
		return err
	}
	if _, err = f.Write(data); err != nil {
		_ = f.Discard()
		return err
	}
	return f.Commit()
}
