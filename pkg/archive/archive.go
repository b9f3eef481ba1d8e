// Copyright © 2018 One Concern

// Package archive builds tar, compressed tar and zip archives from files and
// directories, honoring exclude patterns and .gitignore files.
package archive

import (
	"archive/tar"
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/minio/blake2b-simd"
	"github.com/oneconcern/nr/pkg/errors"
	"github.com/oneconcern/nr/pkg/fs"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ChecksumSuffix is appended to the archive name to store its checksum
const ChecksumSuffix = ".b2sum"

// Options for building an archive
type Options struct {
	Format Format
	// Prefix is a directory prepended to all names in the archive
	Prefix string
	// Excludes are glob patterns of names to leave out
	Excludes []string
	// Gitignore applies the .gitignore files found in source directories
	Gitignore bool
	// Checksum writes the BLAKE2b-512 sum of the archive next to it
	Checksum bool
}

// Summary of a written archive
type Summary struct {
	Output string
	Format Format
	Files  int
	Dirs   int
	// Size of the archived content, before compression
	Size int64
	// Written is the size of the archive itself
	Written  int64
	Checksum string
	Duration time.Duration
}

// Archiver writes archives of files read from a filesystem
type Archiver struct {
	fs          afero.Fs
	paths       *fs.Paths
	logger      *zap.Logger
	concurrency int
}

// Option configures an Archiver
type Option func(*Archiver)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(a *Archiver) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithPaths sets how source paths are resolved
func WithPaths(p *fs.Paths) Option {
	return func(a *Archiver) {
		a.paths = p
	}
}

// WithConcurrency sets how many sources are walked at the same time
func WithConcurrency(n int) Option {
	return func(a *Archiver) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// New archiver reading from afs
func New(afs afero.Fs, opts ...Option) *Archiver {
	a := &Archiver{
		fs:          afs,
		logger:      zap.NewNop(),
		concurrency: runtime.NumCPU(),
	}
	for _, apply := range opts {
		apply(a)
	}
	if a.paths == nil {
		a.paths = fs.New(afs)
	}
	return a
}

// Create writes an archive of sources to output.
//
// The format is inferred from the output name unless set in opts. The archive
// is written to a staging file and only replaces output once complete.
func (a *Archiver) Create(ctx context.Context, output string, sources []string, opts Options) (Summary, error) {
	start := time.Now()
	if opts.Format == "" {
		format, err := FormatFromName(output)
		if err != nil {
			return Summary{}, err
		}
		opts.Format = format
	}

	target, err := a.paths.Canonical(output, "")
	if err != nil {
		return Summary{}, err
	}
	entries, err := a.Collect(ctx, sources, opts)
	if err != nil {
		return Summary{}, err
	}

	f, err := a.paths.CreateAtomic(target, 0o644)
	if err != nil {
		return Summary{}, err
	}
	defer f.Close()

	hasher := blake2b.New512()
	counter := &countingWriter{}
	summary, err := a.Write(ctx, io.MultiWriter(f, hasher, counter), entries, opts.Format)
	if err != nil {
		return Summary{}, errors.New("write archive " + output).Wrap(err)
	}
	if err = f.Commit(); err != nil {
		return Summary{}, err
	}

	summary.Output = target
	summary.Written = counter.n
	summary.Checksum = hex.EncodeToString(hasher.Sum(nil))
	if opts.Checksum {
		line := fmt.Sprintf("%s  %s\n", summary.Checksum, filepath.Base(target))
		if err = a.paths.WriteFileAtomic(target+ChecksumSuffix, []byte(line), 0o644); err != nil {
			return summary, errors.New("write checksum").Wrap(err)
		}
	}
	summary.Duration = time.Since(start)

	a.logger.Info("archive created",
		zap.String("output", target),
		zap.Stringer("format", opts.Format),
		zap.Int("files", summary.Files),
		zap.Int64("bytes", summary.Written),
	)
	return summary, nil
}

// Write entries as an archive of the given format
func (a *Archiver) Write(ctx context.Context, w io.Writer, entries []Entry, format Format) (Summary, error) {
	summary := Summary{Format: format}
	var (
		aw  entryWriter
		err error
	)
	switch format {
	case Tar:
		aw = newTarWriter(w, nil)
	case TarGz:
		gz, gerr := gzip.NewWriterLevel(w, gzip.DefaultCompression)
		if gerr != nil {
			return summary, gerr
		}
		aw = newTarWriter(gz, gz)
	case TarZst:
		zw, zerr := zstd.NewWriter(w)
		if zerr != nil {
			return summary, zerr
		}
		aw = newTarWriter(zw, zw)
	case Zip:
		aw = &zipWriter{zw: zip.NewWriter(w)}
	default:
		return summary, errors.Newf("%q", format).Wrap(ErrUnknownFormat)
	}

	for _, e := range entries {
		if err = ctx.Err(); err != nil {
			break
		}
		if err = a.writeEntry(aw, e); err != nil {
			err = errors.New(e.Source).Wrap(err)
			break
		}
		if e.Info.IsDir() {
			summary.Dirs++
			continue
		}
		summary.Files++
		summary.Size += e.Info.Size()
	}
	return summary, errors.Combine(err, aw.Close())
}

func (a *Archiver) writeEntry(aw entryWriter, e Entry) error {
	if e.Info.IsDir() {
		return aw.WriteDir(e)
	}
	src, err := a.fs.Open(e.Source)
	if err != nil {
		return err
	}
	defer src.Close()
	return aw.WriteFile(e, src)
}

type entryWriter interface {
	WriteDir(Entry) error
	WriteFile(Entry, io.Reader) error
	Close() error
}

type tarWriter struct {
	tw         *tar.Writer
	compressor io.Closer
}

func newTarWriter(w io.Writer, compressor io.Closer) *tarWriter {
	return &tarWriter{tw: tar.NewWriter(w), compressor: compressor}
}

func (t *tarWriter) header(e Entry) (*tar.Header, error) {
	hdr, err := tar.FileInfoHeader(e.Info, "")
	if err != nil {
		return nil, err
	}
	hdr.Name = e.Name
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""
	hdr.Format = tar.FormatPAX
	return hdr, nil
}

func (t *tarWriter) WriteDir(e Entry) error {
	hdr, err := t.header(e)
	if err != nil {
		return err
	}
	hdr.Name += "/"
	return t.tw.WriteHeader(hdr)
}

func (t *tarWriter) WriteFile(e Entry, r io.Reader) error {
	hdr, err := t.header(e)
	if err != nil {
		return err
	}
	if err = t.tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(t.tw, r)
	return err
}

func (t *tarWriter) Close() error {
	err := t.tw.Close()
	if t.compressor != nil {
		err = errors.Combine(err, t.compressor.Close())
	}
	return err
}

type zipWriter struct {
	zw *zip.Writer
}

func (z *zipWriter) WriteDir(e Entry) error {
	hdr, err := zip.FileInfoHeader(e.Info)
	if err != nil {
		return err
	}
	hdr.Name = e.Name + "/"
	_, err = z.zw.CreateHeader(hdr)
	return err
}

func (z *zipWriter) WriteFile(e Entry, r io.Reader) error {
	hdr, err := zip.FileInfoHeader(e.Info)
	if err != nil {
		return err
	}
	hdr.Name = e.Name
	hdr.Method = zip.Deflate
	w, err := z.zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	return err
}

func (z *zipWriter) Close() error {
	return z.zw.Close()
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}

// Checksum computes the BLAKE2b-512 sum of a file, as written by Create
func (a *Archiver) Checksum(file string) (string, error) {
	f, err := a.fs.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()
	hasher := blake2b.New512()
	if _, err = io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
