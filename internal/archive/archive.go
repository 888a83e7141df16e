// Package archive opens a chat export, either an extracted folder or the
// .zip file the provider hands out, and locates conversations.json in it.
package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// ConversationsFile is the file every supported export carries.
const ConversationsFile = "conversations.json"

var (
	// ErrNotFound is returned when the export path is missing or is neither
	// a directory nor a .zip file.
	ErrNotFound = errors.New("export path not found or unsupported")
	// ErrNoConversations is returned when the export has no conversations.json.
	ErrNoConversations = errors.New("conversations.json not found in export")
)

// Source is an opened export. Close releases any temporary extraction.
type Source struct {
	Root    string
	cleanup func() error
}

// Open returns the directory holding the export at path. A .zip is extracted
// into extractDir, or into a temporary directory removed on Close when
// extractDir is empty.
func Open(path, extractDir string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if info.IsDir() {
		return &Source{Root: path, cleanup: noop}, nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".zip") {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	if extractDir != "" {
		if err := os.MkdirAll(extractDir, 0o755); err != nil {
			return nil, fmt.Errorf("create extract dir: %w", err)
		}
		if err := extract(path, extractDir); err != nil {
			return nil, err
		}
		return &Source{Root: extractDir, cleanup: noop}, nil
	}

	tmp, err := os.MkdirTemp("", "yywc_")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	if err := extract(path, tmp); err != nil {
		_ = os.RemoveAll(tmp)
		return nil, err
	}
	return &Source{Root: tmp, cleanup: func() error { return os.RemoveAll(tmp) }}, nil
}

// Close removes temporary files created by Open. It is safe to call twice.
func (s *Source) Close() error {
	if s.cleanup == nil {
		return nil
	}
	err := s.cleanup()
	s.cleanup = nil
	return err
}

// ConversationsPath returns the conversations.json path, looking at the
// root first and then anywhere below it (some exports nest a folder).
func (s *Source) ConversationsPath() (string, error) {
	direct := filepath.Join(s.Root, ConversationsFile)
	if info, err := os.Stat(direct); err == nil && !info.IsDir() {
		return direct, nil
	}

	var found string
	err := filepath.WalkDir(s.Root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && d.Name() == ConversationsFile {
			found = p
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("search export: %w", err)
	}
	if found == "" {
		return "", ErrNoConversations
	}
	return found, nil
}

func extract(zipPath, dest string) error {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer zr.Close()

	root, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolve extract dir: %w", err)
	}

	for _, f := range zr.File {
		target := filepath.Join(root, f.Name)
		if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry escapes extract dir: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("mkdir: %w", err)
			}
			continue
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", f.Name, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", f.Name, err)
	}
	return out.Close()
}

func noop() error { return nil }
