// Package deploy fetches a release archive and unpacks it into the install
// root. Extraction is additive: files in the archive overwrite their
// counterparts, files outside it are left alone. The same contract serves
// both the application archive and the bootstrap database archive.
package deploy

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jacredctl/internal/messages"
	"jacredctl/internal/workspace"
)

const defaultMaxArchiveBytes = int64(2 * 1024 * 1024 * 1024) // 2 GiB

// Deployer downloads archives into the workspace and extracts them.
type Deployer struct {
	Client          *http.Client
	Workspace       *workspace.Workspace
	MaxArchiveBytes int64
}

// NewDeployer returns a Deployer with a bounded-timeout HTTP client.
func NewDeployer(ws *workspace.Workspace) *Deployer {
	return &Deployer{
		Client:          &http.Client{Timeout: 15 * time.Minute},
		Workspace:       ws,
		MaxArchiveBytes: defaultMaxArchiveBytes,
	}
}

// WithClient overrides the HTTP client and returns the deployer. Seam for
// tests.
func (d *Deployer) WithClient(client *http.Client) *Deployer {
	d.Client = client
	return d
}

// Deploy downloads sourceURL to a transient path and extracts it into
// destRoot. The transient archive is removed whether or not extraction
// succeeds; stale blobs never accumulate.
func (d *Deployer) Deploy(ctx context.Context, sourceURL string, destRoot string) error {
	archivePath, err := d.download(ctx, sourceURL)
	if err != nil {
		return err
	}
	extractErr := extractTarGz(archivePath, destRoot)
	_ = os.Remove(archivePath)
	return extractErr
}

func (d *Deployer) download(ctx context.Context, sourceURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return "", fmt.Errorf(messages.DeployCreateRequestFmt, sourceURL, err)
	}
	req.Header.Set("User-Agent", "jacredctl")

	resp, err := d.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf(messages.DeployDownloadFmt, sourceURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf(messages.DeployUnexpectedStatusFmt, sourceURL, resp.Status)
	}

	dir, err := d.Workspace.TempDir()
	if err != nil {
		return "", err
	}
	file, err := d.Workspace.TempFile(dir, "archive-*.tar.gz")
	if err != nil {
		return "", err
	}

	limit := d.MaxArchiveBytes
	if limit <= 0 {
		limit = defaultMaxArchiveBytes
	}
	written, err := io.Copy(file, io.LimitReader(resp.Body, limit+1))
	if err != nil {
		_ = file.Close()
		return "", fmt.Errorf(messages.DeployWriteArchiveFmt, sourceURL, err)
	}
	if written > limit {
		_ = file.Close()
		return "", fmt.Errorf(messages.DeployTooLargeFmt, sourceURL, written, limit)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf(messages.DeployWriteArchiveFmt, sourceURL, err)
	}
	return file.Name(), nil
}

// extractTarGz unpacks archivePath into destRoot with overwrite-existing,
// keep-unlisted semantics.
func extractTarGz(archivePath string, destRoot string) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf(messages.DeployOpenArchiveFmt, archivePath, err)
	}
	defer func() { _ = file.Close() }()

	gz, err := gzip.NewReader(file)
	if err != nil {
		return fmt.Errorf(messages.DeployReadArchiveFmt, archivePath, err)
	}
	defer func() { _ = gz.Close() }()

	if err := os.MkdirAll(destRoot, 0o755); err != nil {
		return fmt.Errorf(messages.DeployCreateDestDirFmt, destRoot, err)
	}

	reader := tar.NewReader(gz)
	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf(messages.DeployReadArchiveFmt, archivePath, err)
		}
		target, err := safeJoin(destRoot, header.Name)
		if err != nil {
			return err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, header.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf(messages.DeployExtractEntryFmt, header.Name, err)
			}
		case tar.TypeReg:
			if err := writeEntry(target, reader, header.FileInfo().Mode().Perm()); err != nil {
				return fmt.Errorf(messages.DeployExtractEntryFmt, header.Name, err)
			}
		case tar.TypeSymlink:
			if err := safeLinkTarget(destRoot, target, header.Linkname); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf(messages.DeployExtractEntryFmt, header.Name, err)
			}
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf(messages.DeployExtractEntryFmt, header.Name, err)
			}
		}
	}
}

func writeEntry(target string, reader io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, reader); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// safeJoin resolves an archive entry name under destRoot and rejects names
// that escape it.
func safeJoin(destRoot string, name string) (string, error) {
	target := filepath.Join(destRoot, name)
	if target != destRoot && !strings.HasPrefix(target, destRoot+string(os.PathSeparator)) {
		return "", fmt.Errorf(messages.DeployUnsafeEntryFmt, name)
	}
	return target, nil
}

// safeLinkTarget rejects symlink entries whose target resolves outside
// destRoot. Absolute link targets are refused outright; relative ones are
// resolved against the link's own directory.
func safeLinkTarget(destRoot string, target string, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf(messages.DeployUnsafeLinkFmt, linkname)
	}
	resolved := filepath.Join(filepath.Dir(target), linkname)
	if resolved != destRoot && !strings.HasPrefix(resolved, destRoot+string(os.PathSeparator)) {
		return fmt.Errorf(messages.DeployUnsafeLinkFmt, linkname)
	}
	return nil
}
