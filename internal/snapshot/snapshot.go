// Package snapshot is the engine that orchestrates every other package in
// this module into the three user-facing operations a store supports:
// Backup, Verify, and Restore, plus the List/Cleanup maintenance pair.
// Backup and ListSnapshots both run Cleanup before trusting the store's
// contents; Verify and Restore do not.
package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	goccyjson "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"backupvault/internal/fsutil"
	"backupvault/internal/hashutil"
	"backupvault/internal/merkle"
	"backupvault/internal/rollback"
	"backupvault/internal/wal"
)

// DefaultChunkSize is the block size Backup splits files into when no
// override is configured.
const DefaultChunkSize = 1 << 20 // 1 MiB

const tempPrefix = ".tmp_"

// FileRecord is one file's entry in a manifest: its path relative to the
// backup root, POSIX-normalized, and the ordered chunk ids that
// reconstruct it byte for byte when concatenated.
type FileRecord struct {
	Path   string   `json:"path"`
	Chunks []string `json:"chunks"`
}

// Manifest is the full description of one snapshot, persisted as
// manifest.json inside the snapshot directory.
type Manifest struct {
	SnapshotID  string       `json:"snapshot_id"`
	Label       string       `json:"label"`
	TimestampMS int64        `json:"timestamp"`
	Files       []FileRecord `json:"files"`
	MerkleRoot  string       `json:"merkle_root"`
}

// Info is the summary returned by ListSnapshots.
type Info struct {
	ID          string
	Label       string
	TimestampMS int64
	FileCount   int
	MerkleRoot  string
}

// Options configures a Backup call beyond its required arguments.
type Options struct {
	ChunkSize int
	Excludes  []string
	// Parallelism bounds how many files are chunked and hashed
	// concurrently. A value <= 0 means unbounded (errgroup's default).
	Parallelism int
}

func (o Options) chunkSize() int {
	if o.ChunkSize > 0 {
		return o.ChunkSize
	}
	return DefaultChunkSize
}

// Engine binds a single store directory and exposes the snapshot
// operations over it. All paths it manages are rooted at Store.
type Engine struct {
	Store string
}

// New returns an Engine rooted at store.
func New(store string) *Engine {
	return &Engine{Store: store}
}

func (e *Engine) walPath() string          { return filepath.Join(e.Store, "wal.log") }
func (e *Engine) rootsPath() string        { return filepath.Join(e.Store, "roots.log") }
func (e *Engine) snapDir(id string) string { return filepath.Join(e.Store, id) }
func (e *Engine) tempDir(id string) string { return filepath.Join(e.Store, tempPrefix+id) }

// AuditLogPath returns the path to this store's audit log, per the
// bit-exact store layout: audit.log lives alongside wal.log and
// roots.log, not in a separate location, since an audit trail detached
// from the store it audits is meaningless.
func (e *Engine) AuditLogPath() string { return filepath.Join(e.Store, "audit.log") }

// Backup captures a point-in-time snapshot of source under label,
// following the pre-clean / begin / chunk / commit / rename sequence
// that makes the result crash-safe: the root chain is updated before the
// WAL commits, and the WAL commits before the staging directory becomes
// visible under its final name.
func (e *Engine) Backup(ctx context.Context, source, label string, opts Options) (string, error) {
	if _, err := e.CleanupIncompleteSnapshots(); err != nil {
		return "", fmt.Errorf("snapshot: pre-clean: %w", err)
	}

	if !fsutil.Exists(source) {
		return "", fmt.Errorf("snapshot: source path not found: %s", source)
	}

	if err := fsutil.EnsureDir(e.Store); err != nil {
		return "", err
	}

	timestampMS := currentMillis()
	snapID := fmt.Sprintf("%d_%s", timestampMS, label)
	temp := e.tempDir(snapID)
	final := e.snapDir(snapID)
	tempChunks := filepath.Join(temp, "chunks")

	w := wal.New(e.walPath())
	if err := w.Begin(snapID); err != nil {
		return "", err
	}

	files, err := fsutil.WalkFiltered(source, opts.Excludes)
	if err != nil {
		_ = fsutil.RemoveDir(temp)
		return "", err
	}
	if len(files) == 0 {
		_ = fsutil.RemoveDir(temp)
		return "", fmt.Errorf("snapshot: no files to backup under %s", source)
	}

	if err := fsutil.EnsureDir(tempChunks); err != nil {
		_ = fsutil.RemoveDir(temp)
		return "", err
	}

	records, err := chunkFiles(ctx, files, tempChunks, opts)
	if err != nil {
		_ = fsutil.RemoveDir(temp)
		return "", err
	}

	var leaves []string
	for _, rec := range records {
		leaves = append(leaves, rec.Chunks...)
	}
	root := merkle.Root(leaves)

	manifest := Manifest{
		SnapshotID:  snapID,
		Label:       label,
		TimestampMS: timestampMS,
		Files:       records,
		MerkleRoot:  root,
	}
	manifestBytes, err := goccyjson.MarshalIndent(manifest, "", "  ")
	if err != nil {
		_ = fsutil.RemoveDir(temp)
		return "", err
	}
	if err := fsutil.WriteFile(filepath.Join(temp, "manifest.json"), manifestBytes); err != nil {
		_ = fsutil.RemoveDir(temp)
		return "", err
	}

	// The root must land in the chain before the WAL commits: a crash
	// between here and the commit below leaves an orphaned but harmless
	// chain entry, superseded by the next successful backup, while the
	// snapshot itself stays uncommitted and gets purged on next cleanup.
	// A crash after the commit but before the rename leaves a committed
	// staging directory, which the next cleanup renames into place.
	protector := rollback.New(e.rootsPath())
	if err := protector.Append(root); err != nil {
		_ = fsutil.RemoveDir(temp)
		return "", err
	}

	if err := w.Commit(snapID); err != nil {
		return "", err
	}

	if err := fsutil.AtomicRename(temp, final); err != nil {
		return "", fmt.Errorf("snapshot: commit recorded but rename failed, will retry on next cleanup: %w", err)
	}

	return snapID, nil
}

func chunkFiles(ctx context.Context, files []fsutil.FileEntry, tempChunks string, opts Options) ([]FileRecord, error) {
	records := make([]FileRecord, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallelism > 0 {
		g.SetLimit(opts.Parallelism)
	}

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			chunks, err := chunkOneFile(file.AbsPath, tempChunks, opts.chunkSize())
			if err != nil {
				return fmt.Errorf("%s: %w", file.RelPath, err)
			}
			records[i] = FileRecord{Path: file.RelPath, Chunks: chunks}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func chunkOneFile(absPath, tempChunksDir string, chunkSize int) ([]string, error) {
	var chunkIDs []string
	err := fsutil.ReadChunks(absPath, chunkSize, func(block []byte) error {
		hash := hashutil.Bytes(block)
		chunkPath := filepath.Join(tempChunksDir, hash+".chunk")
		if !fsutil.Exists(chunkPath) {
			if err := fsutil.WriteFile(chunkPath, block); err != nil {
				return err
			}
		}
		chunkIDs = append(chunkIDs, hash)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return chunkIDs, nil
}

// VerifyFailure describes why Verify rejected a snapshot.
type VerifyFailure struct {
	Reason        string
	MissingChunks []string
	CorruptChunks []string
}

func (f *VerifyFailure) Error() string {
	if f == nil {
		return ""
	}
	msg := "snapshot verify failed: " + f.Reason
	if n := len(f.MissingChunks); n > 0 {
		msg += fmt.Sprintf(" (%d missing: %s)", n, sampleIDs(f.MissingChunks))
	}
	if n := len(f.CorruptChunks); n > 0 {
		msg += fmt.Sprintf(" (%d corrupt: %s)", n, sampleIDs(f.CorruptChunks))
	}
	return msg
}

// sampleIDs renders up to 5 chunk ids for a diagnostic message: collect
// all offending ids, but only show a representative sample.
func sampleIDs(ids []string) string {
	if len(ids) > 5 {
		return strings.Join(ids[:5], ", ") + ", ..."
	}
	return strings.Join(ids, ", ")
}

// Verify recomputes a snapshot's integrity from scratch: every referenced
// chunk must exist and re-hash to its id, the recomputed Merkle root must
// match the manifest, and that root must still be the root chain's tip.
// Verify is read-only and idempotent; it never consults the WAL.
func (e *Engine) Verify(snapshotID string) error {
	dir := e.snapDir(snapshotID)
	manifest, err := e.readManifest(dir)
	if err != nil {
		return err
	}

	protector := rollback.New(e.rootsPath())
	if err := protector.Verify(manifest.MerkleRoot); err != nil {
		return err
	}

	chunksDir := filepath.Join(dir, "chunks")
	var missing, corrupt []string
	var leaves []string
	for _, rec := range manifest.Files {
		for _, id := range rec.Chunks {
			leaves = append(leaves, id)
			chunkPath := filepath.Join(chunksDir, id+".chunk")
			data, err := readChunk(chunkPath)
			if err != nil {
				missing = append(missing, id)
				continue
			}
			if hashutil.Bytes(data) != id {
				corrupt = append(corrupt, id)
			}
		}
	}
	if len(missing) > 0 || len(corrupt) > 0 {
		return &VerifyFailure{Reason: "missing or corrupt chunks", MissingChunks: missing, CorruptChunks: corrupt}
	}

	recomputed := merkle.Root(leaves)
	if recomputed != manifest.MerkleRoot {
		return &VerifyFailure{Reason: fmt.Sprintf("merkle root mismatch: manifest %s, recomputed %s", manifest.MerkleRoot, recomputed)}
	}

	return nil
}

// Restore verifies snapshotID, then reconstructs every file it describes
// under target by concatenating chunks in manifest order. It never
// writes output from a snapshot that fails Verify.
func (e *Engine) Restore(snapshotID, target string) error {
	if err := e.Verify(snapshotID); err != nil {
		return fmt.Errorf("snapshot: restore aborted, verify failed: %w", err)
	}

	dir := e.snapDir(snapshotID)
	manifest, err := e.readManifest(dir)
	if err != nil {
		return err
	}

	if err := fsutil.EnsureDir(target); err != nil {
		return err
	}

	chunksDir := filepath.Join(dir, "chunks")
	for _, rec := range manifest.Files {
		var data []byte
		for _, id := range rec.Chunks {
			chunk, err := readChunk(filepath.Join(chunksDir, id+".chunk"))
			if err != nil {
				return fmt.Errorf("snapshot: restore %s: %w", rec.Path, err)
			}
			data = append(data, chunk...)
		}
		if err := fsutil.WriteFile(filepath.Join(target, filepath.FromSlash(rec.Path)), data); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSnapshot removes a committed snapshot's directory from disk. The
// WAL's COMMIT record for it is never rewritten (the WAL is strictly
// append-only), so the snapshot's id remains in the committed set
// forever; ListSnapshots and Verify simply treat the missing manifest as
// absence, exactly as they would for any other unreadable manifest.
func (e *Engine) DeleteSnapshot(snapshotID string) error {
	dir := e.snapDir(snapshotID)
	if !fsutil.Exists(dir) {
		return fmt.Errorf("snapshot: %s not found", snapshotID)
	}
	return fsutil.RemoveDir(dir)
}

// ListSnapshots cleans up incomplete snapshots, then returns one Info per
// committed snapshot whose manifest parses, sorted by id.
func (e *Engine) ListSnapshots(labelGlob string) ([]Info, error) {
	if !fsutil.Exists(e.Store) {
		return nil, nil
	}
	if _, err := e.CleanupIncompleteSnapshots(); err != nil {
		return nil, err
	}

	committed, err := wal.New(e.walPath()).CommittedSet()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(committed))
	for id := range committed {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var infos []Info
	for _, id := range ids {
		manifest, err := e.readManifest(e.snapDir(id))
		if err != nil {
			continue // unreadable manifest: skip, matching the original's tolerant listing
		}
		if labelGlob != "" && !globMatch(labelGlob, manifest.Label) {
			continue
		}
		infos = append(infos, Info{
			ID:          manifest.SnapshotID,
			Label:       manifest.Label,
			TimestampMS: manifest.TimestampMS,
			FileCount:   len(manifest.Files),
			MerkleRoot:  manifest.MerkleRoot,
		})
	}
	return infos, nil
}

// CleanupIncompleteSnapshots purges staging directories orphaned by a
// crash and any snapshot directory not present in the WAL committed set.
// Where a commit landed but the final rename never happened, it retries
// the rename before falling back to deletion. It returns the number of
// entries removed.
func (e *Engine) CleanupIncompleteSnapshots() (int, error) {
	if !fsutil.Exists(e.Store) {
		return 0, nil
	}

	committed, err := wal.New(e.walPath()).CommittedSet()
	if err != nil {
		return 0, err
	}

	for id := range committed {
		final := e.snapDir(id)
		temp := e.tempDir(id)
		if !fsutil.Exists(final) && fsutil.Exists(temp) {
			if err := fsutil.AtomicRename(temp, final); err != nil {
				if err := fsutil.RemoveDir(temp); err != nil {
					return 0, err
				}
			}
		}
	}

	entries, err := listStoreEntries(e.Store)
	if err != nil {
		return 0, err
	}

	cleaned := 0
	for _, name := range entries {
		if strings.HasSuffix(name, ".log") {
			continue
		}
		path := filepath.Join(e.Store, name)
		if !fsutil.IsDir(path) {
			continue
		}
		if strings.HasPrefix(name, tempPrefix) {
			if err := fsutil.RemoveDir(path); err != nil {
				return cleaned, err
			}
			cleaned++
			continue
		}
		if !committed[name] {
			if err := fsutil.RemoveDir(path); err != nil {
				return cleaned, err
			}
			cleaned++
		}
	}
	return cleaned, nil
}

func (e *Engine) readManifest(snapDir string) (*Manifest, error) {
	data, err := readChunk(filepath.Join(snapDir, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("snapshot: read manifest: %w", err)
	}
	var manifest Manifest
	if err := goccyjson.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("snapshot: parse manifest: %w", err)
	}
	return &manifest, nil
}

func globMatch(pattern, label string) bool {
	matched, err := doublestar.Match(pattern, label)
	return err == nil && matched
}

func currentMillis() int64 {
	return time.Now().UnixMilli()
}

func readChunk(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func listStoreEntries(store string) ([]string, error) {
	entries, err := os.ReadDir(store)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, entry := range entries {
		names[i] = entry.Name()
	}
	return names, nil
}
