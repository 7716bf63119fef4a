package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"modmerge/internal/diag"
	"modmerge/internal/modfile"
)

// Current schema version - increment when cachePayload format changes
const cacheSchemaVersion uint16 = 2

// Cache stores parsed definitions on disk keyed by the mod content digest,
// so unchanged mods skip reparsing across runs.
// Thread-safe for concurrent access.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

type cacheRef struct {
	Type uint8
	ID   int32
	Line uint32
}

type cacheBlock struct {
	Start uint32
	End   uint32
}

// cacheWarn keeps the parse-time warnings alive across warm runs; without
// them a cache hit would silently drop format quirks the user saw once.
type cacheWarn struct {
	Kind    uint8
	Message string
}

type cachePayload struct {
	Schema      uint16
	Name        string
	DisplayName string
	// LineCount guards against digest collisions and truncated entries.
	LineCount uint32
	Refs      []cacheRef
	Blocks    []cacheBlock
	Warns     []cacheWarn
}

// OpenCache initializes the cache at the standard XDG location.
func OpenCache(app string) (*Cache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

// OpenCacheAt places the cache in an explicit directory (tests, --cache-dir).
func OpenCacheAt(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) pathFor(key [sha256.Size]byte) string {
	// Подкаталог "defs" — для удобства очистки.
	return filepath.Join(c.dir, "defs", hex.EncodeToString(key[:])+".mp")
}

// Put serializes def and its parse warnings under the digest of file's
// content. The write is atomic (tmp + rename), so readers never see a torn
// entry.
func (c *Cache) Put(file *modfile.ModFile, def *modfile.ModDefinition, warns []diag.Warning) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	lineCount, err := safecast.Conv[uint32](len(def.Lines))
	if err != nil {
		return err
	}
	payload := &cachePayload{
		Schema:      cacheSchemaVersion,
		Name:        def.Name,
		DisplayName: def.DisplayName,
		LineCount:   lineCount,
	}
	payload.Refs = make([]cacheRef, len(def.Refs))
	for i, r := range def.Refs {
		payload.Refs[i] = cacheRef{Type: uint8(r.Type), ID: r.ID, Line: r.Line}
	}
	payload.Blocks = make([]cacheBlock, len(def.Blocks))
	for i, b := range def.Blocks {
		payload.Blocks[i] = cacheBlock{Start: b.Start, End: b.End}
	}
	payload.Warns = make([]cacheWarn, len(warns))
	for i, w := range warns {
		payload.Warns[i] = cacheWarn{Kind: uint8(w.Kind), Message: w.Message}
	}

	p := c.pathFor(sha256.Sum256(file.Content))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(f.Name()) }()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get restores the definition and its parse warnings for file when a valid
// entry exists. Lines are rebuilt from the (already loaded) content, so the
// cache stores only the structured view.
func (c *Cache) Get(file *modfile.ModFile) (*modfile.ModDefinition, []diag.Warning, bool, error) {
	if c == nil {
		return nil, nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(sha256.Sum256(file.Content)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil, false, nil
		}
		return nil, nil, false, err
	}
	defer func() { _ = f.Close() }()

	var payload cachePayload
	if err := msgpack.NewDecoder(f).Decode(&payload); err != nil {
		return nil, nil, false, err
	}
	if payload.Schema != cacheSchemaVersion || payload.Name != file.Name {
		return nil, nil, false, nil
	}

	lines := SplitLines(file.Content)
	lineCount, err := safecast.Conv[uint32](len(lines))
	if err != nil || payload.LineCount != lineCount {
		return nil, nil, false, nil
	}

	def := &modfile.ModDefinition{
		Name:        payload.Name,
		DisplayName: payload.DisplayName,
		Lines:       lines,
	}
	def.Refs = make([]modfile.EntityRef, len(payload.Refs))
	for i, r := range payload.Refs {
		def.Refs[i] = modfile.EntityRef{Type: modfile.EntityType(r.Type), ID: r.ID, Line: r.Line}
	}
	def.Blocks = make([]modfile.BlockRegion, len(payload.Blocks))
	for i, b := range payload.Blocks {
		def.Blocks[i] = modfile.BlockRegion{Start: b.Start, End: b.End}
	}
	warns := make([]diag.Warning, len(payload.Warns))
	for i, w := range payload.Warns {
		warns[i] = diag.Warning{Kind: diag.WarnKind(w.Kind), Mod: file.Name, Message: w.Message}
	}
	return def, warns, true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *Cache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "defs"))
}
