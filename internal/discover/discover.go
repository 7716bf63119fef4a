// Package discover finds and loads mod script files from configured
// locations. The core merge engine only ever sees fully-loaded ModFile
// values; all I/O stays here.
package discover

import (
	"context"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"modmerge/internal/diag"
	"modmerge/internal/modfile"
)

// Ext is the mod script file extension.
const Ext = ".dm"

// Finder walks afs-addressable locations (local directories, archives,
// anything the abstract file service can list) for mod files.
type Finder struct {
	fs afs.Service
}

func New() *Finder {
	return &Finder{fs: afs.New()}
}

// Find collects every mod file under the given directories, in a fixed
// lexical order. When two files claim the same mod name the first one wins
// and the duplicate is reported as a warning.
func (f *Finder) Find(ctx context.Context, dirs []string, bag *diag.Bag) ([]*modfile.ModFile, error) {
	var urls []string
	for _, dir := range dirs {
		visitor := func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
			if info.IsDir() {
				return true, nil
			}
			if strings.HasSuffix(info.Name(), Ext) {
				urls = append(urls, url.Join(url.Join(baseURL, parent), info.Name()))
			}
			return true, nil
		}
		if err := f.fs.Walk(ctx, dir, visitor); err != nil {
			return nil, err
		}
	}
	sort.Strings(urls)

	files := make([]*modfile.ModFile, 0, len(urls))
	seen := make(map[string]string, len(urls)) // name → winning URL
	for _, URL := range urls {
		name := modName(URL)
		if prev, dup := seen[name]; dup {
			bag.Warnf(diag.WarnDuplicateMod, name, "also found at %s, keeping %s", URL, prev)
			continue
		}
		content, err := f.fs.DownloadWithURL(ctx, URL)
		if err != nil {
			return nil, err
		}
		seen[name] = URL
		files = append(files, &modfile.ModFile{Name: name, Path: URL, Content: content})
	}
	return files, nil
}

// modName derives the mod's map key from its file name.
func modName(URL string) string {
	base := URL
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	return strings.TrimSuffix(base, Ext)
}
