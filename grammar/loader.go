package grammar

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/tliron/commonlog"

	"linelex/internal/language"
)

var log = commonlog.GetLogger("linelex.grammar")

// Extension is the file extension of language definition files.
const Extension = ".lang"

const (
	DefaultExpiration = 30 * time.Minute
	CleanupInterval   = time.Hour
)

type loaded struct {
	modTime time.Time
	langs   []*language.Language
}

// Loader reads definition files into a registry. Parsed files are cached by
// path and reparsed only when their modification time changes.
type Loader struct {
	registry *language.Registry
	cache    *gocache.Cache
}

func NewLoader(registry *language.Registry) *Loader {
	return &Loader{
		registry: registry,
		cache:    gocache.New(DefaultExpiration, CleanupInterval),
	}
}

// Load parses path and registers its languages. Definition errors are
// returned as errors.Diagnostics; warnings are logged.
func (l *Loader) Load(path string) ([]*language.Language, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	if v, ok := l.cache.Get(path); ok {
		if entry, ok := v.(loaded); ok && entry.modTime.Equal(info.ModTime()) {
			log.Debugf("definitions in %s unchanged", path)
			return entry.langs, l.register(entry.langs)
		}
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	langs, diags := Check(path, string(source))
	if diags.HasErrors() {
		return nil, diags
	}
	for _, d := range diags {
		log.Warningf("%s:%s", path, d.Error())
	}

	l.cache.Set(path, loaded{modTime: info.ModTime(), langs: langs}, gocache.DefaultExpiration)
	return langs, l.register(langs)
}

// LoadDir loads every definition file directly inside dir in name order.
// A file that fails does not stop the others; the first error is returned.
func (l *Loader) LoadDir(dir string) ([]*language.Language, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*"+Extension))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", dir, err)
	}
	sort.Strings(paths)

	var (
		all      []*language.Language
		firstErr error
	)
	for _, path := range paths {
		langs, err := l.Load(path)
		if err != nil {
			log.Errorf("skipping %s: %s", path, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		all = append(all, langs...)
	}
	return all, firstErr
}

// Forget drops path from the cache so the next Load reparses it.
func (l *Loader) Forget(path string) {
	l.cache.Delete(path)
}

func (l *Loader) register(langs []*language.Language) error {
	for _, lang := range langs {
		if err := l.registry.Register(lang); err != nil {
			return fmt.Errorf("register %s: %w", lang.Name, err)
		}
	}
	return nil
}
