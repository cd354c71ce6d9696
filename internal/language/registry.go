package language

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("linelex.language")

// Registry maps language ids, aliases and file extensions to profiles.
type Registry struct {
	mu         sync.RWMutex
	languages  map[string]*Language
	aliases    map[string]string
	extensions map[string]string
	fallback   string
}

// NewRegistry returns a registry holding the built-in profiles.
func NewRegistry() *Registry {
	r := &Registry{
		languages:  make(map[string]*Language),
		aliases:    make(map[string]string),
		extensions: make(map[string]string),
		fallback:   DefaultName,
	}
	for _, l := range builtins() {
		_ = r.Register(l)
	}
	return r
}

// Register adds l, replacing any language with the same name. The registry
// keeps its own copy.
func (r *Registry) Register(l *Language) error {
	if l == nil || strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("register language: missing name")
	}
	l = l.Clone()
	id := normalize(l.Name)

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.languages[id]; ok {
		r.forget(old)
	}
	r.languages[id] = l
	for _, a := range l.Aliases {
		r.aliases[normalize(a)] = id
	}
	for _, ext := range l.Extensions {
		r.extensions[normalizeExt(ext)] = id
	}
	return nil
}

func (r *Registry) forget(l *Language) {
	id := normalize(l.Name)
	for _, a := range l.Aliases {
		if r.aliases[normalize(a)] == id {
			delete(r.aliases, normalize(a))
		}
	}
	for _, ext := range l.Extensions {
		if r.extensions[normalizeExt(ext)] == id {
			delete(r.extensions, normalizeExt(ext))
		}
	}
}

// SetDefault selects the profile ForLanguage falls back to.
func (r *Registry) SetDefault(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l := r.lookup(id)
	if l == nil {
		return fmt.Errorf("set default language %q: not registered", id)
	}
	r.fallback = normalize(l.Name)
	return nil
}

// Default returns the fallback profile.
func (r *Registry) Default() *Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.languages[r.fallback]
}

// Lookup finds a language by name or alias, ignoring case.
func (r *Registry) Lookup(id string) (*Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l := r.lookup(id)
	return l, l != nil
}

func (r *Registry) lookup(id string) *Language {
	id = normalize(id)
	if l, ok := r.languages[id]; ok {
		return l
	}
	if name, ok := r.aliases[id]; ok {
		return r.languages[name]
	}
	return nil
}

// ForLanguage resolves id, falling back to the default profile.
func (r *Registry) ForLanguage(id string) *Language {
	if l, ok := r.Lookup(id); ok {
		return l
	}
	log.Debugf("unknown language %q, using %s", id, r.Default().Name)
	return r.Default()
}

// ForPath picks a language by file extension, falling back to the default
// profile.
func (r *Registry) ForPath(path string) *Language {
	ext := normalizeExt(filepath.Ext(path))
	r.mu.RLock()
	name, ok := r.extensions[ext]
	var l *Language
	if ok {
		l = r.languages[name]
	}
	r.mu.RUnlock()
	if l != nil {
		return l
	}
	log.Debugf("no language for %q, using %s", path, r.Default().Name)
	return r.Default()
}

// Names lists the registered language names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.languages))
	for _, l := range r.languages {
		names = append(names, l.Name)
	}
	sort.Strings(names)
	return names
}

func normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

func normalizeExt(ext string) string {
	ext = normalize(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
