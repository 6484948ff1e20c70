package config

import (
	_ "embed"
	"errors"
	"path/filepath"
	"sync"

	"github.com/klauern/railguard/internal/constants"
)

//go:embed defaults.json
var embeddedDefaults []byte

// DefaultGroups parses the rule groups shipped with the binary.
func DefaultGroups() ([]RuleGroup, error) {
	return ParseRules(embeddedDefaults, FormatJSON)
}

// Source identifies a configuration layer.
type Source string

// Configuration layers, lowest precedence first.
const (
	SourceDefaults Source = "defaults"
	SourceGlobal   Source = "global"
	SourceProject  Source = "project"
)

// Layer records a source that contributed to a resolved configuration.
type Layer struct {
	Source Source `json:"source"`
	Path   string `json:"path,omitempty"`
}

// ResolvedConfig is the ordered rule-group list for one directory. Callers
// must treat Groups as read-only; it is shared with the Store cache.
type ResolvedConfig struct {
	Groups []RuleGroup `json:"groups"`
	Layers []Layer     `json:"layers"`
}

// WarningFunc receives sources that were skipped because they could not be
// read or parsed.
type WarningFunc func(source Source, path string, err error)

// StoreOptions configures a Store.
type StoreOptions struct {
	// GlobalPath is the settings document; empty uses the XDG location.
	GlobalPath string
	// Defaults replaces the embedded defaults when non-nil.
	Defaults []RuleGroup
	// NoDefaults disables the defaults layer entirely.
	NoDefaults bool
	OnWarning  WarningFunc
}

type globalState struct {
	groups []RuleGroup
	ok     bool
}

// Store loads and layers rule sources. Defaults are parsed once; global
// rules and per-directory resolutions are cached until Reload.
type Store struct {
	globalPath string
	noDefaults bool
	warn       WarningFunc

	defaultsOnce sync.Once
	defaults     []RuleGroup
	override     []RuleGroup

	mu       sync.RWMutex
	global   *globalState
	projects map[string]ResolvedConfig
}

// NewStore creates a Store.
func NewStore(opts StoreOptions) *Store {
	path := opts.GlobalPath
	if path == "" {
		path = DefaultGlobalSettingsPath()
	}
	warn := opts.OnWarning
	if warn == nil {
		warn = func(Source, string, error) {}
	}
	return &Store{
		globalPath: path,
		noDefaults: opts.NoDefaults,
		warn:       warn,
		override:   opts.Defaults,
		projects:   make(map[string]ResolvedConfig),
	}
}

// GlobalPath returns the settings document the Store reads and writes.
func (s *Store) GlobalPath() string {
	return s.globalPath
}

// Defaults returns the defaults layer.
func (s *Store) Defaults() []RuleGroup {
	s.defaultsOnce.Do(func() {
		switch {
		case s.noDefaults:
			s.defaults = []RuleGroup{}
		case s.override != nil:
			s.defaults = cloneGroups(s.override)
		default:
			groups, err := DefaultGroups()
			if err != nil {
				s.warn(SourceDefaults, constants.DefaultsFileName, err)
				groups = []RuleGroup{}
			}
			s.defaults = groups
		}
	})
	return s.defaults
}

func (s *Store) loadGlobal() *globalState {
	s.mu.RLock()
	g := s.global
	s.mu.RUnlock()
	if g != nil {
		return g
	}

	state := &globalState{}
	groups, err := LoadGlobalRules(s.globalPath)
	switch {
	case err == nil:
		state.groups, state.ok = groups, true
	case !errors.Is(err, ErrNoGlobal):
		s.warn(SourceGlobal, s.globalPath, err)
	}

	s.mu.Lock()
	if s.global == nil {
		s.global = state
	}
	g = s.global
	s.mu.Unlock()
	return g
}

// Load resolves the configuration without a project layer.
func (s *Store) Load() ResolvedConfig {
	if g := s.loadGlobal(); g.ok {
		return ResolvedConfig{Groups: g.groups, Layers: []Layer{{Source: SourceGlobal, Path: s.globalPath}}}
	}
	return ResolvedConfig{Groups: s.Defaults(), Layers: s.defaultsLayer()}
}

// GetConfig resolves the configuration for cwd. A global rules key replaces
// everything; otherwise the project file in cwd is merged into the defaults
// by group name.
func (s *Store) GetConfig(cwd string) ResolvedConfig {
	if g := s.loadGlobal(); g.ok {
		return ResolvedConfig{Groups: g.groups, Layers: []Layer{{Source: SourceGlobal, Path: s.globalPath}}}
	}

	key := cwd
	if abs, err := filepath.Abs(cwd); err == nil {
		key = abs
	}

	s.mu.RLock()
	cached, ok := s.projects[key]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	resolved := ResolvedConfig{Groups: s.Defaults(), Layers: s.defaultsLayer()}
	if path, found := FindProjectRules(key); found {
		groups, err := ParseRuleFile(path)
		if err != nil {
			s.warn(SourceProject, path, err)
		} else {
			resolved.Groups = MergeGroups(resolved.Groups, groups)
			resolved.Layers = append(resolved.Layers, Layer{Source: SourceProject, Path: path})
		}
	}

	s.mu.Lock()
	if existing, ok := s.projects[key]; ok {
		resolved = existing
	} else {
		s.projects[key] = resolved
	}
	s.mu.Unlock()
	return resolved
}

func (s *Store) defaultsLayer() []Layer {
	if s.noDefaults {
		return nil
	}
	return []Layer{{Source: SourceDefaults, Path: constants.DefaultsFileName}}
}

// Reload drops the cached global rules and every project resolution.
func (s *Store) Reload() {
	s.mu.Lock()
	s.global = nil
	s.projects = make(map[string]ResolvedConfig)
	s.mu.Unlock()
}

// SaveGlobal stores groups under the rules key of the settings document,
// keeping every other key, then reloads.
func (s *Store) SaveGlobal(groups []RuleGroup) error {
	settings, err := LoadGlobalSettings(s.globalPath)
	if err != nil {
		return err
	}
	settings.SetRules(groups)
	if err := SaveGlobalSettings(s.globalPath, settings); err != nil {
		return err
	}
	s.Reload()
	return nil
}
