package profile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/chrisedwards/slack-cli/internal/clierr"
)

const (
	// DefaultProfileName is used when no profile has been selected.
	DefaultProfileName = "default"

	// ConfigFileName is the profile store file inside the config directory.
	ConfigFileName = "config.json"

	fileMode = 0o600
	dirMode  = 0o700
)

// Profile is a single named token. Token is plaintext in memory and an
// envelope on disk.
type Profile struct {
	Token     string `json:"token"`
	UpdatedAt string `json:"updatedAt"`
}

// File is the on-disk layout of the profile store.
type File struct {
	Profiles       map[string]Profile `json:"profiles"`
	CurrentProfile string             `json:"currentProfile"`
}

// legacyFile is the single-profile layout written by older versions.
type legacyFile struct {
	Token     string          `json:"token"`
	UpdatedAt string          `json:"updatedAt"`
	Profiles  json.RawMessage `json:"profiles"`
}

// Store reads and writes the profile file.
//
// There is no file locking: concurrent invocations against the same file
// are last-writer-wins. This is a single-user local tool.
type Store struct {
	path   string
	cipher *Cipher
	now    func() time.Time
	logger *zap.Logger
}

// NewStore creates a Store backed by dir/config.json.
func NewStore(dir string, cipher *Cipher, logger *zap.Logger) *Store {
	if cipher == nil {
		cipher = NewCipher()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		path:   filepath.Join(dir, ConfigFileName),
		cipher: cipher,
		now:    time.Now,
		logger: logger,
	}
}

// DefaultDir returns ~/.slack-cli.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".slack-cli"
	}
	return filepath.Join(home, ".slack-cli")
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Read loads the store. A missing file yields an empty store. A legacy
// single-token file is upgraded to a "default" profile and persisted
// before returning.
func (s *Store) Read() (*File, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return emptyFile(), nil
	}
	if err != nil {
		return nil, &clierr.ConfigurationError{Msg: fmt.Sprintf("cannot read %s: %v", s.path, err), Err: err}
	}

	var legacy legacyFile
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, &clierr.ConfigurationError{Msg: "Invalid configuration file", Err: err}
	}
	if legacy.Token != "" && (len(legacy.Profiles) == 0 || string(legacy.Profiles) == "null") {
		return s.migrate(legacy)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &clierr.ConfigurationError{Msg: "Invalid configuration file", Err: err}
	}
	if f.Profiles == nil {
		f.Profiles = make(map[string]Profile)
	}
	return &f, nil
}

func (s *Store) migrate(legacy legacyFile) (*File, error) {
	token := legacy.Token
	if !IsEnvelope(token) {
		enc, err := s.cipher.Encrypt(token)
		if err != nil {
			return nil, err
		}
		token = enc
	}
	updatedAt := legacy.UpdatedAt
	if updatedAt == "" {
		updatedAt = s.timestamp()
	}

	f := &File{
		Profiles:       map[string]Profile{DefaultProfileName: {Token: token, UpdatedAt: updatedAt}},
		CurrentProfile: DefaultProfileName,
	}
	if err := s.Write(f); err != nil {
		return nil, err
	}
	s.logger.Info("migrated legacy config to profile store", zap.String("path", s.path))
	return f, nil
}

// Write persists f with owner-only permissions.
func (s *Store) Write(f *File) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return &clierr.ConfigurationError{Msg: fmt.Sprintf("cannot create %s: %v", filepath.Dir(s.path), err), Err: err}
	}
	if f.Profiles == nil {
		f.Profiles = make(map[string]Profile)
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.path, data, fileMode); err != nil {
		return &clierr.ConfigurationError{Msg: fmt.Sprintf("cannot write %s: %v", s.path, err), Err: err}
	}
	return os.Chmod(s.path, fileMode)
}

// GetProfile returns the named profile with its token decrypted. Tokens
// that are not envelopes are returned as stored.
func (s *Store) GetProfile(name string) (Profile, error) {
	f, err := s.Read()
	if err != nil {
		return Profile{}, err
	}
	p, ok := f.Profiles[name]
	if !ok {
		return Profile{}, notFound(name)
	}
	if IsEnvelope(p.Token) {
		token, err := s.cipher.Decrypt(p.Token)
		if err != nil {
			return Profile{}, err
		}
		p.Token = token
	}
	return p, nil
}

// SetProfile stores p under name, encrypting its token. The first profile
// written to a store becomes current.
func (s *Store) SetProfile(name string, p Profile) error {
	f, err := s.Read()
	if err != nil {
		return err
	}
	enc, err := s.cipher.Encrypt(p.Token)
	if err != nil {
		return err
	}
	p.Token = enc
	if p.UpdatedAt == "" {
		p.UpdatedAt = s.timestamp()
	}
	f.Profiles[name] = p
	if _, ok := f.Profiles[f.CurrentProfile]; !ok {
		f.CurrentProfile = name
	}
	return s.Write(f)
}

// DeleteProfile removes name. Removing the current profile promotes the
// first remaining profile in name order; removing the last profile
// deletes the backing file.
func (s *Store) DeleteProfile(name string) error {
	f, err := s.Read()
	if err != nil {
		return err
	}
	if _, ok := f.Profiles[name]; !ok {
		return notFound(name)
	}
	delete(f.Profiles, name)

	if len(f.Profiles) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return &clierr.ConfigurationError{Msg: fmt.Sprintf("cannot remove %s: %v", s.path, err), Err: err}
		}
		return nil
	}
	if _, ok := f.Profiles[f.CurrentProfile]; !ok {
		f.CurrentProfile = sortedNames(f.Profiles)[0]
		s.logger.Debug("promoted profile", zap.String("profile", f.CurrentProfile))
	}
	return s.Write(f)
}

// ListProfileNames returns profile names in sorted order.
func (s *Store) ListProfileNames() ([]string, error) {
	f, err := s.Read()
	if err != nil {
		return nil, err
	}
	return sortedNames(f.Profiles), nil
}

// GetCurrent returns the current profile name, or DefaultProfileName when
// the store is empty.
func (s *Store) GetCurrent() (string, error) {
	f, err := s.Read()
	if err != nil {
		return "", err
	}
	if f.CurrentProfile == "" {
		return DefaultProfileName, nil
	}
	return f.CurrentProfile, nil
}

// SetCurrent selects an existing profile.
func (s *Store) SetCurrent(name string) error {
	f, err := s.Read()
	if err != nil {
		return err
	}
	if _, ok := f.Profiles[name]; !ok {
		return notFound(name)
	}
	f.CurrentProfile = name
	return s.Write(f)
}

// SetToken saves token under name (or the current profile when name is
// empty). A profile named "default" always becomes current.
func (s *Store) SetToken(token, name string) (string, error) {
	if name == "" {
		current, err := s.GetCurrent()
		if err != nil {
			return "", err
		}
		name = current
	}
	if err := s.SetProfile(name, Profile{Token: token, UpdatedAt: s.timestamp()}); err != nil {
		return "", err
	}

	if name == DefaultProfileName {
		if err := s.SetCurrent(name); err != nil {
			return "", err
		}
	}
	return name, nil
}

// Token returns the plaintext token of name (or the current profile).
func (s *Store) Token(name string) (string, error) {
	if name == "" {
		current, err := s.GetCurrent()
		if err != nil {
			return "", err
		}
		name = current
	}
	p, err := s.GetProfile(name)
	if errors.Is(err, clierr.ErrProfileNotFound) {
		return "", clierr.NoConfig(name)
	}
	if err != nil {
		return "", err
	}
	return p.Token, nil
}

// Clear deletes name (or the current profile). A missing profile is not
// an error.
func (s *Store) Clear(name string) (string, error) {
	if name == "" {
		current, err := s.GetCurrent()
		if err != nil {
			return "", err
		}
		name = current
	}
	err := s.DeleteProfile(name)
	if errors.Is(err, clierr.ErrProfileNotFound) {
		return name, nil
	}
	return name, err
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func emptyFile() *File {
	return &File{Profiles: make(map[string]Profile)}
}

func sortedNames(m map[string]Profile) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func notFound(name string) error {
	return &clierr.ConfigurationError{
		Msg: fmt.Sprintf(`Profile "%s" not found`, name),
		Err: clierr.ErrProfileNotFound,
	}
}
