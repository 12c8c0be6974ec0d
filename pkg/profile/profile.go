// Package profile implements the multi-profile configuration registry:
// a single `<trakd_home>/profile` file, one profile per line, guarded
// by the directory lock in pkg/filelock.
package profile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/7ched7/trakd/pkg/filelock"
	"github.com/7ched7/trakd/pkg/trakdhome"
)

// ValidateUsername checks a profile username: 3-16 characters from
// [A-Za-z0-9_-].
func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 16 {
		return fmt.Errorf("profile: username must be 3-16 characters, got %d", len(username))
	}
	for _, r := range username {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return fmt.Errorf("profile: username may only contain letters, digits, '-' and '_'")
		}
	}
	return nil
}

// Profile is a named (ip, port, limit) configuration plus its selection
// bit.
type Profile struct {
	Username string
	IP       string
	Port     int
	Limit    int
	Selected bool
}

// Store is the on-disk profile registry rooted at a trakd_home
// directory.
type Store struct {
	home string
}

// NewStore returns a Store rooted at home (the trakd_home directory).
func NewStore(home string) *Store {
	return &Store{home: home}
}

// DefaultStore returns a Store rooted at the platform trakd_home.
func DefaultStore() (*Store, error) {
	home, err := trakdhome.Root()
	if err != nil {
		return nil, err
	}
	return NewStore(home), nil
}

func (s *Store) profilePath() string {
	return filepath.Join(s.home, trakdhome.ProfileFileName)
}

func (s *Store) logDir(username string) string {
	return filepath.Join(s.home, trakdhome.LogsDirName, username)
}

func (s *Store) lock() (*filelock.Lock, error) {
	return filelock.Acquire(s.home, trakdhome.LockFileName)
}

// GetProfiles returns every profile in append order. A missing or
// unreadable file yields an empty list, not an error.
func (s *Store) GetProfiles() []Profile {
	profiles, _ := s.readLocked()
	return profiles
}

// GetCurrent returns the single selected profile with Limit clamped to
// [1,24]. If none is selected, it returns the zero Profile and false.
func (s *Store) GetCurrent() (Profile, bool) {
	for _, p := range s.GetProfiles() {
		if p.Selected {
			p.Limit = trakdhome.ClampLimit(p.Limit)
			return p, true
		}
	}
	return Profile{}, false
}

// Create appends a new profile. It returns false without modifying
// anything if a profile with a trimmed-equal username already exists.
func (s *Store) Create(p Profile) (bool, error) {
	lk, err := s.lock()
	if err != nil {
		return false, err
	}
	defer lk.Unlock()

	profiles, err := s.readUnlocked()
	if err != nil {
		return false, err
	}

	want := strings.TrimSpace(p.Username)
	for _, existing := range profiles {
		if strings.TrimSpace(existing.Username) == want {
			return false, nil
		}
	}

	profiles = append(profiles, p)
	if err := s.writeUnlocked(profiles); err != nil {
		return false, err
	}
	if err := os.MkdirAll(s.logDir(p.Username), 0o755); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deletes the named profile and its log directory. It returns
// false if no such profile existed.
func (s *Store) Remove(username string) (bool, error) {
	lk, err := s.lock()
	if err != nil {
		return false, err
	}
	defer lk.Unlock()

	profiles, err := s.readUnlocked()
	if err != nil {
		return false, err
	}

	idx := -1
	for i, p := range profiles {
		if p.Username == username {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	profiles = append(profiles[:idx], profiles[idx+1:]...)
	if err := s.writeUnlocked(profiles); err != nil {
		return false, err
	}
	if err := os.RemoveAll(s.logDir(username)); err != nil {
		return false, err
	}
	return true, nil
}

// Switch sets Selected=1 on username and Selected=0 on every other
// profile. It returns false if username is unknown.
func (s *Store) Switch(username string) (bool, error) {
	lk, err := s.lock()
	if err != nil {
		return false, err
	}
	defer lk.Unlock()

	profiles, err := s.readUnlocked()
	if err != nil {
		return false, err
	}

	found := false
	for i := range profiles {
		if profiles[i].Username == username {
			profiles[i].Selected = true
			found = true
		} else {
			profiles[i].Selected = false
		}
	}
	if !found {
		return false, nil
	}
	return true, s.writeUnlocked(profiles)
}

// Rename renames old's profile row to new and renames its log
// directory accordingly. It returns false if old is absent. It does
// not check new for conflicts; the caller validates that first.
func (s *Store) Rename(old, newName string) (bool, error) {
	lk, err := s.lock()
	if err != nil {
		return false, err
	}
	defer lk.Unlock()

	profiles, err := s.readUnlocked()
	if err != nil {
		return false, err
	}

	idx := -1
	for i, p := range profiles {
		if p.Username == old {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	profiles[idx].Username = newName
	if err := s.writeUnlocked(profiles); err != nil {
		return false, err
	}

	oldDir := s.logDir(old)
	newDir := s.logDir(newName)
	if err := os.MkdirAll(filepath.Dir(newDir), 0o755); err != nil {
		return false, err
	}
	if _, err := os.Stat(oldDir); err == nil {
		if err := os.Rename(oldDir, newDir); err != nil {
			return false, err
		}
	} else {
		if err := os.MkdirAll(newDir, 0o755); err != nil {
			return false, err
		}
	}
	return true, nil
}

// Update overwrites ip/port/limit on username's profile.
func (s *Store) Update(username, ip string, port, limit int) (bool, error) {
	lk, err := s.lock()
	if err != nil {
		return false, err
	}
	defer lk.Unlock()

	profiles, err := s.readUnlocked()
	if err != nil {
		return false, err
	}

	found := false
	for i := range profiles {
		if profiles[i].Username == username {
			profiles[i].IP = ip
			profiles[i].Port = port
			profiles[i].Limit = limit
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}
	return true, s.writeUnlocked(profiles)
}

func (s *Store) readLocked() ([]Profile, error) {
	lk, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer lk.Unlock()
	return s.readUnlocked()
}

func (s *Store) readUnlocked() ([]Profile, error) {
	f, err := os.Open(s.profilePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, nil
	}
	defer f.Close()

	var profiles []Profile
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) != 5 {
			continue
		}
		port, _ := strconv.Atoi(strings.TrimSpace(fields[2]))
		limit, _ := strconv.Atoi(strings.TrimSpace(fields[3]))
		profiles = append(profiles, Profile{
			Username: strings.TrimSpace(fields[0]),
			IP:       strings.TrimSpace(fields[1]),
			Port:     port,
			Limit:    limit,
			Selected: strings.TrimSpace(fields[4]) == "1",
		})
	}
	return profiles, nil
}

func (s *Store) writeUnlocked(profiles []Profile) error {
	if err := os.MkdirAll(s.home, 0o755); err != nil {
		return err
	}
	tmp := s.profilePath() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	for _, p := range profiles {
		selected := "0"
		if p.Selected {
			selected = "1"
		}
		if _, err := fmt.Fprintf(w, "%s|%s|%d|%d|%s\n", p.Username, p.IP, p.Port, p.Limit, selected); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, s.profilePath())
}
