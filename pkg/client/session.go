package client

import (
	"sync"

	"github.com/vfg2006/business-manager-api/internal/domain"
)

const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	DefaultLocale = "pt-BR"
)

// Session guarda o estado do cliente entre requisições: usuário, negócio ativo e preferências.
// Init no início da aplicação, Reset no logout.
type Session struct {
	mu         sync.RWMutex
	user       *domain.User
	businessID *int
	theme      string
	locale     string
}

func NewSession() *Session {
	s := &Session{}
	s.Init()
	return s
}

// Init volta tudo ao estado inicial, inclusive as preferências
func (s *Session) Init() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.businessID = nil
	s.theme = ThemeSystem
	s.locale = DefaultLocale
}

// Reset encerra a sessão mantendo tema e idioma
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.user = nil
	s.businessID = nil
}

func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

func (s *Session) SetUser(user *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

func (s *Session) ClearUser() {
	s.SetUser(nil)
}

func (s *Session) BusinessID() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.businessID == nil {
		return 0, false
	}
	return *s.businessID, true
}

func (s *Session) SetBusinessID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businessID = &id
}

func (s *Session) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// SetTheme ignora valores desconhecidos
func (s *Session) SetTheme(theme string) {
	if theme != ThemeLight && theme != ThemeDark && theme != ThemeSystem {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
}

func (s *Session) Locale() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.locale
}

func (s *Session) SetLocale(locale string) {
	if locale == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.locale = locale
}
