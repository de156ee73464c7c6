package app

import (
	"crypto/subtle"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/corey/califica/internal/apperr"
)

// AdminSessionTTL bounds how long an unlocked admin gate stays open.
const AdminSessionTTL = 8 * time.Hour

// Theme values.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

func normalizeTheme(s string) string {
	if s == ThemeLight {
		return ThemeLight
	}
	return ThemeDark
}

// Theme returns the UI theme preference.
func (a *App) Theme() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.theme
}

// SetTheme stores the theme. "toggle" flips the current one.
func (a *App) SetTheme(theme string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	theme = strings.ToLower(strings.TrimSpace(theme))
	switch theme {
	case ThemeDark, ThemeLight:
	case "toggle":
		if a.theme == ThemeDark {
			theme = ThemeLight
		} else {
			theme = ThemeDark
		}
	default:
		return "", apperr.NewValidationError("theme must be dark, light or toggle")
	}
	if err := a.Store.SaveTheme(theme); err != nil {
		return "", persistErr("save theme", err)
	}
	a.theme = theme
	return theme, nil
}

// VerifyPin checks pin against the configured admin PIN.
func (a *App) VerifyPin(pin string) error {
	if subtle.ConstantTimeCompare([]byte(pin), []byte(a.adminPin)) != 1 {
		return apperr.NewUnauthorizedError("wrong admin PIN")
	}
	return nil
}

// Unlock opens the admin gate for subsequent commands.
func (a *App) Unlock(pin string) error {
	if err := a.VerifyPin(pin); err != nil {
		log.Warn().Msg("admin unlock rejected")
		return err
	}
	if err := os.WriteFile(a.Paths.AdminFlag, []byte(a.now().UTC().Format(time.RFC3339)), 0600); err != nil {
		return apperr.NewInternalError("write admin flag", err)
	}
	log.Info().Msg("admin unlocked")
	return nil
}

// Lock closes the admin gate. Idempotent.
func (a *App) Lock() error {
	if err := os.Remove(a.Paths.AdminFlag); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperr.NewInternalError("remove admin flag", err)
	}
	return nil
}

// IsAdmin reports whether the admin gate is open: the session flag exists
// and was written less than AdminSessionTTL ago. An expired or unreadable
// flag is removed.
func (a *App) IsAdmin() bool {
	data, err := os.ReadFile(a.Paths.AdminFlag)
	if err != nil {
		return false
	}
	since, err := time.Parse(time.RFC3339, strings.TrimSpace(string(data)))
	if err != nil || a.now().Sub(since) >= AdminSessionTTL {
		os.Remove(a.Paths.AdminFlag)
		log.Info().Msg("admin session expired")
		return false
	}
	return true
}

// RequireAdmin fails with an unauthorized error unless the gate is open.
func (a *App) RequireAdmin() error {
	if !a.IsAdmin() {
		return apperr.NewUnauthorizedError("admin mode required (califica admin login)")
	}
	return nil
}
