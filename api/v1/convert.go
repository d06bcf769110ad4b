package v1

import (
	"github.com/tupyy/fleet-agent/internal/models"
)

func (s *Session) FromModel(m models.SessionStatus) {
	s.Index = m.Index
	s.Username = m.Username
	s.ProxyHost = m.ProxyHost
	s.State = SessionState(m.State)
	s.Connectivity = SessionConnectivity(m.Connectivity)
	s.RunId = m.RunID
	s.UpdatedAt = m.UpdatedAt

	if !m.LastLoginAt.IsZero() {
		t := m.LastLoginAt
		s.LastLoginAt = &t
	}
	if !m.LastCheckAt.IsZero() {
		t := m.LastCheckAt
		s.LastCheckAt = &t
	}
	if m.LastError != "" {
		e := m.LastError
		s.LastError = &e
	}
}

func (u *UpdateCheck) FromModel(m models.UpdateResult) {
	u.CheckedAt = m.CheckedAt
	u.InstalledVersion = m.InstalledVersion
	u.LatestVersion = m.LatestVersion
	u.Decision = UpdateCheckDecision(m.Decision)
	u.Installed = m.Installed

	if m.Digest != "" {
		d := m.Digest
		u.Digest = &d
	}
	if m.Error != "" {
		e := m.Error
		u.Error = &e
	}
}
