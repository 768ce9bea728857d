package core

import "appstream-builder/internal/types"

// Session is the per-package build state. It is created when a package
// build starts and dropped when it ends; it is not safe for concurrent use.
type Session struct {
	ids             map[string]struct{}
	accepted        []types.Application
	rejected        []types.Rejection
	hasValidContent bool
}

func NewSession() *Session {
	return &Session{ids: map[string]struct{}{}}
}

func (s *Session) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Accept registers the id and stores a private copy of the record.
func (s *Session) Accept(app types.Application) {
	s.ids[app.ID] = struct{}{}
	s.accepted = append(s.accepted, app.Clone())
	s.hasValidContent = true
}

func (s *Session) Reject(id string, reason types.RejectReason) {
	s.rejected = append(s.rejected, types.Rejection{ID: id, Reason: reason})
}

// Accepted returns copies of the accepted records in acceptance order.
func (s *Session) Accepted() []types.Application {
	result := make([]types.Application, 0, len(s.accepted))
	for _, app := range s.accepted {
		result = append(result, app.Clone())
	}
	return result
}

func (s *Session) AcceptedIDs() []string {
	ids := make([]string, 0, len(s.accepted))
	for _, app := range s.accepted {
		ids = append(ids, app.ID)
	}
	return ids
}

func (s *Session) Rejected() []types.Rejection {
	return append([]types.Rejection(nil), s.rejected...)
}

func (s *Session) HasValidContent() bool {
	return s.hasValidContent
}
