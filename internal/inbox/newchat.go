package inbox

import (
	"golang.org/x/sync/errgroup"

	"github.com/LostNSeeker/AlumnConnect/internal/domain"
)

// ShowingNewChat reports whether the candidate search panel is open.
func (m *Model) ShowingNewChat() bool { return m.showNewChat }

// ToggleNewChat opens or closes the candidate search panel.
func (m *Model) ToggleNewChat() {
	m.showNewChat = !m.showNewChat
	if !m.showNewChat {
		m.searchTerm = ""
	}
}

// SearchTerm returns the candidate filter text.
func (m *Model) SearchTerm() string { return m.searchTerm }

// SetSearchTerm updates the candidate filter as the user types.
func (m *Model) SetSearchTerm(term string) { m.searchTerm = term }

// Candidates returns the filtered candidate list for the panel: the
// case-insensitive name matches of the search term, never including the
// current user.
func (m *Model) Candidates() []domain.User {
	return FilterCandidates(m.candidates, m.user.ID, m.searchTerm)
}

// StartConversation opens a conversation with a candidate. On success the
// task re-fetches both lists so the new conversation's id and position are
// authoritative, and the result event closes the panel and selects it. On
// failure everything stays as it was.
func (m *Model) StartConversation(otherUserID int64) {
	if !m.authenticated || m.starting {
		return
	}
	m.starting = true

	go func() {
		conv, err := m.fetcher.StartConversation(m.ctx, otherUserID)
		if err != nil {
			m.post(conversationStarted{err: err})
			return
		}

		ev := conversationStarted{conv: conv}
		var g errgroup.Group
		g.Go(func() error {
			convs, err := m.fetcher.ListConversations(m.ctx)
			if err == nil {
				ev.convs = convs
			} else {
				m.log.WithError(err).Warn("refreshing conversations failed")
			}
			return nil
		})
		g.Go(func() error {
			users, err := m.fetcher.ListAvailableUsers(m.ctx)
			if err == nil {
				ev.users = users
			} else {
				m.log.WithError(err).Warn("refreshing available users failed")
			}
			return nil
		})
		_ = g.Wait()
		m.post(ev)
	}()
}
