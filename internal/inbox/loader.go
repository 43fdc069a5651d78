package inbox

import "golang.org/x/sync/errgroup"

// Load issues the conversation-list and candidate-user fetches concurrently.
// Without a session nothing is fetched and the model stays in its
// unauthenticated presentation. A failure of one fetch never blocks the
// other from populating; each settles through its own event.
func (m *Model) Load() {
	if !m.authenticated {
		return
	}
	m.loading = true

	go func() {
		var g errgroup.Group
		g.Go(func() error {
			convs, err := m.fetcher.ListConversations(m.ctx)
			m.post(conversationsLoaded{convs: convs, err: err})
			return nil
		})
		g.Go(func() error {
			users, err := m.fetcher.ListAvailableUsers(m.ctx)
			m.post(candidatesLoaded{users: users, err: err})
			return nil
		})
		_ = g.Wait()
		m.post(loadSettled{})
	}()
}
