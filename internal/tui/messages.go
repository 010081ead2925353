package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Adda-Baaj/newsboard/internal/store"
)

// startedMsg is sent once the initial fetch has finished.
type startedMsg struct{ err error }

// refreshedMsg is sent when an article refresh completes.
type refreshedMsg struct {
	source  string
	applied bool
}

// stateChangedMsg carries the store state after a transition.
type stateChangedMsg struct{ state store.State }

// changeFeed turns store notifications into bubbletea messages. The store
// listener only signals; the state is read when the message is built, so
// bursts of changes collapse into one message with the newest state.
type changeFeed struct {
	store       *store.Store
	notify      chan struct{}
	done        chan struct{}
	once        sync.Once
	unsubscribe func()
}

func subscribe(s *store.Store) *changeFeed {
	f := &changeFeed{
		store:  s,
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	f.unsubscribe = s.Subscribe(func(store.Change) {
		select {
		case f.notify <- struct{}{}:
		default:
		}
	})
	return f
}

// wait blocks until the store changes. It yields nil once the feed is closed.
func (f *changeFeed) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-f.done:
			return nil
		default:
		}
		select {
		case <-f.notify:
			return stateChangedMsg{state: f.store.State()}
		case <-f.done:
			return nil
		}
	}
}

func (f *changeFeed) close() {
	f.once.Do(func() {
		f.unsubscribe()
		close(f.done)
	})
}
