package sqlsession

import "sync"

// sessionHolder wraps one live session bound to an ambient transaction,
// together with its reference count and synchronization flags. It is
// mutated only by the coordinator (requested/released) and by the
// transaction synchronization (reset at completion).
//
// The mutex exists because AfterCompletion may arrive from a different
// execution context than the one that created the holder.
type sessionHolder struct {
	mu         sync.Mutex
	session    Session
	mode       ExecutorMode
	translator ErrorTranslator
	refs       int
	synced     bool
}

func newSessionHolder(session Session, mode ExecutorMode, translator ErrorTranslator) *sessionHolder {
	return &sessionHolder{
		session:    session,
		mode:       mode,
		translator: translator,
	}
}

// requested records one more un-released acquisition of the session.
func (h *sessionHolder) requested() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refs++
}

// released records the release of one acquisition. Reaching zero does not
// close the session: the session may be re-acquired before the transaction
// completes, so closing is deferred to the completion callbacks.
func (h *sessionHolder) released() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.refs > 0 {
		h.refs--
	}
}

// open reports whether any acquisition is still outstanding.
func (h *sessionHolder) open() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refs > 0
}

func (h *sessionHolder) markSynchronized() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.synced = true
}

func (h *sessionHolder) synchronized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.synced
}

func (h *sessionHolder) executorMode() ExecutorMode {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mode
}

// reset clears the holder at transaction completion.
func (h *sessionHolder) reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refs = 0
	h.synced = false
}
