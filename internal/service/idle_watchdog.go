package service

import (
	"sync"
	"time"
)

// IdleWatchdog dispara un cierre de sesión tras un período sin
// interacciones. Touch reinicia el temporizador; Stop lo libera y
// garantiza que el callback no corra después.
type IdleWatchdog struct {
	mu      sync.Mutex
	timeout time.Duration
	timer   *time.Timer
	onIdle  func()
	stopped bool
}

// NewIdleWatchdog arranca el temporizador de inmediato.
func NewIdleWatchdog(timeout time.Duration, onIdle func()) *IdleWatchdog {
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	w := &IdleWatchdog{
		timeout: timeout,
		onIdle:  onIdle,
	}
	w.timer = time.AfterFunc(timeout, w.fire)
	return w
}

func (w *IdleWatchdog) fire() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	onIdle := w.onIdle
	w.mu.Unlock()
	if onIdle != nil {
		onIdle()
	}
}

// Touch registra una interacción y reinicia la ventana.
func (w *IdleWatchdog) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.timer.Reset(w.timeout)
}

// Stop cancela el temporizador; es seguro llamarlo más de una vez.
func (w *IdleWatchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true
	w.timer.Stop()
}

// SessionWatchdogs mantiene un watchdog por sesión activa.
// Start sobre una sesión existente cancela el watchdog anterior, así
// no quedan temporizadores colgando entre vidas de sesión.
type SessionWatchdogs struct {
	mu      sync.Mutex
	timeout time.Duration
	onIdle  func(userID string)
	items   map[string]*IdleWatchdog
}

func NewSessionWatchdogs(timeout time.Duration, onIdle func(userID string)) *SessionWatchdogs {
	return &SessionWatchdogs{
		timeout: timeout,
		onIdle:  onIdle,
		items:   make(map[string]*IdleWatchdog),
	}
}

// Start arranca (o reinicia) el watchdog de la sesión del usuario.
func (s *SessionWatchdogs) Start(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.items[userID]; ok {
		old.Stop()
	}
	s.items[userID] = NewIdleWatchdog(s.timeout, func() {
		s.remove(userID)
		if s.onIdle != nil {
			s.onIdle(userID)
		}
	})
}

// Touch registra una interacción calificante de la sesión.
func (s *SessionWatchdogs) Touch(userID string) {
	s.mu.Lock()
	w, ok := s.items[userID]
	s.mu.Unlock()
	if ok {
		w.Touch()
	}
}

// Stop cancela y libera el watchdog de la sesión.
func (s *SessionWatchdogs) Stop(userID string) {
	s.mu.Lock()
	w, ok := s.items[userID]
	delete(s.items, userID)
	s.mu.Unlock()
	if ok {
		w.Stop()
	}
}

func (s *SessionWatchdogs) remove(userID string) {
	s.mu.Lock()
	delete(s.items, userID)
	s.mu.Unlock()
}
