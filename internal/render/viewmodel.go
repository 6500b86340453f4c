package render

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/valoruf/valoruf/internal/series"
	"github.com/valoruf/valoruf/pkg/ufapi"
)

// State enumerates the mutually exclusive visual states of the view.
type State int

const (
	// StateIdle is the zero value, before the first invocation.
	StateIdle State = iota
	StateLoading
	StateContent
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateContent:
		return "content"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ViewModel owns the shared view state written by overlapping query
// invocations. Begin hands each invocation a monotonic token; Complete and
// Fail apply only when their token is the latest issued, so the freshest
// invocation wins regardless of the order responses arrive in. A failed
// invocation keeps the previously rendered rows in memory but hidden; they
// reappear only when a later invocation replaces them wholesale.
type ViewModel struct {
	mu        sync.Mutex
	presenter *Presenter

	seq     uint64
	state   State
	rows    []series.Record
	message string
}

// NewViewModel creates a view model rendering through p.
func NewViewModel(p *Presenter) *ViewModel {
	return &ViewModel{presenter: p}
}

// Begin registers a new invocation and moves the view to Loading. The
// returned token must accompany the invocation's Complete or Fail call.
func (vm *ViewModel) Begin() uint64 {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.seq++
	vm.state = StateLoading
	return vm.seq
}

// Complete replaces the table wholesale and moves the view to Content. It
// reports false, changing nothing, when token is not the latest issued.
func (vm *ViewModel) Complete(token uint64, records []series.Record) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if token != vm.seq {
		return false
	}
	vm.state = StateContent
	vm.rows = records
	return true
}

// Fail moves the view to Error with the failure's user-visible message. The
// previously rendered rows stay in memory but hidden. It reports false,
// changing nothing, when token is not the latest issued.
func (vm *ViewModel) Fail(token uint64, err error) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if token != vm.seq {
		return false
	}
	vm.state = StateError
	vm.message = ErrorPrefix + failureMessage(err)
	return true
}

// State returns the currently visible state.
func (vm *ViewModel) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state
}

// Message returns the full error message, empty unless the view has failed
// at least once.
func (vm *ViewModel) Message() string {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.message
}

// Render writes exactly the visible state to out: the loading line, the
// table, the error line, or nothing while idle.
func (vm *ViewModel) Render(out io.Writer) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	switch vm.state {
	case StateLoading:
		_, err := fmt.Fprintln(out, LoadingMessage)
		return err
	case StateContent:
		return vm.presenter.WriteTable(out, vm.rows)
	case StateError:
		_, err := fmt.Fprintln(out, vm.message)
		return err
	default:
		return nil
	}
}

// failureMessage prefers the backend's own error message over Go error
// chain prose.
func failureMessage(err error) string {
	var apiErr *ufapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
