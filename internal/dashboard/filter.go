package dashboard

import (
	"sync"
	"time"
)

const DefaultFilterDebounce = 300 * time.Millisecond

// SearchFilter is the debounced filter text box. Input updates the visible
// value immediately; onChange fires once the input has been quiet for the
// debounce interval and only when the value differs from the last one the
// owner knows about.
type SearchFilter struct {
	debounce time.Duration
	onChange func(string)

	mu       sync.Mutex
	local    string
	external string
	timer    *time.Timer
	gen      uint64
}

func NewSearchFilter(value string, debounce time.Duration, onChange func(string)) *SearchFilter {
	if debounce <= 0 {
		debounce = DefaultFilterDebounce
	}
	return &SearchFilter{
		debounce: debounce,
		onChange: onChange,
		local:    value,
		external: value,
	}
}

// Input records a keystroke and restarts the debounce timer.
func (f *SearchFilter) Input(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.local = value
	f.gen++
	gen := f.gen

	if f.timer != nil {
		f.timer.Stop()
	}
	f.timer = time.AfterFunc(f.debounce, func() { f.fire(gen) })
}

// Sync resets the filter to a value chosen by its owner.
func (f *SearchFilter) Sync(value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.local = value
	f.external = value
}

// Value is the text currently shown in the box.
func (f *SearchFilter) Value() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.local
}

// Pending reports whether a debounced notification is still scheduled.
func (f *SearchFilter) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timer != nil
}

// Stop drops any pending notification.
func (f *SearchFilter) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.gen++
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

func (f *SearchFilter) fire(gen uint64) {
	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return
	}
	f.timer = nil

	value := f.local
	if value == f.external {
		f.mu.Unlock()
		return
	}
	f.external = value
	notify := f.onChange
	f.mu.Unlock()

	if notify != nil {
		notify(value)
	}
}
