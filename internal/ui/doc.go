// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI has three views:
//  1. [TrendingView] : the ranked trending list
//  2. [SearchView] : a search box with a search-as-you-type dropdown, then full results
//  3. [DetailView] : one song's details with a popularity bar
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
//
// Search debouncing is a tagged timer: every edit increments a sequence number and schedules a [tea.Tick]
// carrying it. Ticks and suggestion responses whose sequence is no longer current are dropped, so only
// the last keystroke inside the [DebounceDelay] window produces a request and a visible result.
// Leaving the box (esc/tab) hides the dropdown.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, /, o, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
