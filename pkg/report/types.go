// Package report provides the JSON and text results printed by axlocator commands.
//
// Every command produces one Result. Elements are flattened into Element
// records so results can be consumed without the hierarchy they came from.
package report

import "time"

// Version is the result schema version.
const Version = "1.0.0"

// Status represents the outcome of a command.
type Status string

// Status values.
const (
	StatusFound    Status = "found"
	StatusNotFound Status = "notFound"
	StatusFailed   Status = "failed"
)

// Result is the output of a single command.
type Result struct {
	Version   string    `json:"version"`
	Command   string    `json:"command"` // find, collect, navigate, perform
	Status    Status    `json:"status"`
	Source    string    `json:"source,omitempty"`  // Snapshot file
	Locator   string    `json:"locator,omitempty"` // Human-readable locator
	Path      []string  `json:"path,omitempty"`    // Navigate input
	Action    string    `json:"action,omitempty"`
	Count     int       `json:"count"`
	Elements  []Element `json:"elements"`
	Fallback  *Fallback `json:"fallback,omitempty"`
	Error     *Error    `json:"error,omitempty"`
	StartTime time.Time `json:"startTime"`
	Duration  int64     `json:"duration"` // milliseconds
}

// Element contains information about a located element.
type Element struct {
	ID           string   `json:"id"`
	Role         string   `json:"role,omitempty"`
	Subrole      string   `json:"subrole,omitempty"`
	Title        string   `json:"title,omitempty"`
	Identifier   string   `json:"identifier,omitempty"`
	Description  string   `json:"description,omitempty"`
	Value        string   `json:"value,omitempty"`
	ComputedName string   `json:"computedName,omitempty"`
	Actions      []string `json:"actions,omitempty"`
	Enabled      *bool    `json:"enabled,omitempty"`
	Path         []string `json:"path,omitempty"` // Role[Index] steps from the hierarchy root
}

// Fallback describes a smart fallback search that ran for an action.
type Fallback struct {
	Status     string `json:"status"`
	Locator    string `json:"locator,omitempty"` // Rewritten locator
	Candidates int    `json:"candidates"`
}

// Error contains error details.
type Error struct {
	Category string                 `json:"category"` // locator, path, action, input, config, timeout
	Code     string                 `json:"code,omitempty"`
	Message  string                 `json:"message"`
	Details  map[string]interface{} `json:"details,omitempty"`
}
