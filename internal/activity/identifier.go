package activity

import (
	"fmt"
	"strconv"
)

// Metadata keys attached to an identifier at creation time.
const (
	MetadataWindow   = "window"
	MetadataInstance = "instance"
)

// Identifier uniquely identifies one logical UI-bound activity by module name,
// activity kind, window name and instance index. It is immutable after
// creation; the instance index is never renumbered.
type Identifier struct {
	module   string
	kind     string
	metadata map[string]string
}

// NewIdentifier creates an identifier for one activity instance. The window
// name and instance index are carried as metadata, matching how the shell
// attaches them when an activity is announced.
func NewIdentifier(module, kind, window string, instance int) Identifier {
	return Identifier{
		module: module,
		kind:   kind,
		metadata: map[string]string{
			MetadataWindow:   window,
			MetadataInstance: strconv.Itoa(instance),
		},
	}
}

// Module returns the owning module's name.
func (id Identifier) Module() string {
	return id.module
}

// Kind returns the activity kind.
func (id Identifier) Kind() string {
	return id.kind
}

// Window returns the window name this activity is bound to.
func (id Identifier) Window() string {
	return id.metadata[MetadataWindow]
}

// Instance parses the instance index from the identifier metadata.
// Identifiers built with NewIdentifier always carry a valid index.
func (id Identifier) Instance() (int, error) {
	raw, ok := id.metadata[MetadataInstance]
	if !ok {
		return 0, fmt.Errorf("identifier %s has no instance metadata", id)
	}
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("identifier %s has malformed instance metadata %q: %w", id, raw, err)
	}
	return idx, nil
}

// Metadata returns the metadata value for the given key.
func (id Identifier) Metadata(key string) (string, bool) {
	v, ok := id.metadata[key]
	return v, ok
}

// String renders the identifier in the canonical "module/kind@window:instance"
// form used as the registry key and in log messages.
func (id Identifier) String() string {
	return fmt.Sprintf("%s/%s@%s:%s", id.module, id.kind, id.metadata[MetadataWindow], id.metadata[MetadataInstance])
}
