package state

import (
	"errors"
	"fmt"
)

// StateCreationError is returned when the device refuses to build a native
// object for a descriptor. Nothing is cached for the descriptor, a later
// Resolve with the same value tries again.
type StateCreationError struct {
	Stage      Stage
	Descriptor any
	Err        error
}

func (e *StateCreationError) Error() string {
	return fmt.Sprintf("%s state creation failed for %+v: %s", e.Stage, e.Descriptor, e.Err)
}

func (e *StateCreationError) Unwrap() error {
	return e.Err
}

// BindError is returned when the device refuses to make a native object the
// active one. The controller keeps its previous state.
type BindError struct {
	Stage Stage
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("%s state bind failed: %s", e.Stage, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

// InvalidDescriptorWarning flags a descriptor whose fields for a whole
// sub-feature are left at their unset value. It is logged, never returned
// from Set.
type InvalidDescriptorWarning struct {
	Stage  Stage
	Reason string
}

func (w *InvalidDescriptorWarning) Error() string {
	return fmt.Sprintf("invalid %s descriptor: %s", w.Stage, w.Reason)
}

func newWarning(stage Stage, reasons []string) error {
	switch len(reasons) {
	case 0:
		return nil
	case 1:
		return &InvalidDescriptorWarning{Stage: stage, Reason: reasons[0]}
	}
	errs := make([]error, 0, len(reasons))
	for _, r := range reasons {
		errs = append(errs, &InvalidDescriptorWarning{Stage: stage, Reason: r})
	}
	return errors.Join(errs...)
}
