package model

import "github.com/google/uuid"

// Viewer is the resolved caller of a read operation: anonymous (nil ID),
// an authenticated user, or a privileged user who bypasses visibility.
type Viewer struct {
	ID         *uuid.UUID
	Privileged bool
}

func (v Viewer) Authenticated() bool {
	return v.ID != nil
}

func (v Viewer) Is(userID uuid.UUID) bool {
	return v.ID != nil && *v.ID == userID
}

func AnonymousViewer() Viewer {
	return Viewer{}
}

func UserViewer(id uuid.UUID, privileged bool) Viewer {
	return Viewer{ID: &id, Privileged: privileged}
}
