package enums

import "fmt"

// ContactMessageStatus tracks how merchant staff have handled an inbound
// contact message.
type ContactMessageStatus string

const (
	ContactMessageStatusNew      ContactMessageStatus = "new"
	ContactMessageStatusResolved ContactMessageStatus = "resolved"
)

var validContactMessageStatuses = []ContactMessageStatus{
	ContactMessageStatusNew,
	ContactMessageStatusResolved,
}

// String implements fmt.Stringer.
func (s ContactMessageStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ContactMessageStatus.
func (s ContactMessageStatus) IsValid() bool {
	for _, candidate := range validContactMessageStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseContactMessageStatus converts raw input into a ContactMessageStatus.
func ParseContactMessageStatus(value string) (ContactMessageStatus, error) {
	for _, candidate := range validContactMessageStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid contact message status %q", value)
}
