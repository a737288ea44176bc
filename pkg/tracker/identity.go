package tracker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// visitState holds the continuity fields of the id cookie, in unix seconds.
// Zero means unset.
type visitState struct {
	createTs             int64
	visitCount           int64
	currentVisitTs       int64
	lastVisitTs          int64
	lastEcommerceOrderTs int64
}

func newRandomVisitorID() string {
	return MD5Hex([]byte(uuid.NewString()))[:visitorIDLength]
}

func isVisitorID(id string) bool {
	if len(id) != visitorIDLength {
		return false
	}
	for _, c := range id {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// VisitorID resolves the visitor id: the hashed user id, then the forced id,
// then the id cookie, then the random id generated at construction.
func (t *Tracker) VisitorID() string {
	if t.userID != "" {
		return SHA1Hex([]byte(t.userID))[:visitorIDLength]
	}
	if t.forcedVisitorID != "" {
		return t.forcedVisitorID
	}
	if t.cookieVisitorID != "" {
		return t.cookieVisitorID
	}
	return t.randomVisitorID
}

// SetVisitorID forces the visitor id, sent as cid. id must be 16 hex chars.
func (t *Tracker) SetVisitorID(id string) error {
	if !isVisitorID(id) {
		return fmt.Errorf("%w: visitor id must be %d hex characters, got %q", ErrInvalidArgument, visitorIDLength, id)
	}
	t.forcedVisitorID = strings.ToLower(id)
	return nil
}

// ClearVisitorID drops the forced visitor id.
func (t *Tracker) ClearVisitorID() { t.forcedVisitorID = "" }

// ResetVisitorID generates a new random id and forgets the user id, the forced
// id and the id read from the cookie.
func (t *Tracker) ResetVisitorID() {
	t.randomVisitorID = newRandomVisitorID()
	t.userID = ""
	t.forcedVisitorID = ""
	t.cookieVisitorID = ""
}

// SetUserID sets uid. While set, the visitor id is derived from it.
func (t *Tracker) SetUserID(id string) { t.userID = id }

func (t *Tracker) UserID() string { return t.userID }
