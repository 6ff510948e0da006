package viewer

import (
	"errors"

	"github.com/mpetrenko/studyport/internal/access"
	"github.com/mpetrenko/studyport/internal/client/api"
	"github.com/mpetrenko/studyport/internal/common"
)

// paywallMessage maps a denial reason onto the upgrade prompt shown in the
// Paywalled state.
func paywallMessage(reason access.Reason) string {
	switch reason {
	case access.ReasonNoSubscription:
		return "Your subscription has ended. Renew your plan to open this note."
	case access.ReasonScopeMismatch:
		return "Your current plan does not cover this note."
	default:
		return "This is a premium note. Purchase a plan to unlock it."
	}
}

// readableMessage converts client errors into the inline text shown next to
// the retry action. Raw error dumps never reach the user.
func readableMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrSessionLimit):
		return "You have too many active viewing sessions. Reset your other sessions to continue."
	case errors.Is(err, common.ErrSessionTerminated):
		return "Your login session ended. Please sign in again."
	case errors.Is(err, common.ErrSessionExpired):
		return "Your viewing session expired. Refresh to continue reading."
	case errors.Is(err, common.ErrUnavailable):
		return "The server is unreachable. Check your connection and try again."
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Something went wrong. Refresh the session to try again."
}
