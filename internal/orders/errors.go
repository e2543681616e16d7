package orders

// Error is a domain rejection with a stable string code. Codes are part of
// the API contract: handlers surface them verbatim and clients branch on
// them, so they must never change.
type Error struct {
	Code     string
	NotFound bool
}

func (e *Error) Error() string {
	return e.Code
}

var (
	ErrItemsRequired      = &Error{Code: "items_required"}
	ErrOrderNotFound      = &Error{Code: "order_not_found", NotFound: true}
	ErrOnlyDraftEditable  = &Error{Code: "only_draft_editable"}
	ErrOnlyDraftCanSubmit = &Error{Code: "only_draft_can_submit"}
	ErrCannotCancel       = &Error{Code: "cannot_cancel"}
)
