package domain

// EnforceRequest asks whether a caller may perform Action on Resource.
// Roles come from the caller's token; UserID is kept for auditing.
type EnforceRequest struct {
	UserID   string `json:"user_id"`
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}
