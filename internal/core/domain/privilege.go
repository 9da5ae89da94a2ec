package domain

// PrivilegeAction is an action verb checked against the privilege model before
// any trade operation runs.
type PrivilegeAction string

const (
	ActionView      PrivilegeAction = "VIEW"
	ActionCreate    PrivilegeAction = "CREATE"
	ActionAmend     PrivilegeAction = "AMEND"
	ActionCancel    PrivilegeAction = "CANCEL"
	ActionTerminate PrivilegeAction = "TERMINATE"
)
