package models

// CredentialRowID is the primary key of the singleton credentials row
const CredentialRowID = 0

// Credential holds the active publishing code and where rotations are announced
type Credential struct {
	Code    uint32 `json:"code" db:"code"`
	HookURL string `json:"hook_url" db:"hook_url"`
}
