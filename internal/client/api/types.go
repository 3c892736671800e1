package api

// Wire types of the credential service. The protocol is JSON over HTTP POST;
// every response may carry an "error" field which is only meaningful on
// failure. Authenticated requests embed the opaque session token.

type authenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authenticateResponse struct {
	Session     string `json:"session"`
	Username    string `json:"username"`
	IsAdmin     bool   `json:"admin"`
	LastChanged string `json:"lastchanged"`
	Error       string `json:"error,omitempty"`
}

type listFullRequest struct {
	Session string `json:"session"`
}

type listFullEntry struct {
	IsAdmin      bool   `json:"admin"`
	LastChanged  string `json:"lastchanged"`
	IsValid      bool   `json:"valid"`
	IsSupported  bool   `json:"supported"`
	FormatID     string `json:"formatid"`
	FormatParams string `json:"formatparams"`
}

type listFullResponse struct {
	List  map[string]listFullEntry `json:"list"`
	Error string                   `json:"error,omitempty"`
}

type addRequest struct {
	Session  string `json:"session"`
	Username string `json:"username"`
	Password string `json:"password"`
	IsAdmin  bool   `json:"admin"`
}

type updateRequest struct {
	Session     string `json:"session"`
	Username    string `json:"username"`
	NewPassword string `json:"newpassword"`
}

type removeRequest struct {
	Session  string `json:"session"`
	Username string `json:"username"`
}

type setAdminRequest struct {
	Session  string `json:"session"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"admin"`
}

// usernameResponse is shared by add, update, remove and set-admin: on
// success the server echoes the affected username.
type usernameResponse struct {
	Username string `json:"username"`
	Error    string `json:"error,omitempty"`
}
