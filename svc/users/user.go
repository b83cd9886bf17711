package users

// User is a document in the users collection.
type User struct {
	ID        string `json:"$id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"` // bcrypt hash, only with WithPasswordVerification
	Avatar    string `json:"avatar"`
	AccountID string `json:"accountId"`
}

// FullName joins the first and last name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

type SignUpInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type SignInInput struct {
	Email    string
	Password string
}

// VerifyInput carries the pending account id and the mailed passcode.
type VerifyInput struct {
	AccountID string
	Code      string
}

// AccountResult identifies the account a passcode was issued for.
type AccountResult struct {
	AccountID string
}

type VerifyResult struct {
	SessionID string
}
