package user

// User is an admin credential record. Rows are created out-of-band (or by the
// startup seed); this service only ever reads them.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}
