package domain

// DirectoryUser is a user record as held by the identity directory. DN is
// the durable handle updates are addressed to; UID is the login name.
// DrinkBalance is nil when the directory record has no balance attribute.
type DirectoryUser struct {
	DN           string
	UID          string
	CN           string
	Mail         []string
	Mobile       []string
	IButtons     []string
	DrinkBalance *int64
}

// Balance returns the user's balance, treating a missing attribute as zero.
func (u *DirectoryUser) Balance() int64 {
	if u.DrinkBalance == nil {
		return 0
	}
	return *u.DrinkBalance
}

// UserChangeSet is a partial directory update addressed by DN, applying only
// the fields that are set. Addressing by DN rather than username means the
// update cannot land on a different record created between fetch and update.
type UserChangeSet struct {
	DN           string
	DrinkBalance *int64
	IButtons     []string
}

// Empty reports whether the change-set modifies nothing.
func (c *UserChangeSet) Empty() bool {
	return c.DrinkBalance == nil && c.IButtons == nil
}
