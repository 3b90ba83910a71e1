package auth

import "slices"

// Identity is the resolved caller identity supplied by the authentication
// middleware: who is calling and which groups they hold. BalanceAtAuth is
// the balance claim snapshotted when the token was issued; the dispense flow
// never trusts it and re-fetches the live balance itself.
type Identity struct {
	Username      string
	DisplayName   string
	Groups        []string
	BalanceAtAuth int64
}

// HasGroup reports whether the identity holds the named group.
func (i *Identity) HasGroup(group string) bool {
	return slices.Contains(i.Groups, group)
}
