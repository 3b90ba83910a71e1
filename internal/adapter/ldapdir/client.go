// Package ldapdir is the gateway to the identity directory that owns user
// records and drink balances. Lookups resolve "no such user" to (nil, nil)
// rather than an error: an unknown account and an unreachable directory are
// different failure classes and callers handle them differently.
package ldapdir

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-ldap/ldap/v3"

	"github.com/vendstack/barkeep/internal/config"
	"github.com/vendstack/barkeep/internal/domain"
)

const (
	attrUID          = "uid"
	attrCN           = "cn"
	attrMail         = "mail"
	attrMobile       = "mobile"
	attrIButton      = "ibutton"
	attrDrinkBalance = "drinkBalance"
)

var userAttributes = []string{attrUID, attrCN, attrMail, attrMobile, attrIButton, attrDrinkBalance}

// Client is a bound LDAP connection scoped to the user search base. It is
// constructed once at startup with injected credentials; go-ldap multiplexes
// concurrent requests over the single connection.
type Client struct {
	conn       ldapConn
	searchBase string
	timeout    time.Duration
	log        *slog.Logger
}

// ldapConn is the subset of *ldap.Conn the client uses, extracted so tests
// can substitute a fake without a live directory.
type ldapConn interface {
	Search(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	Modify(req *ldap.ModifyRequest) error
	Close() error
}

// Connect dials and binds a directory connection from configuration.
func Connect(cfg config.DirectoryConfig, logger *slog.Logger) (*Client, error) {
	conn, err := ldap.DialURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ldapdir: dial %s: %w", cfg.URL, err)
	}
	conn.SetTimeout(cfg.RequestTimeout)

	if err := conn.Bind(cfg.BindDN, cfg.BindPassword); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ldapdir: bind as %s: %w", cfg.BindDN, err)
	}

	return &Client{
		conn:       conn,
		searchBase: cfg.UserSearchBase,
		timeout:    cfg.RequestTimeout,
		log:        logger.With("adapter", "ldapdir"),
	}, nil
}

// Close releases the underlying directory connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// GetUser returns the user with the given uid, or (nil, nil) if no such
// user exists.
func (c *Client) GetUser(ctx context.Context, uid string) (*domain.DirectoryUser, error) {
	return c.findOne(ctx, fmt.Sprintf("(%s=%s)", attrUID, ldap.EscapeFilter(uid)))
}

// GetUserByIButton returns the user owning the given physical token value,
// or (nil, nil) if none does. Kiosk clients identify users this way.
func (c *Client) GetUserByIButton(ctx context.Context, value string) (*domain.DirectoryUser, error) {
	return c.findOne(ctx, fmt.Sprintf("(%s=%s)", attrIButton, ldap.EscapeFilter(value)))
}

// SearchUsers returns users whose uid or cn contains the query substring.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]domain.DirectoryUser, error) {
	q := ldap.EscapeFilter(query)
	filter := fmt.Sprintf("(|(%s=*%s*)(%s=*%s*))", attrUID, q, attrCN, q)

	result, err := c.search(ctx, filter)
	if err != nil {
		return nil, err
	}

	users := make([]domain.DirectoryUser, len(result.Entries))
	for i, entry := range result.Entries {
		users[i] = userFromEntry(entry)
	}
	return users, nil
}

// ModifyUser applies a change-set to the directory record it is addressed
// to. Only the set fields are replaced; the record is targeted by the DN
// captured at fetch time, never re-resolved from a username.
func (c *Client) ModifyUser(ctx context.Context, change domain.UserChangeSet) error {
	if change.DN == "" {
		return fmt.Errorf("ldapdir: %w: change-set has no dn", domain.ErrValidation)
	}
	if change.Empty() {
		return nil
	}

	req := ldap.NewModifyRequest(change.DN, nil)
	if change.DrinkBalance != nil {
		req.Replace(attrDrinkBalance, []string{strconv.FormatInt(*change.DrinkBalance, 10)})
	}
	if change.IButtons != nil {
		req.Replace(attrIButton, change.IButtons)
	}

	if err := c.conn.Modify(req); err != nil {
		return fmt.Errorf("ldapdir: modify %s: %w", change.DN, err)
	}

	c.log.DebugContext(ctx, "directory record updated", slog.String("dn", change.DN))
	return nil
}

func (c *Client) findOne(ctx context.Context, filter string) (*domain.DirectoryUser, error) {
	result, err := c.search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(result.Entries) != 1 {
		return nil, nil
	}

	user := userFromEntry(result.Entries[0])
	return &user, nil
}

func (c *Client) search(ctx context.Context, filter string) (*ldap.SearchResult, error) {
	req := ldap.NewSearchRequest(
		c.searchBase,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		int(c.timeout.Seconds()),
		false,
		filter,
		userAttributes,
		nil,
	)

	result, err := c.conn.Search(req)
	if err != nil {
		return nil, fmt.Errorf("ldapdir: search %s: %w: %v", filter, domain.ErrUnavailable, err)
	}
	return result, nil
}

// userFromEntry maps a directory entry to a DirectoryUser. A missing or
// malformed balance attribute yields a nil balance, not an error: records
// without the attribute are valid accounts that have never been funded.
func userFromEntry(entry *ldap.Entry) domain.DirectoryUser {
	user := domain.DirectoryUser{
		DN:       entry.DN,
		UID:      entry.GetAttributeValue(attrUID),
		CN:       entry.GetAttributeValue(attrCN),
		Mail:     entry.GetAttributeValues(attrMail),
		Mobile:   entry.GetAttributeValues(attrMobile),
		IButtons: entry.GetAttributeValues(attrIButton),
	}

	if raw := entry.GetAttributeValue(attrDrinkBalance); raw != "" {
		if balance, err := strconv.ParseInt(raw, 10, 64); err == nil {
			user.DrinkBalance = &balance
		}
	}

	return user
}
