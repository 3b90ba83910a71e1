package ldapdir

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendstack/barkeep/internal/domain"
)

type fakeConn struct {
	SearchFunc func(req *ldap.SearchRequest) (*ldap.SearchResult, error)
	ModifyFunc func(req *ldap.ModifyRequest) error

	modifyRequests []*ldap.ModifyRequest
}

func (f *fakeConn) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	if f.SearchFunc != nil {
		return f.SearchFunc(req)
	}
	return &ldap.SearchResult{}, nil
}

func (f *fakeConn) Modify(req *ldap.ModifyRequest) error {
	f.modifyRequests = append(f.modifyRequests, req)
	if f.ModifyFunc != nil {
		return f.ModifyFunc(req)
	}
	return nil
}

func (f *fakeConn) Close() error { return nil }

func newTestClient(conn *fakeConn) *Client {
	return &Client{
		conn:       conn,
		searchBase: "ou=users,dc=example,dc=org",
		timeout:    5 * time.Second,
		log:        slog.Default(),
	}
}

func entry(uid string, attrs map[string][]string) *ldap.Entry {
	e := ldap.NewEntry("uid="+uid+",ou=users,dc=example,dc=org", attrs)
	return e
}

func TestClient_GetUser_Found(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	conn.SearchFunc = func(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
		assert.Equal(t, "ou=users,dc=example,dc=org", req.BaseDN)
		assert.Equal(t, "(uid=alice)", req.Filter)
		return &ldap.SearchResult{Entries: []*ldap.Entry{
			entry("alice", map[string][]string{
				"uid":          {"alice"},
				"cn":           {"Alice Example"},
				"drinkBalance": {"230"},
				"ibutton":      {"12000011aabbcc"},
			}),
		}}, nil
	}

	user, err := newTestClient(conn).GetUser(context.Background(), "alice")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "uid=alice,ou=users,dc=example,dc=org", user.DN)
	assert.Equal(t, "alice", user.UID)
	assert.Equal(t, "Alice Example", user.CN)
	assert.Equal(t, int64(230), user.Balance())
	assert.Equal(t, []string{"12000011aabbcc"}, user.IButtons)
}

func TestClient_GetUser_NotFound(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}

	user, err := newTestClient(conn).GetUser(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestClient_GetUser_AmbiguousResultIsNotFound(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	conn.SearchFunc = func(_ *ldap.SearchRequest) (*ldap.SearchResult, error) {
		return &ldap.SearchResult{Entries: []*ldap.Entry{
			entry("a", map[string][]string{"uid": {"a"}}),
			entry("b", map[string][]string{"uid": {"b"}}),
		}}, nil
	}

	user, err := newTestClient(conn).GetUser(context.Background(), "a")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestClient_GetUser_FilterEscaping(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	var gotFilter string
	conn.SearchFunc = func(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
		gotFilter = req.Filter
		return &ldap.SearchResult{}, nil
	}

	_, err := newTestClient(conn).GetUser(context.Background(), "al*ce)(uid=admin")
	require.NoError(t, err)
	assert.NotContains(t, gotFilter, "*")
	assert.NotContains(t, gotFilter, ")(")
}

func TestClient_GetUser_DirectoryDown(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	conn.SearchFunc = func(_ *ldap.SearchRequest) (*ldap.SearchResult, error) {
		return nil, errors.New("connection reset")
	}

	_, err := newTestClient(conn).GetUser(context.Background(), "alice")
	require.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestClient_GetUser_MissingBalanceIsNil(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	conn.SearchFunc = func(_ *ldap.SearchRequest) (*ldap.SearchResult, error) {
		return &ldap.SearchResult{Entries: []*ldap.Entry{
			entry("newbie", map[string][]string{"uid": {"newbie"}}),
		}}, nil
	}

	user, err := newTestClient(conn).GetUser(context.Background(), "newbie")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Nil(t, user.DrinkBalance)
	assert.Equal(t, int64(0), user.Balance())
}

func TestClient_GetUserByIButton(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	conn.SearchFunc = func(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
		assert.Equal(t, "(ibutton=12000011aabbcc)", req.Filter)
		return &ldap.SearchResult{Entries: []*ldap.Entry{
			entry("alice", map[string][]string{"uid": {"alice"}}),
		}}, nil
	}

	user, err := newTestClient(conn).GetUserByIButton(context.Background(), "12000011aabbcc")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "alice", user.UID)
}

func TestClient_SearchUsers(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	conn.SearchFunc = func(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
		assert.Equal(t, "(|(uid=*ali*)(cn=*ali*))", req.Filter)
		return &ldap.SearchResult{Entries: []*ldap.Entry{
			entry("alice", map[string][]string{"uid": {"alice"}}),
			entry("alina", map[string][]string{"uid": {"alina"}}),
		}}, nil
	}

	users, err := newTestClient(conn).SearchUsers(context.Background(), "ali")
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestClient_ModifyUser_Balance(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	balance := int64(150)

	err := newTestClient(conn).ModifyUser(context.Background(), domain.UserChangeSet{
		DN:           "uid=alice,ou=users,dc=example,dc=org",
		DrinkBalance: &balance,
	})
	require.NoError(t, err)

	require.Len(t, conn.modifyRequests, 1)
	req := conn.modifyRequests[0]
	assert.Equal(t, "uid=alice,ou=users,dc=example,dc=org", req.DN)
	require.Len(t, req.Changes, 1)
	change := req.Changes[0]
	assert.Equal(t, "drinkBalance", change.Modification.Type)
	assert.Equal(t, []string{"150"}, change.Modification.Vals)
}

func TestClient_ModifyUser_NoDN(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}
	balance := int64(150)

	err := newTestClient(conn).ModifyUser(context.Background(), domain.UserChangeSet{
		DrinkBalance: &balance,
	})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, conn.modifyRequests)
}

func TestClient_ModifyUser_EmptyChangeSetIsNoop(t *testing.T) {
	t.Parallel()
	conn := &fakeConn{}

	err := newTestClient(conn).ModifyUser(context.Background(), domain.UserChangeSet{
		DN: "uid=alice,ou=users,dc=example,dc=org",
	})
	require.NoError(t, err)
	assert.Empty(t, conn.modifyRequests)
}
