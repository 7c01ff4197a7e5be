// Package models defines the client-side data models of the WombGuard CLI:
// the current-user identity, the persisted credential snapshot and the
// request/response bodies exchanged with the backend.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strconv"
)

// Role is the account role as the backend spells it. Unknown values are
// kept verbatim.
type Role string

const (
	RolePatient  Role = "pregnant_woman"
	RoleProvider Role = "healthcare_provider"
	RoleAdmin    Role = "admin"
)

// IsPatient reports whether r denotes a pregnant patient. The short
// spelling "patient" is used by profile rows created outside the backend.
func (r Role) IsPatient() bool { return r == RolePatient || r == "patient" }

// IsProvider reports whether r denotes a healthcare provider.
func (r Role) IsProvider() bool { return r == RoleProvider || r == "provider" }

// CanTreat reports whether r may act as a provider. Admins can.
func (r Role) CanTreat() bool { return r.IsProvider() || r == RoleAdmin }

func (r Role) String() string { return string(r) }

// ErrCorruptedIdentity is returned when a serialized identity cannot be
// turned back into an Identity.
var ErrCorruptedIdentity = errors.New("corrupted identity")

// Identity is the currently authenticated principal.
//
// Its JSON form is a flat object: id, email, name and role are typed fields,
// every other key is kept in Profile and written back at the top level.
// Identities are replaced wholesale and never mutated after construction.
type Identity struct {
	ID      string
	Email   string
	Name    string
	Role    Role
	Profile map[string]any
}

// Clone returns a copy of i that shares no maps with it.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.Profile != nil {
		c.Profile = maps.Clone(i.Profile)
	}
	return &c
}

// DisplayName is the name when known, the email otherwise.
func (i *Identity) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	if v, ok := i.Profile["full_name"].(string); ok && v != "" {
		return v
	}
	return i.Email
}

func (i Identity) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Map())
}

func (i *Identity) UnmarshalJSON(data []byte) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptedIdentity, err)
	}
	if m == nil {
		return fmt.Errorf("%w: null", ErrCorruptedIdentity)
	}
	id, err := IdentityFromMap(m)
	if err != nil {
		return err
	}
	*i = *id
	return nil
}

// Map flattens i into a single object.
func (i *Identity) Map() map[string]any {
	m := make(map[string]any, len(i.Profile)+4)
	maps.Copy(m, i.Profile)
	if i.ID != "" {
		m["id"] = i.ID
	}
	if i.Email != "" {
		m["email"] = i.Email
	}
	if i.Name != "" {
		m["name"] = i.Name
	}
	if i.Role != "" {
		m["role"] = string(i.Role)
	}
	return m
}

// IdentityFromMap builds an Identity from a flat record. A record carrying
// neither an id nor an email identifies nobody and is rejected.
func IdentityFromMap(m map[string]any) (*Identity, error) {
	id := &Identity{}
	profile := make(map[string]any, len(m))
	for k, v := range m {
		switch k {
		case "id":
			id.ID = scalarString(v)
		case "email":
			id.Email = scalarString(v)
		case "name":
			id.Name = scalarString(v)
		case "role":
			id.Role = Role(scalarString(v))
		default:
			profile[k] = v
		}
	}
	if id.ID == "" && id.Email == "" {
		return nil, fmt.Errorf("%w: no id or email", ErrCorruptedIdentity)
	}
	if len(profile) > 0 {
		id.Profile = profile
	}
	return id, nil
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// FromRemote synthesizes an identity from a remote session and its profile
// record. id and email always come from the session.
func FromRemote(s *RemoteSession, profile map[string]any) *Identity {
	m := make(map[string]any, len(profile)+2)
	maps.Copy(m, profile)
	m["id"] = s.SubjectID
	m["email"] = s.Email
	id, err := IdentityFromMap(m)
	if err != nil {
		return nil
	}
	return id
}

// Credential is the persisted snapshot: an identity and an optional bearer
// token.
type Credential struct {
	Identity *Identity
	Token    string
}

// RemoteSession is the handle returned by the managed auth provider.
type RemoteSession struct {
	SubjectID string
	Email     string
	SessionID string
}
