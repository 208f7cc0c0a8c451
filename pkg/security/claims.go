package security

import "strconv"

// TokenClaims is the identity handed over by the upstream auth gateway.
type TokenClaims struct {
	User   int64             `json:"user"`
	Fields map[string]string `json:"fields"`
}

func NewTokenClaims(user int64) TokenClaims {
	return TokenClaims{
		User:   user,
		Fields: make(map[string]string),
	}
}

func (c TokenClaims) UserIDStr() string {
	return strconv.FormatInt(c.User, 10)
}

// GetRole returns the workspace role resolved by middleware, if any.
func (c TokenClaims) GetRole() string {
	if c.Fields == nil {
		return ""
	}
	return c.Fields["role"]
}

func (c TokenClaims) GetUser() int64 {
	return c.User
}

// WithRole returns a copy of the claims carrying role.
func (c TokenClaims) WithRole(role string) TokenClaims {
	fields := make(map[string]string, len(c.Fields)+1)
	for k, v := range c.Fields {
		fields[k] = v
	}
	fields["role"] = role
	return TokenClaims{
		User:   c.User,
		Fields: fields,
	}
}
