package sessions

import "github.com/golang-jwt/jwt/v5"

// The login endpoint does not return role membership directly; roles travel
// as claims inside the access token. The backend is an ASP.NET service, so
// roles may appear under the long-form identity claim URI as well as the
// short "role"/"roles" names, and may be a single string or an array.
const aspNetRoleClaim = "http://schemas.microsoft.com/ws/2008/06/identity/claims/role"

var roleClaimNames = []string{"role", "roles", aspNetRoleClaim}

// RolesFromToken extracts role claims from a raw access token without
// verifying its signature. Verification is the API's job; the roles are used
// only to gate which views the portal offers. Returns nil when the token is
// not a parseable JWT or carries no role claim.
func RolesFromToken(rawToken string) []string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil
	}
	for _, name := range roleClaimNames {
		value, ok := claims[name]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			return []string{v}
		case []interface{}:
			roles := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					roles = append(roles, s)
				}
			}
			if len(roles) > 0 {
				return roles
			}
		}
	}
	return nil
}
