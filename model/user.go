package model

import "github.com/spetersoncode/storebridge"

// UserSlice is the key of the user slice.
const UserSlice = "user"

// GuestGroup is the user group of an anonymous session.
const GuestGroup = "GUEST"

// Credentials start a login.
type Credentials struct {
	Token string `json:"token"`
}

// Claims are the decoded claims of the session token.
type Claims struct {
	Subject   string `json:"sub"`
	Email     string `json:"email,omitempty"`
	UserGroup string `json:"userGroup,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
}

// Profile is the signed-in user's profile.
type Profile struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
}

// UserState is the user slice.
type UserState struct {
	DecodedJWT *Claims                   `json:"decodedJwt,omitempty"`
	Profile    *Profile                  `json:"profile,omitempty"`
	Language   string                    `json:"language"`
	Status     storebridge.LoadingStatus `json:"status"`
}
