package sdk

import "context"

// RegisterRequest represents user registration
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar,omitempty"`
}

// LoginRequest represents user login
type LoginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	PlatformId int    `json:"platform_id"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	Token    string    `json:"token"`
	UserInfo *UserInfo `json:"user_info"`
}

// Register registers a new user
func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*UserInfo, error) {
	var result UserInfo
	if err := c.post(ctx, "/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Login authenticates a user and returns a token.
// The token is automatically stored in the client for subsequent requests.
func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	var result LoginResponse
	if err := c.post(ctx, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	// Auto-set token for subsequent requests
	c.SetToken(result.Token)
	return &result, nil
}

// LoginWithEmail is a convenience method to login with email, password and platform Id
func (c *Client) LoginWithEmail(ctx context.Context, email, password string, platformId int) (*LoginResponse, error) {
	return c.Login(ctx, &LoginRequest{
		Email:      email,
		Password:   password,
		PlatformId: platformId,
	})
}

// Logout invalidates the current token and clears it from the client
func (c *Client) Logout(ctx context.Context) error {
	if err := c.post(ctx, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}
