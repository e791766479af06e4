package domain

type Board struct {
	Id              BoardId     `json:"id"`
	OwnerId         UserId      `json:"owner_id"`
	Title           BoardTitle  `json:"title"`
	Lists           []BoardList `json:"lists"`
	BackgroundImage string      `json:"background_image,omitempty"`
	BackgroundColor string      `json:"background_color,omitempty"`
}

// BoardList owns its cards; Cards order always reflects ascending Position.
type BoardList struct {
	Id       ListId  `json:"id"`
	BoardId  BoardId `json:"board_id"`
	Title    string  `json:"title"`
	Position int     `json:"position"`
	Archived bool    `json:"archived,omitempty"`
	Cards    []Card  `json:"cards"`
}

type BoardRolePermission struct {
	Id    int64  `json:"id"`
	Name  string `json:"name"`
	Allow bool   `json:"allow"`
}

type BoardRole struct {
	Id          int64                 `json:"id"`
	Name        string                `json:"name"`
	IsAdmin     bool                  `json:"is_admin"`
	Permissions []BoardRolePermission `json:"permissions"`
}

// BoardClaims is the acting user's permission set for the open board.
// Read-mostly, refreshed on board load.
type BoardClaims struct {
	Id      int64     `json:"id"`
	BoardId BoardId   `json:"board_id"`
	UserId  UserId    `json:"user_id"`
	IsOwner bool      `json:"is_owner"`
	Role    BoardRole `json:"role"`
}

// HasPermission reports whether the claims' role grants the named permission.
func (c *BoardClaims) HasPermission(name string) bool {
	for _, p := range c.Role.Permissions {
		if p.Name == name {
			return p.Allow
		}
	}
	return false
}

type UserBasicInfo struct {
	Id        UserId `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// BoardAllowedUser is a member of the board, distinct from the global user.
type BoardAllowedUser struct {
	Id      MemberId      `json:"id"`
	BoardId BoardId       `json:"board_id"`
	UserId  UserId        `json:"user_id"`
	RoleId  int64         `json:"board_role_id"`
	IsOwner bool          `json:"is_owner"`
	User    UserBasicInfo `json:"user"`
}

// DisplayName prefers the member's full name over the login name.
func (u *BoardAllowedUser) DisplayName() string {
	if u.User.Name != "" {
		return u.User.Name
	}
	return u.User.Username
}
