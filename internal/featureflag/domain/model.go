package domain

import "time"

type Feature struct {
	Slug        FlagKey     `gorm:"column:slug;primaryKey;size:128"`
	Enabled     bool        `gorm:"column:enabled;not null;default:false"`
	Description *string     `gorm:"column:description"`
	Type        FeatureType `gorm:"column:type;size:32"`
	Stale       bool        `gorm:"column:stale;not null;default:false"`
	CreatedAt   time.Time   `gorm:"column:created_at"`
	UpdatedAt   time.Time   `gorm:"column:updated_at"`
}

func (Feature) TableName() string { return "features" }

type User struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Email     string    `gorm:"column:email;uniqueIndex;size:255"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (User) TableName() string { return "users" }

// Team groups users. Organizations are teams with IsOrganization set.
type Team struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement:false"`
	Name           string    `gorm:"column:name;size:255"`
	Slug           *string   `gorm:"column:slug;size:255"`
	ParentID       *int64    `gorm:"column:parent_id;index"`
	IsOrganization bool      `gorm:"column:is_organization;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (Team) TableName() string { return "teams" }

type MembershipRole string

const (
	MembershipRoleOwner  MembershipRole = "owner"
	MembershipRoleAdmin  MembershipRole = "admin"
	MembershipRoleMember MembershipRole = "member"
)

type Membership struct {
	ID       int64          `gorm:"column:id;primaryKey"`
	UserID   int64          `gorm:"column:user_id;not null;uniqueIndex:ux_memberships_user_team"`
	TeamID   int64          `gorm:"column:team_id;not null;uniqueIndex:ux_memberships_user_team;index"`
	Role     MembershipRole `gorm:"column:role;size:32"`
	Accepted bool           `gorm:"column:accepted;not null;default:false"`
}

func (Membership) TableName() string { return "memberships" }

// UserFeature grants a flag to a single user. The row carries no payload:
// its existence is the grant.
type UserFeature struct {
	UserID     int64     `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	FeatureID  FlagKey   `gorm:"column:feature_id;primaryKey;size:128"`
	AssignedBy string    `gorm:"column:assigned_by;size:255"`
	AssignedAt time.Time `gorm:"column:assigned_at"`
}

func (UserFeature) TableName() string { return "user_features" }

// TeamFeature grants a flag to a team. At most one row exists per
// (team_id, feature_id).
type TeamFeature struct {
	TeamID     int64     `gorm:"column:team_id;primaryKey;autoIncrement:false"`
	FeatureID  FlagKey   `gorm:"column:feature_id;primaryKey;size:128"`
	AssignedBy string    `gorm:"column:assigned_by;size:255"`
	AssignedAt time.Time `gorm:"column:assigned_at"`
}

func (TeamFeature) TableName() string { return "team_features" }

func (t TeamFeature) Key() TeamFeatureKey {
	return TeamFeatureKey{TeamID: t.TeamID, FeatureID: t.FeatureID}
}

// TeamFeatureKey is the composite natural key of a TeamFeature. Equality
// covers both fields, so it is usable directly as a map key.
type TeamFeatureKey struct {
	TeamID    int64
	FeatureID FlagKey
}

// Models lists every table the feature access layer reads from.
func Models() []any {
	return []any{
		&Feature{},
		&User{},
		&Team{},
		&Membership{},
		&UserFeature{},
		&TeamFeature{},
	}
}
