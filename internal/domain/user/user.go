package user

import "time"

type User struct {
	UserID     int64      `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"id"`
	Username   string     `gorm:"column:username;type:varchar(150);uniqueIndex;not null" json:"username"`
	Password   string     `gorm:"column:password;not null" json:"-"`
	Email      string     `gorm:"column:email;type:varchar(255)" json:"email"`
	IsActive   bool       `gorm:"column:is_active;not null" json:"is_active"`
	IsStaff    bool       `gorm:"column:is_staff;not null" json:"is_staff"`
	DateJoined time.Time  `gorm:"column:date_joined;not null" json:"date_joined"`
	LastLogin  *time.Time `gorm:"column:last_login" json:"last_login"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"-"`

	// Populated by the service layer from user_projects.
	ProjectIDs []int64 `gorm:"-" json:"project_ids"`
}

func (User) TableName() string { return "users" }

// UserProject grants a user access to one project.
type UserProject struct {
	UserID    int64     `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"user_id"`
	ProjectID int64     `gorm:"column:project_id;primaryKey;autoIncrement:false;index" json:"project_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (UserProject) TableName() string { return "user_projects" }

type UserPatch struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
	IsStaff  *bool   `json:"is_staff"`
}

type NewUser struct {
	Username  string
	Password  string
	Email     string
	IsActive  bool
	IsStaff   bool
	ProjectID int64
}
