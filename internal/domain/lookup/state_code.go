package lookup

// StateCode maps an integer status to its display name.
type StateCode struct {
	Code      int    `gorm:"column:state_code;primaryKey;autoIncrement:false" json:"state_code"`
	StateName string `gorm:"column:state_name;type:varchar(255);not null" json:"state_name"`
}

func (StateCode) TableName() string { return "state_code" }
