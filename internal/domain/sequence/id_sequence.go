package sequence

// IDSequence is a named counter. Value holds the last id handed out.
type IDSequence struct {
	Name  string `gorm:"column:name;primaryKey;type:varchar(64)" json:"name"`
	Value int64  `gorm:"column:value;not null" json:"value"`
}

func (IDSequence) TableName() string { return "id_sequences" }

const (
	Node    = "node"
	Project = "project"
	PNTG    = "pntg"
	User    = "user"
)

// Floor is the value a sequence starts from; the first allocated id is Floor+1.
var Floor = map[string]int64{
	Node:    100000000,
	Project: 100000000,
	PNTG:    999,
	User:    100000,
}
