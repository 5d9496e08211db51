// AngelaMos | 2026
// entity.go

package like

// Like is a directed edge: Liker likes Likee.
type Like struct {
	LikerID int64 `db:"liker_id"`
	LikeeID int64 `db:"likee_id"`
}

// Direction selects which side of the edge LikesOf projects.
type Direction int

const (
	// Likers returns users who like the given user.
	Likers Direction = iota + 1
	// Likees returns users the given user likes.
	Likees
)

func (d Direction) String() string {
	switch d {
	case Likers:
		return "likers"
	case Likees:
		return "likees"
	default:
		return "unknown"
	}
}
