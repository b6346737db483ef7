package entity

const (
	Files = "abcdefgh"
	Ranks = "12345678"
)

// Square is a board coordinate such as "e4".
type Square string

func SquareAt(file, rank int) Square {
	return Square([]byte{Files[file], Ranks[rank]})
}

func (that Square) IsValid() bool {
	if len(that) != 2 {
		return false
	}

	return that[0] >= 'a' && that[0] <= 'h' && that[1] >= '1' && that[1] <= '8'
}

func (that Square) String() string {
	return string(that)
}
