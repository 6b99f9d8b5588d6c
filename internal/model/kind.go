package model

// Kind names one of the three entity collections.
type Kind string

const (
	KindUser    Kind = "user"
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Kinds lists every collection in dependency order (parents first).
var Kinds = []Kind{KindUser, KindPost, KindComment}

// Valid reports whether k is a known collection.
func (k Kind) Valid() bool {
	switch k {
	case KindUser, KindPost, KindComment:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}
