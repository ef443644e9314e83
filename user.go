package readnet

type SigningKey struct {
	Key string `json:"k"`
}

// User is an account. Name is the identity string stamped on reads, it is
// unique across accounts.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`

	PasswordHash string `json:"-"`
	Salt         string `json:"-"`

	IsAdmin bool `json:"isAdmin"`
}

type UserRepository interface {
	Get(id int) (User, error)
	GetByName(name string) (User, error)

	// Upsert assigns an ID on insertion. Inserting a name that is already
	// taken fails.
	Upsert(*User) error

	List() ([]User, error)
}
