package bolt

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/boltdb/bolt"

	"github.com/readnet/readnet"
	"github.com/readnet/readnet/errors"
)

var (
	userBucket     = []byte("users")
	userNameBucket = []byte("userNames")
)

// userRecord is the stored form of a user. The domain type hides the
// credential fields from JSON, here they have to be persisted.
type userRecord struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	PasswordHash string `json:"passwordHash"`
	Salt         string `json:"salt"`
	IsAdmin      bool   `json:"isAdmin"`
}

func toRecord(u readnet.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Salt:         u.Salt,
		IsAdmin:      u.IsAdmin,
	}
}

func (rec userRecord) toUser() readnet.User {
	return readnet.User{
		ID:           rec.ID,
		Name:         rec.Name,
		PasswordHash: rec.PasswordHash,
		Salt:         rec.Salt,
		IsAdmin:      rec.IsAdmin,
	}
}

// UserRepository stores accounts in a bolt database. A secondary bucket maps
// names to ids so name uniqueness is enforced in the same write transaction
// as the insertion.
type UserRepository struct {
	Driver *Driver
}

// Get retrieves the user for id. A missing id yields the zero user, not an
// error.
func (r *UserRepository) Get(id int) (readnet.User, error) {
	var rec userRecord
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(userBucket).Get(itob(id))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return readnet.User{}, err
	}

	return rec.toUser(), nil
}

// GetByName retrieves the user for name through the name index. A missing
// name yields the zero user.
func (r *UserRepository) GetByName(name string) (readnet.User, error) {
	var rec userRecord
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		idData := tx.Bucket(userNameBucket).Get([]byte(name))
		if idData == nil {
			return nil
		}

		data := tx.Bucket(userBucket).Get(idData)
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return readnet.User{}, err
	}

	return rec.toUser(), nil
}

// Upsert inserts or updates a user depending on user.ID. Names are unique:
// inserting a taken name, or renaming onto one, fails.
func (r *UserRepository) Upsert(user *readnet.User) error {
	return r.Driver.store.Update(func(tx *bolt.Tx) error {
		users := tx.Bucket(userBucket)
		names := tx.Bucket(userNameBucket)

		if user.ID == 0 {
			if names.Get([]byte(user.Name)) != nil {
				return errNameTaken(user.Name)
			}

			id, err := users.NextSequence()
			if err != nil {
				return fmt.Errorf("error incrementing id: %v", err)
			}
			user.ID = int(id)
		} else {
			data := users.Get(itob(user.ID))
			if data == nil {
				return errors.New(fmt.Sprintf("user %d not found", user.ID), errors.NotFound())
			}

			var current userRecord
			if err := json.Unmarshal(data, &current); err != nil {
				return err
			}

			if current.Name != user.Name {
				if names.Get([]byte(user.Name)) != nil {
					return errNameTaken(user.Name)
				}
				if err := names.Delete([]byte(current.Name)); err != nil {
					return err
				}
			}
		}

		data, err := json.Marshal(toRecord(*user))
		if err != nil {
			return err
		}

		if err := users.Put(itob(user.ID), data); err != nil {
			return err
		}
		return names.Put([]byte(user.Name), itob(user.ID))
	})
}

// List returns all the users.
func (r *UserRepository) List() ([]readnet.User, error) {
	var users []readnet.User
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(userBucket).Cursor()
		for id, data := c.First(); id != nil; id, data = c.Next() {
			var rec userRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				return err
			}
			users = append(users, rec.toUser())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return users, nil
}

func errNameTaken(name string) error {
	return errors.New(fmt.Sprintf("name %s is already taken", name), errors.BadRequest())
}

// ------------------------------------------------------------------------------------------------
// Helpers
// ------------------------------------------------------------------------------------------------

// itob returns an 8-byte big endian representation of v.
func itob(v int) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
