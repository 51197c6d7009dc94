package repositories

import (
	"github.com/dgraph-io/badger/v4"

	"inkwell/app/models"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create creates a new user, enforcing username uniqueness through the
// username index key written in the same transaction.
func (r *BadgerUserRepository) Create(user *models.User) error {
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(usernameKey(user.Username)); err == nil {
			return ErrUsernameTaken
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id
		user.BeforeCreate()

		data, err := marshalEntity(user)
		if err != nil {
			return err
		}
		if err := txn.Set(userKey(user.ID), data); err != nil {
			return err
		}
		return writeIndex(txn, usernameKey(user.Username), user.ID)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var user models.User

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(userKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &user)
		})
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by their unique username
func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User

	err := r.db.View(func(txn *badger.Txn) error {
		id, err := readIndex(txn, usernameKey(username))
		if err != nil {
			return err
		}
		item, err := txn.Get(userKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &user)
		})
	})

	if err != nil {
		return nil, err
	}
	return &user, nil
}
