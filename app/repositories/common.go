package repositories

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrSlugConflict  = errors.New("slug already exists")
	ErrUsernameTaken = errors.New("username already exists")
)

const (
	// Entity rows, keyed by id.
	PostKeyPrefix = "post:"
	UserKeyPrefix = "user:"
	TagKeyPrefix  = "tag:"

	// Uniqueness indexes, keyed by the unique value, holding the owner id.
	// Written in the same transaction as the row they index, so a
	// conflicting insert either sees the key or aborts on commit.
	SlugIndexPrefix     = "slugidx:"
	UsernameIndexPrefix = "useridx:"
	TagNameIndexPrefix  = "tagname:"

	// Post<->tag association, stored in both directions for cheap
	// filtering and counting. Values are empty; the key is the record.
	PostTagPrefix = "posttag:"
	TagPostPrefix = "tagpost:"

	// Sequence keys for auto-incrementing IDs.
	PostSeqKey = "seq:post"
	UserSeqKey = "seq:user"
	TagSeqKey  = "seq:tag"
)

func postKey(id int) []byte { return []byte(fmt.Sprintf("%s%d", PostKeyPrefix, id)) }
func userKey(id int) []byte { return []byte(fmt.Sprintf("%s%d", UserKeyPrefix, id)) }
func tagKey(id int) []byte  { return []byte(fmt.Sprintf("%s%d", TagKeyPrefix, id)) }

func slugKey(slug string) []byte     { return []byte(SlugIndexPrefix + slug) }
func usernameKey(name string) []byte { return []byte(UsernameIndexPrefix + name) }
func tagNameKey(name string) []byte  { return []byte(TagNameIndexPrefix + name) }

func postTagKey(postID, tagID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", PostTagPrefix, postID, tagID))
}

func tagPostKey(tagID, postID int) []byte {
	return []byte(fmt.Sprintf("%s%d:%d", TagPostPrefix, tagID, postID))
}

func postTagScanPrefix(postID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", PostTagPrefix, postID))
}

func tagPostScanPrefix(tagID int) []byte {
	return []byte(fmt.Sprintf("%s%d:", TagPostPrefix, tagID))
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	var id int
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		id = 1
	} else if err != nil {
		return 0, err
	} else {
		err = item.Value(func(val []byte) error {
			id = int(val[0])<<24 | int(val[1])<<16 | int(val[2])<<8 | int(val[3])
			return nil
		})
		if err != nil {
			return 0, err
		}
		id++
	}

	// Store new ID
	idBytes := []byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)}
	if err := txn.Set([]byte(seqKey), idBytes); err != nil {
		return 0, err
	}

	return id, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %v", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %v", err)
	}
	return nil
}

// readIndex resolves a uniqueness-index key to the id it stores. Returns
// ErrNotFound when the index key is absent.
func readIndex(txn *badger.Txn, key []byte) (int, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int
	err = item.Value(func(val []byte) error {
		_, serr := fmt.Sscanf(string(val), "%d", &id)
		return serr
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func writeIndex(txn *badger.Txn, key []byte, id int) error {
	return txn.Set(key, []byte(fmt.Sprintf("%d", id)))
}
