package repositories

import (
	"sort"

	"github.com/dgraph-io/badger/v4"

	"inkwell/app/models"
)

// BadgerTagRepository implements TagRepository using BadgerDB
type BadgerTagRepository struct {
	db *badger.DB
}

// NewBadgerTagRepository creates a new BadgerTagRepository
func NewBadgerTagRepository(db *badger.DB) *BadgerTagRepository {
	return &BadgerTagRepository{db: db}
}

// ListWithCounts returns every tag with the number of posts linked to it,
// sorted by name. Tags with no linked posts are omitted.
func (r *BadgerTagRepository) ListWithCounts() ([]models.TagCount, error) {
	var counts []models.TagCount

	err := r.db.View(func(txn *badger.Txn) error {
		var tags []models.Tag

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		prefix := []byte(TagKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var tag models.Tag
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &tag)
			}); err != nil {
				it.Close()
				return err
			}
			tags = append(tags, tag)
		}
		it.Close()

		for _, tag := range tags {
			linked, err := scanLinkedIDs(txn, tagPostScanPrefix(tag.ID))
			if err != nil {
				return err
			}
			if len(linked) == 0 {
				continue
			}
			counts = append(counts, models.TagCount{Name: tag.Name, Count: len(linked)})
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Name < counts[j].Name
	})
	return counts, nil
}
