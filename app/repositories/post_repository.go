package repositories

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"inkwell/app/models"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create persists a new post together with its slug index, tag upserts,
// and tag links in one transaction. The caller's tag names are collapsed
// to a unique set; post.Tags holds the resolved set on return.
func (r *BadgerPostRepository) Create(post *models.Post, tags []string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		// Reserve the slug before anything else
		if _, err := txn.Get(slugKey(post.Slug)); err == nil {
			return ErrSlugConflict
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id
		post.BeforeCreate()

		tagIDs, names, err := upsertTags(txn, tags)
		if err != nil {
			return err
		}
		post.Tags = names

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		if err := txn.Set(postKey(post.ID), data); err != nil {
			return err
		}
		if err := writeIndex(txn, slugKey(post.Slug), post.ID); err != nil {
			return err
		}
		return linkTags(txn, post.ID, tagIDs)
	})
}

// GetByID retrieves a post by ID with its resolved tag names
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		}); err != nil {
			return err
		}

		tags, err := resolveTagNames(txn, post.ID)
		if err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetBySlug retrieves a post by its unique slug. Publication status does
// not gate visibility here.
func (r *BadgerPostRepository) GetBySlug(slug string) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		id, err := readIndex(txn, slugKey(slug))
		if err != nil {
			return err
		}
		item, err := txn.Get(postKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		}); err != nil {
			return err
		}

		tags, err := resolveTagNames(txn, post.ID)
		if err != nil {
			return err
		}
		post.Tags = tags
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns the total number of posts matching the filter and the
// requested page, ordered by creation time (newest first unless the
// filter asks for oldest). The total is counted before pagination.
func (r *BadgerPostRepository) List(filter models.ListFilter) (int, []*models.Post, error) {
	var total int
	var page []*models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		// Tag filter narrows to the posts linked from the reverse index.
		var allowed map[int]bool
		if filter.Tag != "" {
			tagID, err := readIndex(txn, tagNameKey(filter.Tag))
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			allowed = make(map[int]bool)
			ids, err := scanLinkedIDs(txn, tagPostScanPrefix(tagID))
			if err != nil {
				return err
			}
			for _, id := range ids {
				allowed[id] = true
			}
		}

		query := strings.ToLower(filter.Query)
		var matched []*models.Post

		it := txn.NewIterator(badger.DefaultIteratorOptions)
		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			if err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			}); err != nil {
				it.Close()
				return err
			}
			if allowed != nil && !allowed[post.ID] {
				continue
			}
			if query != "" && !strings.Contains(strings.ToLower(post.Title), query) {
				continue
			}
			p := post
			matched = append(matched, &p)
		}
		it.Close()

		oldest := filter.Sort == "oldest"
		sort.SliceStable(matched, func(i, j int) bool {
			a, b := matched[i], matched[j]
			if a.CreatedAt.Equal(b.CreatedAt) {
				if oldest {
					return a.ID < b.ID
				}
				return a.ID > b.ID
			}
			if oldest {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return a.CreatedAt.After(b.CreatedAt)
		})

		total = len(matched)
		start := filter.Offset
		if start < 0 {
			start = 0
		}
		if start > total {
			start = total
		}
		end := total
		if filter.Limit >= 0 && start+filter.Limit < end {
			end = start + filter.Limit
		}
		page = matched[start:end]

		for _, p := range page {
			tags, err := resolveTagNames(txn, p.ID)
			if err != nil {
				return err
			}
			p.Tags = tags
		}
		return nil
	})

	if err != nil {
		return 0, nil, err
	}
	return total, page, nil
}

// Update overwrites an existing post and replaces its tag associations
// entirely. Tags dropped from the set are unlinked but never deleted.
func (r *BadgerPostRepository) Update(post *models.Post, tags []string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(post.ID))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var existing models.Post
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &existing)
		}); err != nil {
			return err
		}

		// The target slug must not belong to a different post.
		if owner, err := readIndex(txn, slugKey(post.Slug)); err == nil {
			if owner != post.ID {
				return ErrSlugConflict
			}
		} else if !errors.Is(err, ErrNotFound) {
			return err
		}

		if existing.Slug != post.Slug {
			if err := txn.Delete(slugKey(existing.Slug)); err != nil {
				return err
			}
			if err := writeIndex(txn, slugKey(post.Slug), post.ID); err != nil {
				return err
			}
		}

		post.CreatedAt = existing.CreatedAt
		post.BeforeUpdate()

		oldTagIDs, err := scanLinkedIDs(txn, postTagScanPrefix(post.ID))
		if err != nil {
			return err
		}
		for _, tid := range oldTagIDs {
			if err := txn.Delete(postTagKey(post.ID, tid)); err != nil {
				return err
			}
			if err := txn.Delete(tagPostKey(tid, post.ID)); err != nil {
				return err
			}
		}

		tagIDs, names, err := upsertTags(txn, tags)
		if err != nil {
			return err
		}
		post.Tags = names
		if err := linkTags(txn, post.ID, tagIDs); err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// Delete removes a post, its slug index, and both directions of its tag
// links. The tags themselves persist.
func (r *BadgerPostRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		var post models.Post
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		}); err != nil {
			return err
		}

		tagIDs, err := scanLinkedIDs(txn, postTagScanPrefix(id))
		if err != nil {
			return err
		}
		for _, tid := range tagIDs {
			if err := txn.Delete(postTagKey(id, tid)); err != nil {
				return err
			}
			if err := txn.Delete(tagPostKey(tid, id)); err != nil {
				return err
			}
		}

		if err := txn.Delete(slugKey(post.Slug)); err != nil {
			return err
		}
		return txn.Delete(postKey(id))
	})
}

// upsertTags resolves tag names to ids, creating tags that don't exist
// yet. Matching is case-sensitive and duplicates in the input collapse to
// a single reference, preserving first-seen order.
func upsertTags(txn *badger.Txn, names []string) ([]int, []string, error) {
	seen := make(map[string]bool, len(names))
	ids := make([]int, 0, len(names))
	unique := make([]string, 0, len(names))

	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		id, err := readIndex(txn, tagNameKey(name))
		if errors.Is(err, ErrNotFound) {
			id, err = getNextID(txn, TagSeqKey)
			if err != nil {
				return nil, nil, err
			}
			data, merr := marshalEntity(&models.Tag{ID: id, Name: name})
			if merr != nil {
				return nil, nil, merr
			}
			if err := txn.Set(tagKey(id), data); err != nil {
				return nil, nil, err
			}
			if err := writeIndex(txn, tagNameKey(name), id); err != nil {
				return nil, nil, err
			}
		} else if err != nil {
			return nil, nil, err
		}

		ids = append(ids, id)
		unique = append(unique, name)
	}
	return ids, unique, nil
}

// linkTags writes both directions of the post<->tag association.
func linkTags(txn *badger.Txn, postID int, tagIDs []int) error {
	for _, tid := range tagIDs {
		if err := txn.Set(postTagKey(postID, tid), nil); err != nil {
			return err
		}
		if err := txn.Set(tagPostKey(tid, postID), nil); err != nil {
			return err
		}
	}
	return nil
}

// scanLinkedIDs collects the trailing id from every association key under
// the given prefix. The iterator is closed before returning so callers in
// a writable transaction can open their own.
func scanLinkedIDs(txn *badger.Txn, prefix []byte) ([]int, error) {
	var ids []int

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		key := string(it.Item().Key())
		var id int
		if _, err := fmt.Sscanf(key[len(prefix):], "%d", &id); err != nil {
			return nil, fmt.Errorf("malformed association key %q: %v", key, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// resolveTagNames loads the names of every tag linked to a post.
func resolveTagNames(txn *badger.Txn, postID int) ([]string, error) {
	ids, err := scanLinkedIDs(txn, postTagScanPrefix(postID))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		item, err := txn.Get(tagKey(id))
		if err != nil {
			return nil, err
		}
		var tag models.Tag
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &tag)
		}); err != nil {
			return nil, err
		}
		names = append(names, tag.Name)
	}
	return names, nil
}
