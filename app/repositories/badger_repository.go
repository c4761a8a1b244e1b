package repositories

import (
	"sync"

	"postsapi/app/models"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// BadgerPostRepository implements PostRepository on an in-memory BadgerDB.
// Posts are stored under a sequence key so iteration yields creation order,
// with a secondary key mapping each post id to its sequence.
type BadgerPostRepository struct {
	db *badger.DB
	// writes are serialised so concurrent creates never conflict on the sequence key
	writeMu sync.Mutex
}

// NewBadgerPostRepository opens a fresh in-memory BadgerDB. Nothing is written to disk.
func NewBadgerPostRepository() (*BadgerPostRepository, error) {
	opts := badger.DefaultOptions("").
		WithInMemory(true).
		WithLogger(nil).
		WithNumVersionsToKeep(1)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open in-memory badger")
	}
	return NewBadgerPostRepositoryWithDB(db), nil
}

// NewBadgerPostRepositoryWithDB wraps an already opened database
func NewBadgerPostRepositoryWithDB(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create stores a new post after the existing ones
func (r *BadgerPostRepository) Create(post *models.Post) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	return r.db.Update(func(txn *badger.Txn) error {
		idxKey := postIndexKey(post.ID)
		_, err := txn.Get(idxKey)
		if err == nil {
			return ErrDuplicateID
		}
		if err != badger.ErrKeyNotFound {
			return err
		}

		seq, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		if err := txn.Set(postKey(seq), data); err != nil {
			return err
		}
		return txn.Set(idxKey, encodeSeq(seq))
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		seq, err := lookupSeq(txn, id)
		if err != nil {
			return err
		}
		return readPost(txn, seq, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves all posts in creation order
func (r *BadgerPostRepository) List() ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return errors.Wrap(err, "failed to read post")
			}
			posts = append(posts, &post)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Update replaces title and content of an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	return r.db.Update(func(txn *badger.Txn) error {
		seq, err := lookupSeq(txn, post.ID)
		if err != nil {
			return err
		}

		var existing models.Post
		if err := readPost(txn, seq, &existing); err != nil {
			return err
		}
		existing.Title = post.Title
		existing.Content = post.Content

		data, err := marshalEntity(&existing)
		if err != nil {
			return err
		}
		return txn.Set(postKey(seq), data)
	})
}

// Delete deletes a post by ID
func (r *BadgerPostRepository) Delete(id string) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	return r.db.Update(func(txn *badger.Txn) error {
		seq, err := lookupSeq(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(postKey(seq)); err != nil {
			return err
		}
		return txn.Delete(postIndexKey(id))
	})
}

// Close closes the underlying database, discarding every post.
func (r *BadgerPostRepository) Close() error {
	return r.db.Close()
}

func lookupSeq(txn *badger.Txn, id string) (uint64, error) {
	item, err := txn.Get(postIndexKey(id))
	if err == badger.ErrKeyNotFound {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	var seq uint64
	err = item.Value(func(val []byte) error {
		seq, err = decodeSeq(val)
		return err
	})
	return seq, err
}

func readPost(txn *badger.Txn, seq uint64, post *models.Post) error {
	item, err := txn.Get(postKey(seq))
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, post)
	})
}
