package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"

	"github.com/pstuifzand/listview/internal/model"
	"github.com/pstuifzand/listview/internal/selection"
)

var viewsBucket = []byte("views")

// ErrNoState is returned by StateStore.Load for a list that was never saved
var ErrNoState = errors.New("storage: no saved state")

// ViewState is what is remembered about a list between sessions
type ViewState struct {
	Expanded  []model.Key
	Selection selection.Selection
	Current   model.Key
	Filter    string
	Saved     time.Time
}

type stateRecord struct {
	Expanded  []model.Key `msgpack:"expanded,omitempty"`
	Selection []byte      `msgpack:"selection"`
	Current   model.Key   `msgpack:"current,omitempty"`
	Filter    string      `msgpack:"filter,omitempty"`
	Saved     time.Time   `msgpack:"saved"`
}

// StateStore keeps per-list view state in a bolt database, keyed by the
// list file path.
type StateStore struct {
	db *bbolt.DB
}

// OpenStateStore opens or creates the database at path
func OpenStateStore(path string) (*StateStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(viewsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init state %s: %w", path, err)
	}
	return &StateStore{db: db}, nil
}

// Close releases the database file
func (s *StateStore) Close() error {
	return s.db.Close()
}

// Save stores st for list
func (s *StateStore) Save(list string, st ViewState) error {
	sel, err := selection.Marshal(st.Selection)
	if err != nil {
		return err
	}
	if st.Saved.IsZero() {
		st.Saved = time.Now()
	}
	data, err := msgpack.Marshal(&stateRecord{
		Expanded:  st.Expanded,
		Selection: sel,
		Current:   st.Current,
		Filter:    st.Filter,
		Saved:     st.Saved,
	})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(viewsBucket).Put([]byte(list), data)
	})
}

// Load returns the state saved for list, or ErrNoState
func (s *StateStore) Load(list string) (ViewState, error) {
	var data []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(viewsBucket).Get([]byte(list)); v != nil {
			// Bolt values are only valid inside the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return ViewState{}, err
	}
	if data == nil {
		return ViewState{}, fmt.Errorf("%s: %w", list, ErrNoState)
	}

	var rec stateRecord
	if err := msgpack.Unmarshal(data, &rec); err != nil {
		return ViewState{}, fmt.Errorf("decode state %s: %w", list, err)
	}
	sel, err := selection.Unmarshal(rec.Selection)
	if err != nil {
		return ViewState{}, fmt.Errorf("%s: %w", list, err)
	}
	return ViewState{
		Expanded:  rec.Expanded,
		Selection: sel,
		Current:   rec.Current,
		Filter:    rec.Filter,
		Saved:     rec.Saved,
	}, nil
}

// Delete forgets the state of list
func (s *StateStore) Delete(list string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(viewsBucket).Delete([]byte(list))
	})
}

// Lists returns the names of all lists with saved state, in key order
func (s *StateStore) Lists() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(viewsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}
