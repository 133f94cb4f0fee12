// Package bolt implements db.Store on an embedded bbolt database. It serves
// single-binary deployments and tests that need a real store without a
// database server.
package bolt

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	bbolt "go.etcd.io/bbolt"

	"github.com/taskcanvas/taskcanvas/db"
)

var (
	bucketUsers        = []byte("users")
	bucketUsersByEmail = []byte("users_by_email")
	bucketProjects     = []byte("projects")
	bucketNotes        = []byte("notes")
	bucketTasks        = []byte("tasks")
	bucketMessages     = []byte("chat_messages")
	bucketSharings     = []byte("project_sharing")
	// sharing_by_target enforces the one-share-per-(project, user) invariant
	bucketSharingIndex = []byte("sharing_by_target")
)

var allBuckets = [][]byte{
	bucketUsers,
	bucketUsersByEmail,
	bucketProjects,
	bucketNotes,
	bucketTasks,
	bucketMessages,
	bucketSharings,
	bucketSharingIndex,
}

type BoltDb struct {
	filename string
	db       *bbolt.DB
}

func NewBoltDb(filename string) *BoltDb {
	return &BoltDb{filename: filename}
}

func (d *BoltDb) Connect() error {
	conn, err := bbolt.Open(d.filename, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return err
	}
	d.db = conn
	log.WithField("filename", d.filename).Info("connected to store")
	return nil
}

func (d *BoltDb) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *BoltDb) Migrate() error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}

func (d *BoltDb) putObject(bucket []byte, id string, obj interface{}) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return d.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(id), data)
	})
}

func (d *BoltDb) getObject(bucket []byte, id string, out interface{}) error {
	return d.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(id))
		if data == nil {
			return db.ErrNotFound
		}
		return json.Unmarshal(data, out)
	})
}

func (d *BoltDb) deleteObject(bucket []byte, id string) error {
	return d.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucket)
		if b.Get([]byte(id)) == nil {
			return db.ErrNotFound
		}
		return b.Delete([]byte(id))
	})
}

func decode(data []byte, out interface{}) error {
	return json.Unmarshal(data, out)
}

// eachObject decodes every value in bucket into a fresh T and passes it to fn.
func eachObject[T any](tx *bbolt.Tx, bucket []byte, fn func(obj T) error) error {
	return tx.Bucket(bucket).ForEach(func(_, data []byte) error {
		var obj T
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		return fn(obj)
	})
}
