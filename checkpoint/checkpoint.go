// checkpoint stores simulation results in a bolt database, so a run
// with the same parameters does not need to be repeated.
package checkpoint

import (
	"encoding/json"
	"time"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"

	"bitbucket.org/Davydov/ehrenfest/simulation"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// RESULTS is the bucket name for all the results.
var RESULTS = []byte("results")

// CheckpointData stores a run.
type CheckpointData struct {
	Parameters simulation.Parameters `json:"parameters"`
	Solver     string                `json:"solver"`
	Results    *simulation.Results   `json:"results"`
	Saved      time.Time             `json:"saved"`
}

// ResultsIO saves and loads results.
type ResultsIO struct {
	db     *bolt.DB
	solver string
}

// NewResultsIO creates a new ResultsIO. Results computed by different
// solvers are stored separately.
func NewResultsIO(db *bolt.DB, solver string) *ResultsIO {
	return &ResultsIO{
		db:     db,
		solver: solver,
	}
}

// key returns a database key for parameters.
func (s *ResultsIO) key(p simulation.Parameters) []byte {
	return []byte(s.solver + ":" + p.Key())
}

// Save saves results to the database.
func (s *ResultsIO) Save(p simulation.Parameters, res *simulation.Results) error {
	data := &CheckpointData{
		Parameters: p,
		Solver:     s.solver,
		Results:    res,
		Saved:      time.Now(),
	}
	dataB, err := json.Marshal(data)
	if err != nil {
		log.Error("Error serializing results", err)
		return err
	}
	err = SaveData(s.db, s.key(p), dataB)
	if err != nil {
		log.Error("Error saving results", err)
	}
	return err
}

// Load returns results saved for the parameters, nil if there is
// none.
func (s *ResultsIO) Load(p simulation.Parameters) (*simulation.Results, error) {
	var data *CheckpointData

	b, err := LoadData(s.db, s.key(p))
	if err != nil || b == nil {
		return nil, err
	}

	err = json.Unmarshal(b, &data)
	if err != nil {
		return nil, err
	}

	if data == nil || data.Results == nil {
		return nil, nil
	}

	log.Noticef("Found saved results (%s, %d points, saved %v)", data.Parameters.Key(), data.Results.Len(), data.Saved.Format(time.RFC3339))

	return data.Results, nil
}

// SaveData saves values in bolt database.
func SaveData(db *bolt.DB, key []byte, data []byte) error {
	if db == nil {
		return nil
	}
	err := db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(RESULTS)
		if err != nil {
			return err
		}

		return b.Put(key, data)
	})
	return err
}

// LoadData loads data from bolt database.
func LoadData(db *bolt.DB, key []byte) ([]byte, error) {
	var data []byte
	if db == nil {
		return nil, nil
	}
	err := db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(RESULTS)
		if b == nil {
			return nil
		}

		// v is only valid inside the transaction
		if v := b.Get(key); v != nil {
			data = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
