package bolt

import (
	"encoding/json"

	"github.com/boltdb/bolt"

	"github.com/readnet/readnet"
)

var (
	configBucket = []byte("config")
	configKey    = []byte("config")
)

// ConfigRepository stores the configuration singleton.
type ConfigRepository struct {
	Driver *Driver
}

// Get returns the configuration record, materializing the default the first
// time it is read. The default is written inside a write transaction that
// re-checks for the record, so a concurrent first access never creates it
// twice.
func (r *ConfigRepository) Get() (readnet.Config, error) {
	var cfg readnet.Config
	found := false
	err := r.Driver.store.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(configBucket).Get(configKey)
		if data == nil {
			return nil
		}

		found = true
		return json.Unmarshal(data, &cfg)
	})
	if err != nil {
		return readnet.Config{}, err
	}
	if found {
		return cfg, nil
	}

	err = r.Driver.store.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(configBucket)

		// Another Get may have materialized the record in the meantime.
		if data := bucket.Get(configKey); data != nil {
			return json.Unmarshal(data, &cfg)
		}

		cfg = readnet.Config{}
		buf, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		return bucket.Put(configKey, buf)
	})
	if err != nil {
		return readnet.Config{}, err
	}

	return cfg, nil
}

// Set upserts the configuration record. Subsequent Gets observe the new
// value immediately.
func (r *ConfigRepository) Set(cfg readnet.Config) (readnet.Config, error) {
	err := r.Driver.store.Update(func(tx *bolt.Tx) error {
		buf, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		return tx.Bucket(configBucket).Put(configKey, buf)
	})
	if err != nil {
		return readnet.Config{}, err
	}

	return cfg, nil
}
