package db

import (
	"log"
	"sync"

	"github.com/dgraph-io/ristretto"
)

// Cached list responses are tracked per entity so a mutation can evict
// every key of that entity in one sweep without scanning ristretto.
var (
	Cache *ristretto.Cache

	walletKeys      = newKeyRegistry()
	transactionKeys = newKeyRegistry()
)

type keyRegistry struct {
	sync.Mutex
	keys map[string]struct{}
}

func newKeyRegistry() *keyRegistry {
	return &keyRegistry{keys: make(map[string]struct{})}
}

func (r *keyRegistry) add(key string) {
	r.Lock()
	r.keys[key] = struct{}{}
	r.Unlock()
}

func (r *keyRegistry) remove(key string) {
	r.Lock()
	delete(r.keys, key)
	r.Unlock()
}

func (r *keyRegistry) clear() {
	r.Lock()
	for key := range r.keys {
		Cache.Del(key)
	}
	r.keys = make(map[string]struct{})
	r.Unlock()
}

func InitCache() {
	var err error
	Cache, err = ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64, // number of keys per Get buffer
	})
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}
}

func SetWalletCache(key string, value interface{}) {
	walletKeys.add(key)
	Cache.Set(key, value, 1)
}

func DelWalletCache(key string) {
	walletKeys.remove(key)
	Cache.Del(key)
}

func ClearAllWalletCaches() {
	walletKeys.clear()
}

func SetTransactionCache(key string, value interface{}) {
	transactionKeys.add(key)
	Cache.Set(key, value, 1)
}

func DelTransactionCache(key string) {
	transactionKeys.remove(key)
	Cache.Del(key)
}

func ClearAllTransactionCaches() {
	transactionKeys.clear()
}
