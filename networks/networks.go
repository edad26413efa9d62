package networks

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

var ErrNetworkNotFound = fmt.Errorf("network not found")

var (
	mu        sync.RWMutex
	byName    = map[string]Network{}
	byChainID = map[uint64]Network{}
)

func init() {
	Register(NexusTestnet)
}

// Register makes n resolvable by its name, alternative names and chain id.
// A later registration with the same name replaces the earlier one.
func Register(n Network) {
	mu.Lock()
	defer mu.Unlock()
	byName[strings.ToLower(n.GetName())] = n
	for _, alt := range n.GetAlternativeNames() {
		byName[strings.ToLower(alt)] = n
	}
	byChainID[n.GetChainID()] = n
}

func GetNetwork(name string) (Network, error) {
	mu.RLock()
	defer mu.RUnlock()
	n, found := byName[strings.ToLower(strings.TrimSpace(name))]
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNetworkNotFound, name)
	}
	return n, nil
}

func GetNetworkByID(id uint64) (Network, error) {
	mu.RLock()
	defer mu.RUnlock()
	n, found := byChainID[id]
	if !found {
		return nil, fmt.Errorf("%w: chain id %d", ErrNetworkNotFound, id)
	}
	return n, nil
}

func GetSupportedNetworkNames() []string {
	mu.RLock()
	defer mu.RUnlock()
	res := []string{}
	for name := range byName {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}
