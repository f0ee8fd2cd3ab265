package blockchain

import (
	"fmt"
	"sync"

	"blockbustre.backend/internal/domain/entities"
)

// ClientFactory manages one lazily dialed client per configured network
type ClientFactory struct {
	rpcURLs map[entities.BlockchainNetwork]string
	clients map[entities.BlockchainNetwork]*EVMClient
	mu      sync.RWMutex
}

// NewClientFactory creates a factory from a network to RPC URL mapping
func NewClientFactory(rpcURLs map[entities.BlockchainNetwork]string) *ClientFactory {
	if rpcURLs == nil {
		rpcURLs = make(map[entities.BlockchainNetwork]string)
	}
	return &ClientFactory{
		rpcURLs: rpcURLs,
		clients: make(map[entities.BlockchainNetwork]*EVMClient),
	}
}

// GetClient returns the client for a network, dialing it on first use
func (f *ClientFactory) GetClient(network entities.BlockchainNetwork) (*EVMClient, error) {
	f.mu.RLock()
	client, ok := f.clients[network]
	f.mu.RUnlock()
	if ok {
		return client, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Double check
	if client, ok := f.clients[network]; ok {
		return client, nil
	}

	rpcURL, ok := f.rpcURLs[network]
	if !ok || rpcURL == "" {
		return nil, fmt.Errorf("no RPC endpoint configured for network %s", network)
	}

	newClient, err := NewEVMClient(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create EVM client: %w", err)
	}

	f.clients[network] = newClient
	return newClient, nil
}

// RegisterClient injects/overrides the cached client for a network.
// Useful for deterministic unit tests.
func (f *ClientFactory) RegisterClient(network entities.BlockchainNetwork, client *EVMClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients[network] = client
}

// Close closes all dialed clients
func (f *ClientFactory) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clients {
		c.Close()
	}
	f.clients = make(map[entities.BlockchainNetwork]*EVMClient)
}
